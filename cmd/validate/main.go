package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jwebster45206/scene-forge/pkg/animation"
	"github.com/jwebster45206/scene-forge/pkg/scene"
	"github.com/jwebster45206/scene-forge/pkg/template"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <template.json | patterns/pattern.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &TemplateValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("File is valid!")
}

type TemplateValidator struct {
	errors []string
}

func (v *TemplateValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidID(nameWithoutExt) {
		return fmt.Errorf("filename '%s' must be lowercase snake_case (e.g., dungeon_room.json, not DungeonRoom.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	// Files under a patterns/ directory are pattern fragments, everything
	// else is a scene template.
	if filepath.Base(filepath.Dir(filename)) == "patterns" {
		v.validatePatternFile(data, nameWithoutExt)
	} else {
		v.validateTemplateFile(data, nameWithoutExt)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *TemplateValidator) validateTemplateFile(data []byte, filename string) {
	var tmpl template.SceneTemplate

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&tmpl); err != nil {
		v.addError(fmt.Sprintf("failed strict JSON unmarshaling: %v", err))
		return
	}

	if tmpl.Name == "" {
		v.addError("template is missing 'name'")
	} else {
		v.validateIDFormat("template name", tmpl.Name)
		if tmpl.Name != filename {
			v.addError(fmt.Sprintf("template name '%s' should match filename '%s.json'", tmpl.Name, filename))
		}
	}

	v.validateIDFormat("base_template", tmpl.BaseTemplate)
	if tmpl.BaseTemplate == tmpl.Name && tmpl.Name != "" {
		v.addError(fmt.Sprintf("template '%s' inherits from itself", tmpl.Name))
	}

	for i, obj := range tmpl.Objects {
		name, _ := obj["name"].(string)
		if name == "" {
			v.addError(fmt.Sprintf("object %d is missing 'name'", i))
			continue
		}
		// Pattern tokens are resolved before objects are decoded, so a
		// literal "$token" name is fine in a pattern but not in a template.
		if strings.HasPrefix(name, "$") {
			v.addError(fmt.Sprintf("object '%s' has an unresolved pattern token as its name", name))
			continue
		}
		v.validateIDFormat("object name", name)
	}

	for _, inv := range tmpl.Patterns {
		if inv.Name == "" {
			v.addError("pattern invocation is missing 'name'")
			continue
		}
		v.validateIDFormat("pattern invocation", inv.Name)
	}

	for k := range tmpl.Variables {
		if !isValidID(k) {
			v.addError(fmt.Sprintf("variable name '%s' should be lowercase snake_case", k))
		}
	}

	v.validateAnimations(tmpl.Animations)
}

// validateAnimations binds each animation spec and registers it with a fresh
// animation system, which enforces the structural rules (keyframe ordering,
// transition targets, chain stage refs).
func (v *TemplateValidator) validateAnimations(specs []map[string]any) {
	sys := animation.NewSystem()

	for i, spec := range specs {
		raw, err := json.Marshal(spec)
		if err != nil {
			v.addError(fmt.Sprintf("animation %d is not encodable: %v", i, err))
			continue
		}
		var att scene.AnimationAttachment
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&att); err != nil {
			v.addError(fmt.Sprintf("animation %d failed strict JSON unmarshaling: %v", i, err))
			continue
		}

		switch att.Type {
		case "sequence":
			if att.Sequence == nil {
				v.addError(fmt.Sprintf("animation %d has type 'sequence' but no sequence body", i))
				continue
			}
			if _, err := sys.CreateSequence(*att.Sequence); err != nil {
				v.addError(fmt.Sprintf("animation %d: %v", i, err))
			}
		case "chain":
			if att.Chain == nil {
				v.addError(fmt.Sprintf("animation %d has type 'chain' but no chain body", i))
				continue
			}
			if _, err := sys.CreateChain(*att.Chain); err != nil {
				v.addError(fmt.Sprintf("animation %d: %v", i, err))
			}
		default:
			v.addError(fmt.Sprintf("animation %d has unknown type '%s' (expected sequence or chain)", i, att.Type))
		}
	}
}

func (v *TemplateValidator) validatePatternFile(data []byte, filename string) {
	var p template.Pattern

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&p); err != nil {
		v.addError(fmt.Sprintf("failed strict JSON unmarshaling: %v", err))
		return
	}

	switch p.Type {
	case template.PatternObjectGroup:
		if len(p.Objects) == 0 {
			v.addError("object_group pattern has no objects")
		}
		if len(p.Animations) > 0 {
			v.addError("object_group pattern should not carry animations")
		}
	case template.PatternAnimationSequence:
		if len(p.Animations) == 0 {
			v.addError("animation_sequence pattern has no animations")
		}
		if len(p.Objects) > 0 {
			v.addError("animation_sequence pattern should not carry objects")
		}
	default:
		v.addError(fmt.Sprintf("pattern type '%s' is not supported (expected object_group or animation_sequence)", p.Type))
		return
	}

	// Report the parameter surface so authors can see which tokens every
	// invocation must supply.
	tokens := patternTokens(&p)
	if len(tokens) > 0 {
		fmt.Printf("Pattern '%s' parameters: %s\n", filename, strings.Join(tokens, ", "))
	}
}

// patternTokens lists the "$token" placeholders a pattern expects, sorted.
func patternTokens(p *template.Pattern) []string {
	found := map[string]bool{}
	for _, spec := range p.Objects {
		collectTokens(spec, found)
	}
	for _, spec := range p.Animations {
		collectTokens(spec, found)
	}

	tokens := make([]string, 0, len(found))
	for t := range found {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

func collectTokens(value any, found map[string]bool) {
	switch val := value.(type) {
	case string:
		if strings.HasPrefix(val, "$") {
			found[val] = true
		}
	case map[string]any:
		for _, item := range val {
			collectTokens(item, found)
		}
	case []any:
		for _, item := range val {
			collectTokens(item, found)
		}
	}
}

func (v *TemplateValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *TemplateValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
