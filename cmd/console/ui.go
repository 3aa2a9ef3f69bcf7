package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/scene-forge/internal/composer"
	"github.com/jwebster45206/scene-forge/pkg/quality"
	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// qualityCycle is the order Tab steps through.
var qualityCycle = []string{quality.Low, quality.Medium, quality.High, quality.Ultra}

var titleCaser = cases.Title(language.English)

// ConsoleUI is the BubbleTea model that runs the scene browser.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	result        *composer.GenerateResult
	sceneViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool
	seed          int64
	quality       string

	// Template selection state
	showTemplateModal bool
	templates         []string
	selectedTemplate  int
	activeTemplate    string
	loadingTemplates  bool

	// Quit confirmation state
	showQuitModal bool

	// Transient status line (clipboard feedback)
	status string

	// Progress bar state
	progressTick int
}

type templatesLoadedMsg struct {
	templates []string
	err       error
}

type sceneGeneratedMsg struct {
	result *composer.GenerateResult
	err    error
}

type clipboardMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	sceneVp := viewport.New(50, 20)
	sceneVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:            cfg,
		client:            client,
		sceneViewport:     sceneVp,
		metaViewport:      metaVp,
		ready:             false,
		showTemplateModal: true,
		loadingTemplates:  true,
		selectedTemplate:  0,
		seed:              time.Now().Unix(),
		quality:           quality.Medium,
	}
}

// displayName turns a snake_case id into a title-cased label.
func displayName(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadTemplates()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showTemplateModal {
		return m.updateTemplateModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewports()
		m.writeSceneContent()
		m.metaViewport.SetContent(m.writeMetadata())
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyTab:
			if m.loading {
				return m, nil
			}
			m.quality = nextQuality(m.quality)
			return m.startRegenerate()
		}

		switch msg.String() {
		case "r":
			if m.loading {
				return m, nil
			}
			m.seed++
			return m.startRegenerate()
		case "t":
			m.showTemplateModal = true
			m.status = ""
			return m, nil
		case "c":
			if m.result == nil {
				return m, nil
			}
			return m, m.copySceneJSON()
		}

	case sceneGeneratedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.result = msg.result
		}
		m.writeSceneContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Copy failed: " + msg.err.Error())
		} else {
			m.status = valueStyle.Render("Scene JSON copied to clipboard")
		}
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeSceneContent()
			return m, progressTick()
		}
	}

	m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(vpCmd, mvCmd)
}

func (m *ConsoleUI) layoutViewports() {
	sceneWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - sceneWidth - 6

	m.sceneViewport.Width = sceneWidth - 2
	m.sceneViewport.Height = m.height - 5
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
}

func (m ConsoleUI) startRegenerate() (tea.Model, tea.Cmd) {
	m.loading = true
	m.progressTick = 0
	m.status = ""
	m.writeSceneContent()
	return m, tea.Batch(m.generate(), progressTick())
}

func (m ConsoleUI) generate() tea.Cmd {
	template := m.activeTemplate
	req := composer.GenerateRequest{
		Template: template,
		Quality:  m.quality,
		Seed:     m.seed,
	}
	client := m.client
	baseURL := m.config.APIBaseURL

	if m.result != nil && m.result.Scene.Template == template {
		sceneID := m.result.Scene.ID
		return func() tea.Msg {
			result, err := regenerateScene(client, baseURL, sceneID, req)
			return sceneGeneratedMsg{result, err}
		}
	}
	return func() tea.Msg {
		result, err := generateScene(client, baseURL, req)
		return sceneGeneratedMsg{result, err}
	}
}

func (m ConsoleUI) copySceneJSON() tea.Cmd {
	sc := m.result.Scene
	return func() tea.Msg {
		data, err := json.MarshalIndent(sc, "", "  ")
		if err != nil {
			return clipboardMsg{err}
		}
		return clipboardMsg{clipboard.WriteAll(string(data))}
	}
}

func (m ConsoleUI) loadTemplates() tea.Cmd {
	return func() tea.Msg {
		templates, err := listTemplates(m.client, m.config.APIBaseURL)
		return templatesLoadedMsg{templates, err}
	}
}

func nextQuality(current string) string {
	for i, tier := range qualityCycle {
		if tier == current {
			return qualityCycle[(i+1)%len(qualityCycle)]
		}
	}
	return quality.Medium
}

// writeSceneContent renders the scene summary into the main viewport.
func (m *ConsoleUI) writeSceneContent() {
	width := m.sceneViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("SCENE FORGE") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: ") + wordwrap.String(m.err.Error(), width) + "\n\n")
	}

	if m.result == nil {
		content.WriteString("No scene generated yet.\n")
	} else {
		writeSceneSummary(&content, m.result, width)
	}

	if m.loading {
		content.WriteString("\n" + m.renderProgressBar())
	}

	m.sceneViewport.SetContent(content.String())
}

func writeSceneSummary(content *strings.Builder, result *composer.GenerateResult, width int) {
	sc := result.Scene

	content.WriteString(sectionStyle.Render(displayName(sc.Template)) + "\n")
	content.WriteString(promptStyle.Render(sc.ID.String()) + "\n\n")

	content.WriteString(sectionStyle.Render("Camera") + "\n")
	content.WriteString(fmt.Sprintf("%s at (%.1f, %.1f, %.1f), fov %.0f\n\n",
		sc.Camera.Type, sc.Camera.Position.X, sc.Camera.Position.Y, sc.Camera.Position.Z, sc.Camera.FOV))

	content.WriteString(sectionStyle.Render(fmt.Sprintf("Lights (%d)", len(sc.Lights))) + "\n")
	for _, light := range sc.Lights {
		line := fmt.Sprintf("• %s", light.Type)
		if light.Color != "" {
			line += " " + light.Color
		}
		line += fmt.Sprintf(", intensity %.2f", light.Intensity)
		if light.CastShadow {
			line += fmt.Sprintf(", shadows %dpx", light.ShadowMapSize)
		}
		content.WriteString(line + "\n")
	}
	content.WriteString("\n")

	content.WriteString(sectionStyle.Render(fmt.Sprintf("Objects (%d)", len(sc.Objects))) + "\n")
	for _, line := range objectSummary(sc) {
		content.WriteString(line + "\n")
	}
	content.WriteString("\n")

	if sc.Environment.Fog != nil {
		fog := sc.Environment.Fog
		content.WriteString(sectionStyle.Render("Fog") + "\n")
		content.WriteString(fmt.Sprintf("%s %s, density %.2f\n\n", fog.Type, fog.Color, fog.Density))
	}
	if len(sc.Environment.Sounds) > 0 {
		content.WriteString(sectionStyle.Render("Ambient Sounds") + "\n")
		for _, snd := range sc.Environment.Sounds {
			content.WriteString(fmt.Sprintf("• %s, volume %.1f\n", snd.Type, snd.Volume))
		}
		content.WriteString("\n")
	}
	if len(sc.PostProcessing) > 0 {
		effects := make([]string, 0, len(sc.PostProcessing))
		for _, e := range sc.PostProcessing {
			effects = append(effects, e.Type)
		}
		content.WriteString(sectionStyle.Render("Post-Processing") + "\n")
		content.WriteString(wordwrap.String(strings.Join(effects, ", "), width) + "\n\n")
	}
	if len(sc.Animations) > 0 {
		content.WriteString(sectionStyle.Render(fmt.Sprintf("Animations (%d)", len(sc.Animations))) + "\n")
		for _, att := range sc.Animations {
			name := ""
			if att.Sequence != nil {
				name = att.Sequence.Name
			} else if att.Chain != nil {
				name = att.Chain.Name
			}
			content.WriteString(fmt.Sprintf("• %s %q on %s\n", att.Type, name, att.Target))
		}
		content.WriteString("\n")
	}

	if len(result.RequiredAssets) > 0 {
		content.WriteString(sectionStyle.Render(fmt.Sprintf("Required Assets (%d)", len(result.RequiredAssets))) + "\n")
		content.WriteString(promptStyle.Render(wordwrap.String(strings.Join(result.RequiredAssets, " "), width)) + "\n")
	}
}

// objectSummary groups scene objects by geometry type (or model reference)
// and reports interactive objects individually.
func objectSummary(sc *scene.SceneDefinition) []string {
	counts := make(map[string]int)
	order := []string{}
	var interactive []string

	for _, obj := range sc.Objects {
		if obj.Interactive && obj.InteractionData != nil {
			interactive = append(interactive,
				fmt.Sprintf("• %s (%s, state %q)", obj.Name, obj.InteractionData.Type, obj.InteractionData.CurrentState))
			continue
		}

		key := "model"
		if obj.Geometry != nil {
			key = string(obj.Geometry.Type)
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	lines := make([]string, 0, len(order)+len(interactive))
	for _, key := range order {
		lines = append(lines, fmt.Sprintf("• %s × %d", key, counts[key]))
	}
	lines = append(lines, interactive...)
	return lines
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Template:\n")
	if m.activeTemplate != "" {
		content.WriteString(displayName(m.activeTemplate) + "\n\n")
	} else {
		content.WriteString("None\n\n")
	}

	content.WriteString("Quality:\n")
	content.WriteString(m.quality + "\n\n")

	content.WriteString("Seed:\n")
	content.WriteString(fmt.Sprintf("%d\n\n", m.seed))

	if m.result != nil {
		content.WriteString("Scene ID:\n")
		content.WriteString(m.result.Scene.ID.String()[:8] + "...\n\n")
		content.WriteString("Objects:\n")
		content.WriteString(fmt.Sprintf("%d total\n\n", len(m.result.Scene.Objects)))
	}

	content.WriteString("Commands:\n")
	content.WriteString("• r: Reroll seed\n")
	content.WriteString("• Tab: Cycle quality\n")
	content.WriteString("• t: Templates\n")
	content.WriteString("• c: Copy JSON\n")
	content.WriteString("• Ctrl+C: Quit\n")

	if m.status != "" {
		content.WriteString("\n" + m.status + "\n")
	}

	return content.String()
}

func (m ConsoleUI) updateTemplateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewports()

	case templatesLoadedMsg:
		m.loadingTemplates = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.templates = msg.templates
		}

	case sceneGeneratedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.result = msg.result
			m.showTemplateModal = false
			m.layoutViewports()
			m.writeSceneContent()
			m.metaViewport.SetContent(m.writeMetadata())
			m.ready = true
		}
		return m, nil

	case tea.KeyMsg:
		if m.loadingTemplates || m.loading {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedTemplate > 0 {
				m.selectedTemplate--
			}
		case tea.KeyDown:
			if m.selectedTemplate < len(m.templates)-1 {
				m.selectedTemplate++
			}
		case tea.KeyEnter:
			if len(m.templates) > 0 {
				m.activeTemplate = m.templates[m.selectedTemplate]
				m.result = nil
				m.loading = true
				m.progressTick = 0
				return m, tea.Batch(m.generate(), progressTick())
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Cached scenes stay available through the API.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderTemplateModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingTemplates {
		content.WriteString(modalTitleStyle.Render("Loading Templates..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Fetching the template list..."))
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Generating Scene..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Composing " + displayName(m.activeTemplate) + "..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("%v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Template"))
		content.WriteString("\n\n")

		for i, tmpl := range m.templates {
			if i == m.selectedTemplate {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + displayName(tmpl)))
			} else {
				content.WriteString(modalItemStyle.Render("  " + displayName(tmpl)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to generate, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showTemplateModal {
		return m.renderTemplateModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	sceneWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - sceneWidth - 6

	scenePanel := scenePanelStyle.Width(sceneWidth).Height(m.height - 3).Render(
		m.sceneViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, metaPanel)
}

// renderProgressBar draws the animated generation progress bar.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.sceneViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
