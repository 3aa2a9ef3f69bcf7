package scene

import "fmt"

// StructuralError marks a defect in authored content that is detectable
// statically: an unknown enum tag, an inheritance cycle, a transition that
// references an undefined state. These fail at load or construction time,
// never at playback time.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string {
	return "structural error: " + e.Msg
}

// Structuralf builds a StructuralError from a format string.
func Structuralf(format string, args ...any) *StructuralError {
	return &StructuralError{Msg: fmt.Sprintf(format, args...)}
}
