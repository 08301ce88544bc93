package fill

import "fmt"

// TemplateError reports a template-authoring defect: a structure the engine
// needs that the template does not provide. These should surface during
// development, not be recovered at request time.
type TemplateError struct {
	Message string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template error: %s", e.Message)
}

// NewTemplateError creates a template error.
func NewTemplateError(format string, args ...interface{}) error {
	return &TemplateError{Message: fmt.Sprintf(format, args...)}
}

// RecordCountError reports an input list whose length violates a structural
// requirement. Counts are never silently truncated or padded.
type RecordCountError struct {
	What string
	Want string
	Got  int
}

func (e *RecordCountError) Error() string {
	return fmt.Sprintf("invalid record count for %s: want %s, got %d", e.What, e.Want, e.Got)
}

// NewRecordCountError creates a record count error.
func NewRecordCountError(what, want string, got int) error {
	return &RecordCountError{What: what, Want: want, Got: got}
}
