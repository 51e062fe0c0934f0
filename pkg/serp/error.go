package serp

import (
	"fmt"

	"github.com/pkg/errors"
)

type Field string

const (
	FieldTitle Field = "title"
	FieldLink  Field = "link"
)

// ExtractionError reports the first result index whose title or link could
// not be read. It always aborts the whole extraction.
type ExtractionError struct {
	Index int
	Field Field
}

func (e *ExtractionError) Error() string {
	switch e.Field {
	case FieldTitle:
		return fmt.Sprintf("missing title text at index %d", e.Index)
	case FieldLink:
		return fmt.Sprintf("missing link at index %d", e.Index)
	default:
		return fmt.Sprintf("missing %s at index %d", e.Field, e.Index)
	}
}

func IsExtractionError(err error) bool {
	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}

var _ error = &ExtractionError{}
