package contracts

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingField is matched by every MissingFieldError
var ErrMissingField = errors.New("missing field")

// MissingFieldError reports a record without the requested value for an instrument.
// It points at a data source problem and must be surfaced, not replaced by zero.
type MissingFieldError struct {
	Date       time.Time
	Instrument string
	Field      Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s%s on %s", e.Field.Prefix(), e.Instrument, e.Date.Format("2006-01-02"))
}

// Is lets errors.Is(err, ErrMissingField) match
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
