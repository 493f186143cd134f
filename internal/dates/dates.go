// Package dates converts record dates and times between the form the operator
// types (display) and the form the intake API stores (wire).
package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/freedom_case_2/callemail/internal/models"
)

const (
	DisplayDate = "02/01/2006"
	DisplayTime = "03:04 PM"
	WireDate    = "2006-01-02"
	WireTime    = "15:04"
)

var (
	displayDateInputs = []string{"2/1/2006"}
	displayTimeInputs = []string{"3:04 PM", "3:04PM", "15:04"}
	wireDateInputs    = []string{WireDate, time.RFC3339}
	wireTimeInputs    = []string{"15:04:05", WireTime, "15:04:05.999999"}
)

func DateToDisplay(v string) (string, error) {
	return reformat(v, wireDateInputs, DisplayDate)
}

func DateToWire(v string) (string, error) {
	return reformat(v, displayDateInputs, WireDate)
}

func TimeToDisplay(v string) (string, error) {
	return reformat(v, wireTimeInputs, DisplayTime)
}

func TimeToWire(v string) (string, error) {
	return reformat(strings.ToUpper(v), displayTimeInputs, WireTime)
}

func reformat(v string, layouts []string, out string) (string, error) {
	v = strings.TrimSpace(v)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(out), nil
		}
	}
	return "", fmt.Errorf("invalid date/time %q", v)
}

// ConvertFunc reformats a single non-empty value.
type ConvertFunc func(string) (string, error)

// Convert applies fn to a present, non-empty value. A present empty string
// becomes null; null and absent values are left as they are. On error the
// value is not modified.
func Convert(o *models.OptionalString, fn ConvertFunc) error {
	if !o.Valid {
		return nil
	}
	if o.Value == "" {
		*o = models.Null()
		return nil
	}
	v, err := fn(o.Value)
	if err != nil {
		return err
	}
	o.Value = v
	return nil
}

// FieldError names the record field whose value failed to convert.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ToDisplay rewrites the six date/time fields of rec from wire to display
// format. Every field is attempted; the first failure is returned.
func ToDisplay(rec *models.CallEmail) error {
	return convertFields(rec, DateToDisplay, TimeToDisplay)
}

// ToWire rewrites the six date/time fields of rec from display to wire format.
func ToWire(rec *models.CallEmail) error {
	return convertFields(rec, DateToWire, TimeToWire)
}

func convertFields(rec *models.CallEmail, date, clock ConvertFunc) error {
	var first error
	for _, f := range rec.DateTimeFields() {
		fn := date
		if f.Kind == models.KindTime {
			fn = clock
		}
		if err := Convert(f.Value, fn); err != nil && first == nil {
			first = &FieldError{Field: f.Name, Err: err}
		}
	}
	return first
}
