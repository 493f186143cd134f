package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/freedom_case_2/callemail/internal/models"
)

var ErrValidation = errors.New("validation failed")

const (
	msgRequired  = "This field is required."
	msgWireDate  = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgWireTime  = "Time has wrong format. Use one of these formats instead: hh:mm[:ss]."
	msgNoPerson  = "Please fill in at least Given Name(s) field or Last Name field."
	msgUnknownID = "Invalid pk - object does not exist."
)

// ValidationError carries per-field messages; general problems are listed
// under non_field_errors.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func nonFieldError(msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{"non_field_errors": {msg}}}
}

// NewValidator returns a validator that knows the wiredate and wiretime
// tags, reads models.OptionalString as its string value and reports fields
// by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if o, ok := field.Interface().(models.OptionalString); ok {
			return o.String()
		}
		return nil
	}, models.OptionalString{})
	mustRegister(v, "wiredate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	mustRegister(v, "wiretime", func(fl validator.FieldLevel) bool {
		_, ok := normalizeWireTime(fl.Field().String())
		return ok
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// normalizeWireTime accepts HH:mm or HH:mm:ss and returns HH:mm:ss.
func normalizeWireTime(v string) (string, bool) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("15:04:05"), true
		}
	}
	return "", false
}

// draftFields are checked on every write.
type draftFields struct {
	OccurrenceDateFrom  models.OptionalString `json:"occurrence_date_from" validate:"omitempty,wiredate"`
	OccurrenceTimeStart models.OptionalString `json:"occurrence_time_start" validate:"omitempty,wiretime"`
	OccurrenceDateTo    models.OptionalString `json:"occurrence_date_to" validate:"omitempty,wiredate"`
	OccurrenceTimeEnd   models.OptionalString `json:"occurrence_time_end" validate:"omitempty,wiretime"`
	DateOfCall          models.OptionalString `json:"date_of_call" validate:"omitempty,wiredate"`
	TimeOfCall          models.OptionalString `json:"time_of_call" validate:"omitempty,wiretime"`
}

// submitFields are additionally required when a record is submitted.
type submitFields struct {
	Classification     *int64                `json:"classification" validate:"required"`
	ReportType         *int64                `json:"report_type" validate:"required"`
	OccurrenceDateFrom models.OptionalString `json:"occurrence_date_from" validate:"required"`
}

func (s *CallEmailService) validate(rec models.CallEmail, submit bool) error {
	verr := &ValidationError{}
	s.collect(verr, draftFields{
		OccurrenceDateFrom:  rec.OccurrenceDateFrom,
		OccurrenceTimeStart: rec.OccurrenceTimeStart,
		OccurrenceDateTo:    rec.OccurrenceDateTo,
		OccurrenceTimeEnd:   rec.OccurrenceTimeEnd,
		DateOfCall:          rec.DateOfCall,
		TimeOfCall:          rec.TimeOfCall,
	})
	if submit {
		f := submitFields{OccurrenceDateFrom: rec.OccurrenceDateFrom}
		if rec.Classification != nil {
			f.Classification = rec.Classification.ID
		}
		if rec.ReportType != nil {
			f.ReportType = rec.ReportType.ID
		}
		s.collect(verr, f)
	}

	if rec.Classification != nil && rec.Classification.ID != nil {
		if _, ok := s.Refs.Classification(*rec.Classification.ID); !ok {
			verr.add("classification", msgUnknownID)
		}
	}
	if rec.ReportType != nil && rec.ReportType.ID != nil {
		if _, ok := s.Refs.ReportType(*rec.ReportType.ID); !ok {
			verr.add("report_type", msgUnknownID)
		}
	}
	if rec.CallType != nil && rec.CallType.ID != nil {
		if _, ok := s.Refs.CallType(*rec.CallType.ID); !ok {
			verr.add("call_type", msgUnknownID)
		}
	}
	return verr.orNil()
}

func (s *CallEmailService) collect(verr *ValidationError, v any) {
	err := s.validator().Struct(v)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("non_field_errors", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			verr.add(fe.Field(), msgRequired)
		case "wiredate":
			verr.add(fe.Field(), msgWireDate)
		case "wiretime":
			verr.add(fe.Field(), msgWireTime)
		default:
			verr.add(fe.Field(), fe.Error())
		}
	}
}
