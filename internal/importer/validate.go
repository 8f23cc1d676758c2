package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// ParseInstant accepts RFC3339 or a bare YYYY-MM-DD date (UTC midnight).
func ParseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected RFC3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their file names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("instant", func(fl validator.FieldLevel) bool {
		_, err := ParseInstant(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidateImportSchema checks the schema before conversion and returns every
// problem found. Field-level checks run first; cross-record checks (unique
// ids, spans, point placement) follow.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if err := validate.Struct(schema); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return []error{err}
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
	}

	seen := ids{rows: map[string]bool{}, timelines: map[string]bool{}, points: map[string]bool{}}
	errs = append(errs, validateRows("rows", schema.Rows, seen)...)
	return errs
}

func fieldError(fe validator.FieldError) error {
	// Drop the root type name from the namespace.
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "instant":
		return fmt.Errorf("%s: invalid date %q (expected RFC3339 or YYYY-MM-DD)", path, fe.Value())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", path, fe.Param())
	default:
		return fmt.Errorf("%s: failed %q check", path, fe.Tag())
	}
}

type ids struct {
	rows, timelines, points map[string]bool
}

func validateRows(prefix string, rows []RowImport, seen ids) []error {
	var errs []error
	for i, r := range rows {
		at := fmt.Sprintf("%s[%d]", prefix, i)
		if r.ID != "" {
			if seen.rows[r.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate row id %q", at, r.ID))
			}
			seen.rows[r.ID] = true
		}
		for j, tl := range r.TimeLines {
			errs = append(errs, validateTimeLine(fmt.Sprintf("%s.timelines[%d]", at, j), tl, seen)...)
		}
		errs = append(errs, validateRows(at+".children", r.Children, seen)...)
	}
	return errs
}

func validateTimeLine(at string, tl TimeLineImport, seen ids) []error {
	var errs []error
	if tl.ID != "" {
		if seen.timelines[tl.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate timeline id %q", at, tl.ID))
		}
		seen.timelines[tl.ID] = true
	}

	start, startErr := ParseInstant(tl.Start)
	end, endErr := ParseInstant(tl.End)
	spanOK := startErr == nil && endErr == nil
	if spanOK && end.Before(start) {
		errs = append(errs, fmt.Errorf("%s: end %s is before start %s", at, tl.End, tl.Start))
		spanOK = false
	}

	for k, p := range tl.Points {
		pat := fmt.Sprintf("%s.points[%d]", at, k)
		if p.ID != "" {
			if seen.points[p.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate point id %q", pat, p.ID))
			}
			seen.points[p.ID] = true
		}
		when, err := ParseInstant(p.At)
		if err != nil || !spanOK {
			continue
		}
		if when.Before(start) || when.After(end) {
			errs = append(errs, fmt.Errorf("%s: %s is outside its timeline %s..%s", pat, p.At, tl.Start, tl.End))
		}
	}
	return errs
}
