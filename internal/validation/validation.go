// Package validation is the schema boundary between untyped wizard payloads
// and typed form data. Persisted form JSON is dynamic by nature, so every
// template-sensitive operation re-validates here instead of trusting
// historically stored data.
//
// Each page type has a full-record schema plus per-step schemas. Validation
// produces FieldErrors keyed by the JSON field name, carrying the
// user-facing (Japanese) message for that field.
package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/width"
)

// Shared field constraints, matching the wizard UI limits.
const (
	MaxTextLength     = 500
	MaxLongTextLength = 2000
)

// FieldErrors maps a JSON field name to a user-facing validation message.
// An empty map means the payload passed validation.
type FieldErrors map[string]string

// Option is a selectable value with its display label, used both for enum
// validation and for label lookup during HTML generation.
type Option struct {
	Value string
	Label string
}

var (
	// Japanese postal code: 123-4567 or 1234567.
	postalCodeRE = regexp.MustCompile(`^\d{3}-?\d{4}$`)
	// Japanese phone number, hyphenated or not: 03-1234-5678, 0312345678, ...
	phoneRE = regexp.MustCompile(`^0\d{1,4}-?\d{1,4}-?\d{3,4}$`)
	// Loose phone charset for international-friendly inputs.
	phoneCharsRE = regexp.MustCompile(`^[\d\-+()\s]+$`)
)

// validate is the shared validator instance. Field names in errors are taken
// from the json tag so FieldErrors line up with the wire payload.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "jppostal", postalCodeRE)
	mustRegister(v, "jpphone", phoneRE)
	mustRegister(v, "phonechars", phoneCharsRE)
	return v
}()

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// ErrMalformedJSON signals that a payload could not be parsed at all. During
// template updates this is a recoverable, record-specific condition (the
// merchant re-edits via the wizard), never a process failure.
var ErrMalformedJSON = errors.New("malformed form data JSON")

// decode parses raw JSON into dst, reporting ErrMalformedJSON on parse
// failure. Unknown fields are tolerated: older payloads may carry fields a
// newer schema no longer knows.
func decode(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return ErrMalformedJSON
	}
	return nil
}

// collect converts a validator error into FieldErrors using msgs, which maps
// "<field>.<tag>" (specific) or "<field>" (fallback) to a message.
func collect(err error, msgs map[string]string) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": "入力内容を確認してください"}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		name := fe.Field()
		if m, ok := msgs[name+"."+fe.Tag()]; ok {
			out[name] = m
			continue
		}
		if m, ok := msgs[name]; ok {
			out[name] = m
			continue
		}
		out[name] = "入力内容を確認してください"
	}
	return out
}

// LabelFor looks up the label for value in options, falling back to the raw
// value when not found.
func LabelFor(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// NormalizePostalCode folds full-width digits to ASCII and inserts the hyphen
// (123-4567). Inputs that do not look like a 7-digit postal code are returned
// as entered.
func NormalizePostalCode(code string) string {
	folded := width.Fold.String(strings.TrimSpace(code))
	digits := strings.ReplaceAll(folded, "-", "")
	if len(digits) == 7 && postalCodeRE.MatchString(digits) {
		return digits[:3] + "-" + digits[3:]
	}
	return code
}

// NormalizePhone folds full-width digits and trims surrounding whitespace;
// hyphenated and non-hyphenated forms are both accepted as-is.
func NormalizePhone(phone string) string {
	return width.Fold.String(strings.TrimSpace(phone))
}
