package contact

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitecms/internal/locale"
)

// Form is a visitor contact message.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Code identifies a field failure.
type Code string

const (
	RequiredField Code = "RequiredField"
	InvalidEmail  Code = "InvalidEmail"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is one failed field rule.
type FieldError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message,omitempty"`
}

// ValidationErrors lists failed fields in form order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+string(fe.Code))
	}
	return "contact: invalid form (" + strings.Join(parts, ", ") + ")"
}

// Field returns the failure for field, if any.
func (v ValidationErrors) Field(field string) (FieldError, bool) {
	for _, fe := range v {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

// Localize fills Message from the locale catalog.
func (v ValidationErrors) Localize(loc locale.Locale) ValidationErrors {
	out := make(ValidationErrors, len(v))
	for i, fe := range v {
		fe.Message = locale.Message(loc, messageKey(fe.Code))
		out[i] = fe
	}
	return out
}

// Map returns field → message, the shape page forms render.
func (v ValidationErrors) Map() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		out[fe.Field] = fe.Message
	}
	return out
}

func messageKey(code Code) string {
	if code == InvalidEmail {
		return locale.MsgInvalidEmail
	}
	return locale.MsgRequiredField
}

var (
	requiredRule = validation.By(func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError(string(RequiredField), "is required")
		}
		return nil
	})
	emailRule = validation.By(func(value any) error {
		s, _ := value.(string)
		if s = strings.TrimSpace(s); s != "" && !emailShape.MatchString(s) {
			return validation.NewError(string(InvalidEmail), "must be a valid email address")
		}
		return nil
	})
)

var fieldOrder = []string{"name", "email", "phone", "subject", "message"}

// Validate checks every field independently. Phone is optional. A nil result
// means the form may be submitted.
func Validate(form Form) ValidationErrors {
	err := validation.ValidateStruct(&form,
		validation.Field(&form.Name, requiredRule),
		validation.Field(&form.Email, requiredRule, emailRule),
		validation.Field(&form.Subject, requiredRule),
		validation.Field(&form.Message, requiredRule),
	)
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: "form", Code: RequiredField}}
	}
	var out ValidationErrors
	for _, field := range fieldOrder {
		fieldErr, ok := verrs[field]
		if !ok {
			continue
		}
		code := RequiredField
		var coded validation.Error
		if errors.As(fieldErr, &coded) && coded.Code() == string(InvalidEmail) {
			code = InvalidEmail
		}
		out = append(out, FieldError{Field: field, Code: code})
	}
	return out
}
