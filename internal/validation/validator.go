package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

const minPasswordLength = 6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "simpleemail", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	mustRegister(v, "gender", func(fl validator.FieldLevel) bool {
		return IsGender(fl.Field().String())
	})
	mustRegister(v, "country", func(fl validator.FieldLevel) bool {
		return IsCountry(fl.Field().String())
	})
	mustRegister(v, "interest", func(fl validator.FieldLevel) bool {
		return IsInterest(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsStrongPassword reports whether s has at least six characters, one ASCII
// letter and one digit.
func IsStrongPassword(s string) bool {
	if utf8.RuneCountInString(s) < minPasswordLength {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return letter && digit
}

func ValidateRegistration(f Registration) error {
	return check(f, registrationMessages)
}

func ValidateLogin(f Login) error {
	return check(f, loginMessages)
}

func ValidateVerification(f Verification) error {
	return check(f, verificationMessages)
}

func ValidateUserLookup(f UserLookup) error {
	return check(f, lookupMessages)
}

// check runs the struct validator and turns its output into *Error, one
// entry per field.
func check(form any, msgs messages) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &Error{}
	seen := make(map[string]struct{}, len(ve))
	for _, fe := range ve {
		field := baseField(fe.Field())
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		out.Fields = append(out.Fields, FieldError{
			Field:   field,
			Message: msgs.lookup(field, fe.Tag()),
		})
	}
	return out
}
