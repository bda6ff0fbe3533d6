package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const passwordSpecials = "@$!%*#?&"

var registerOnce sync.Once

// RegisterGin installs the custom rules on gin's binding validator and makes
// field errors report json names. Safe to call more than once.
func RegisterGin() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			register(v)
		}
	})
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("password", validatePassword)
	_ = v.RegisterValidation("gender", validateGender)
	_ = v.RegisterValidation("mbti", validateMBTI)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" {
			return fld.Name
		}
	}
	return name
}

// validatePassword accepts 8 to 20 characters drawn from letters, digits and
// @$!%*#?&, with at least one of each class.
func validatePassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 || len(s) > 20 {
		return false
	}
	var letter, digit, special bool
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return letter && digit && special
}

func validateGender(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "MALE", "FEMALE":
		return true
	default:
		return false
	}
}

func validateMBTI(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	if len(s) != 4 {
		return false
	}
	pairs := [4]string{"EI", "SN", "TF", "JP"}
	for i, r := range strings.ToUpper(s) {
		if !strings.ContainsRune(pairs[i], r) {
			return false
		}
	}
	return true
}

// Details maps each failed field to a short message.
func Details(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "gte", "lte":
		return "is out of range"
	case "password":
		return "must be 8-20 characters with a letter, a digit and one of " + passwordSpecials
	case "gender":
		return "must be MALE or FEMALE"
	case "mbti":
		return "must be a valid MBTI type"
	default:
		return "is invalid"
	}
}
