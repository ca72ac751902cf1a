package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var initOnce sync.Once

// Init configures gin's validator: errors are keyed by json (or form) name
// and the aliases below become available in binding tags.
//
//	pwd        8..72 characters and at most 72 bytes; bcrypt rejects longer input
//	personname non-blank, at most 100 characters
//	teacherno  non-blank printable ASCII, at most 32 characters
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return fl.Field().Kind() != reflect.String || strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			return err == nil && len(fl.Field().String()) <= n
		})
		v.RegisterAlias("pwd", "min=8,max=72,maxbytes=72")
		v.RegisterAlias("personname", "notblank,max=100")
		v.RegisterAlias("teacherno", "notblank,max=32,printascii")
	})
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return f.Name
}

// ToDetails maps a binding error to field -> message for the error body.
// Decoding failures collapse to a single "payload" entry.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = message(fe)
		}
		return out
	}

	var (
		syntax *json.SyntaxError
		typ    *json.UnmarshalTypeError
	)
	if errors.As(err, &syntax) || errors.As(err, &typ) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return map[string]string{"payload": "invalid json"}
	}
	return map[string]string{"payload": "invalid payload"}
}

var messages = map[string]string{
	"required":   "is required",
	"notblank":   "must not be blank",
	"email":      "must be a valid email address",
	"gt":         "must be greater than %s",
	"printascii": "must contain printable ASCII characters only",
	"maxbytes":   "must be at most %s bytes",
	"oneof":      "must be one of: %s",
}

func message(fe validator.FieldError) string {
	tag, param := fe.ActualTag(), fe.Param()
	switch tag {
	case "min", "max":
		bound := map[string]string{"min": "at least", "max": "at most"}[tag]
		if fe.Kind() == reflect.String {
			return "must be " + bound + " " + param + " characters"
		}
		return "must be " + bound + " " + param
	case "oneof":
		param = strings.Join(strings.Fields(param), ", ")
	}
	if m, ok := messages[tag]; ok {
		return strings.Replace(m, "%s", param, 1)
	}
	return "is invalid (" + tag + ")"
}
