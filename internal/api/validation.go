package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// FlattenedErrors is the {formErrors, fieldErrors} shape clients already parse.
type FlattenedErrors struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func newFlattenedErrors() *FlattenedErrors {
	return &FlattenedErrors{FormErrors: []string{}, FieldErrors: map[string][]string{}}
}

func (e *FlattenedErrors) addField(field, msg string) {
	e.FieldErrors[field] = append(e.FieldErrors[field], msg)
}

func (e *FlattenedErrors) empty() bool {
	return len(e.FormErrors) == 0 && len(e.FieldErrors) == 0
}

// maxBodyBytes caps request bodies; profile requests carry every answer.
const maxBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and runs its validate tags. An
// empty body is treated as {}. Explicit nulls are rejected except for
// json.RawMessage fields, which accept any JSON. It returns nil when the
// request is valid.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) *FlattenedErrors {
	errs := newFlattenedErrors()

	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				errs.FormErrors = append(errs.FormErrors, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			} else {
				errs.FormErrors = append(errs.FormErrors, "Unreadable request body")
			}
			return errs
		}
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 {
		if err := json.Unmarshal(body, dst); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				errs.addField(typeErr.Field, fmt.Sprintf("Expected %s, received %s", typeErr.Type.Kind(), typeErr.Value))
			} else {
				errs.FormErrors = append(errs.FormErrors, "Malformed JSON body")
			}
			return errs
		}
		if bytes.Equal(body, []byte("null")) {
			errs.FormErrors = append(errs.FormErrors, "Expected object, received null")
			return errs
		}
		checkNulls(body, dst, errs)
		if !errs.empty() {
			return errs
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.FormErrors = append(errs.FormErrors, err.Error())
			return errs
		}
		for _, fe := range verrs {
			errs.addField(fe.Field(), validationMessage(fe))
		}
	}
	if errs.empty() {
		return nil
	}
	return errs
}

var rawMessageType = reflect.TypeOf(json.RawMessage(nil))

// checkNulls flags top-level fields sent as null. encoding/json leaves them
// at their zero value, which would make null indistinguishable from absent.
func checkNulls(body []byte, dst any, errs *FlattenedErrors) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return
	}
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" || f.Type == rawMessageType {
			continue
		}
		if raw, ok := fields[name]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			errs.addField(name, fmt.Sprintf("Expected %s, received null", jsonKind(f.Type)))
		}
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "number"
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must contain at least %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}
