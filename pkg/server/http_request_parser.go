package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/iancoleman/strcase"
	"github.com/tidwall/gjson"

	"github.com/datashelf/datashelf/pkg/contract"
)

type HTTPRequestParser struct {
	validator *validator.Validate
}

func NewHTTPRequestParser() (*HTTPRequestParser, error) {
	validate, err := NewValidator()
	if err != nil {
		return nil, err
	}

	return &HTTPRequestParser{
		validator: validate,
	}, nil
}

// ParseBody decodes the JSON body into input and validates it. A type
// mismatch names the offending field and its value; every other decode
// failure is reported as a plain bad request.
func (p *HTTPRequestParser) ParseBody(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if err := ctx.BodyParser(input); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return contract.NewError(
				contract.ErrorCodeInvalidParameterValue,
				fmt.Sprintf(
					"Invalid value %s for parameter '%s'",
					rawFieldValue(ctx.Body(), typeErr.Field), typeErr.Field,
				),
			)
		}

		return contract.NewError(contract.ErrorCodeBadRequest, err.Error())
	}

	if err := p.validator.Struct(input); err != nil {
		return validationError(err)
	}

	return nil
}

// rawFieldValue pulls the offending value back out of the body, keeping
// the raw JSON form when the value is not a string.
func rawFieldValue(body []byte, field string) string {
	result := gjson.GetBytes(body, field)
	if result.Str != "" {
		return result.Str
	}

	return result.Raw
}

func validationError(err error) *contract.Error {
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return contract.NewError(contract.ErrorCodeInternalError, err.Error())
	}

	messages := make([]string, 0, len(violations))
	for _, violation := range violations {
		messages = append(messages, violationMessage(violation))
	}

	return contract.NewError(contract.ErrorCodeInvalidParameterValue, strings.Join(messages, ", "))
}

// violationMessage renders one field violation with the wire name of the
// field, not the Go one.
func violationMessage(violation validator.FieldError) string {
	field := strcase.ToSnake(violation.Field())

	if violation.Tag() == "required" {
		return fmt.Sprintf("Missing value for required parameter '%s'", field)
	}

	return fmt.Sprintf(
		"Invalid value %v for parameter '%s' supplied",
		derefValue(violation.Value()), field,
	)
}

// derefValue follows one pointer so messages show the value, not an
// address. A nil pointer renders as an empty value.
func derefValue(value interface{}) interface{} {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Ptr {
		return value
	}

	if v.IsNil() {
		return ""
	}

	return v.Elem().Interface()
}
