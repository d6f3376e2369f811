package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail represents the structure of a single validation error.
type ValidationErrorDetail struct {
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Expected string      `json:"expected"`
	Received interface{} `json:"received"`
}

type ValidationErrorData struct {
	Errors        []ValidationErrorDetail `json:"errors"`
	Documentation string                  `json:"documentation"`
}

const DocumentationLink = "/swagger/index.html"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

// jsonTagName makes field errors report the name clients actually send.
func jsonTagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// BindAndValidate binds the JSON body into obj. On failure it writes a 422
// with per-field details and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	RespondValidation(c, describeBindError(err))
	return false
}

// BindQuery is BindAndValidate for query strings.
func BindQuery(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindQuery(obj)
	if err == nil {
		return true
	}

	RespondValidation(c, describeBindError(err))
	return false
}

func RespondValidation(c *gin.Context, details []ValidationErrorDetail) {
	c.JSON(http.StatusUnprocessableEntity, Response{
		Status:  http.StatusUnprocessableEntity,
		Message: "Invalid request parameters",
		Data: ValidationErrorData{
			Errors:        details,
			Documentation: DocumentationLink,
		},
	})
}

func describeBindError(err error) []ValidationErrorDetail {
	var details []ValidationErrorDetail

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		for _, e := range verrs {
			details = append(details, describeFieldError(e))
		}
	case errors.As(err, &typeErr):
		details = append(details, ValidationErrorDetail{
			Field:    typeErr.Field,
			Message:  fmt.Sprintf("Field '%s' has invalid type", typeErr.Field),
			Expected: typeErr.Type.String(),
			Received: typeErr.Value,
		})
	default:
		details = append(details, ValidationErrorDetail{
			Field:    "body",
			Message:  "Malformed JSON or invalid request body",
			Expected: "valid JSON",
			Received: "invalid",
		})
	}
	return details
}

func describeFieldError(e validator.FieldError) ValidationErrorDetail {
	field := e.Field()
	detail := ValidationErrorDetail{
		Field:    field,
		Message:  fmt.Sprintf("Field '%s' failed on the '%s' rule", field, e.Tag()),
		Expected: e.Param(),
		Received: e.Value(),
	}
	if detail.Expected == "" {
		detail.Expected = e.Tag()
	}

	switch e.Tag() {
	case "required":
		detail.Message = fmt.Sprintf("Field '%s' is required", field)
		detail.Expected = "not empty"
	case "email":
		detail.Message = fmt.Sprintf("Field '%s' must be a valid email address", field)
		detail.Expected = "email format"
	case "min":
		detail.Message = fmt.Sprintf("Field '%s' must be at least %s", field, e.Param())
		detail.Expected = "min " + e.Param()
	case "max":
		detail.Message = fmt.Sprintf("Field '%s' must be at most %s", field, e.Param())
		detail.Expected = "max " + e.Param()
	case "oneof":
		detail.Message = fmt.Sprintf("Field '%s' must be one of [%s]", field, e.Param())
	case "eq":
		detail.Message = fmt.Sprintf("Field '%s' must be %s", field, e.Param())
	}
	return detail
}
