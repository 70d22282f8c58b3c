package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/naufalhakim/product-management-api/internal/errors"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	WriteJson(w, statusCode, data)
}

func Error(w http.ResponseWriter, err error) {

	if appErr, ok := errors.IsAppError(err); ok {

		detail := appErr.Message
		if appErr.Detail != "" {
			detail = fmt.Sprintf("%s: %s", appErr.Message, appErr.Detail)
		}

		WriteJson(w, appErr.StatusCode, ErrorResponse{Detail: detail})

		return
	}

	WriteJson(w, http.StatusInternalServerError, ErrorResponse{Detail: "An unexpected error occurred"})
}

// ValidationError flattens field errors into a single detail message.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {

	var errMsgs []string

	for _, err := range errs {

		var message string

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field %s is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field %s must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("Field %s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field %s must be at most %s characters", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("Field %s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("Field %s must be at least %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("Field %s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("Field %s must be one of: %s", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field %s is invalid: %s=%s", err.Field(), err.Tag(), err.Param())
		}

		errMsgs = append(errMsgs, message)

	}

	WriteJson(w, http.StatusBadRequest, ErrorResponse{Detail: strings.Join(errMsgs, "; ")})
}
