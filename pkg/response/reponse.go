package response

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "artisanmart/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func Paginated(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}

	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Timestamp: now(),
		Data: PaginatedResponse{
			Items:      items,
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	})
}

func Fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Response{
		Success:   false,
		Error:     message,
		Code:      code,
		Timestamp: now(),
	})
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return handleValidationError(c, validationErr)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return Fail(c, appErr.Status, appErr.Code, appErr.Message)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code == http.StatusNotFound {
			notFound := apperrors.EndpointNotFound()
			return Fail(c, notFound.Status, notFound.Code, notFound.Message)
		}
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return Fail(c, httpErr.Code, codeForStatus(httpErr.Code), message)
	}

	return Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		return "INTERNAL_ERROR"
	}
}

func handleValidationError(c echo.Context, validationErr validator.ValidationErrors) error {
	if len(validationErr) == 0 {
		return Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input data")
	}

	err := validationErr[0]
	field := strings.ToLower(err.Field())
	param := err.Param()

	var message string
	switch err.Tag() {
	case "required":
		message = field + " is required"
	case "min":
		message = field + " must be at least " + param
	case "max":
		message = field + " must be at most " + param
	case "gt":
		message = field + " must be greater than " + param
	case "gte":
		message = field + " must be at least " + param
	case "oneof":
		message = field + " must be one of: " + param
	case "email":
		message = field + " must be a valid email address"
	case "url":
		message = field + " must be a valid URL"
	default:
		message = field + " is invalid"
	}

	return Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}
