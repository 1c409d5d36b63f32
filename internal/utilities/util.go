// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shivpratapmithapalli/jobassist/internal/apperror"
	"github.com/shivpratapmithapalli/jobassist/internal/model"
)

// ErrorResponse is the JSON error body: a short label, a client-safe detail
// message and a unix-millisecond timestamp.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// NewErrorResponse stamps an ErrorResponse with the current time.
func NewErrorResponse(label, message string) ErrorResponse {
	return ErrorResponse{
		Error:     label,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
}

// RenderError writes err as an ErrorResponse, mapping the DomainError kind to
// an HTTP status. Client-caused kinds get 400, missing resources 404;
// everything else is a 500 with a generic message so internals never leak.
func RenderError(c *gin.Context, label string, err error) {
	var de *apperror.DomainError
	if errors.As(err, &de) {
		switch de.Kind {
		case apperror.KindValidation, apperror.KindConflict,
			apperror.KindAuthentication:
			c.JSON(http.StatusBadRequest, NewErrorResponse(label, de.Message))
			return
		case apperror.KindNotFound:
			c.JSON(http.StatusNotFound, NewErrorResponse(label, de.Message))
			return
		case apperror.KindConfiguration:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(label, de.Message))
			return
		}
	}
	c.JSON(http.StatusInternalServerError, NewErrorResponse(label, "Please try again later"))
}

// ExtractUser extracts the user model from Gin context.
// It no longer aborts the request; instead returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// MergeNonEmpty help merge struct with non-empty field
func MergeNonEmpty(dst, src interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()

	for i := 0; i < sv.NumField(); i++ {
		sf := sv.Field(i)
		if !sf.IsZero() {
			df := dv.FieldByName(sv.Type().Field(i).Name)
			if df.IsValid() && df.CanSet() {
				df.Set(sf)
			}
		}
	}
}
