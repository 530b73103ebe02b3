package repository

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"artisanmart/pkg/errors"
)

func TestMissingDoc(t *testing.T) {
	assert.True(t, missingDoc(status.Error(codes.NotFound, "no such document")))
	assert.False(t, missingDoc(status.Error(codes.Unavailable, "connection reset")))
	assert.False(t, missingDoc(status.Error(codes.DeadlineExceeded, "timeout")))
	assert.False(t, missingDoc(nil))
}

func TestWrapGetError(t *testing.T) {
	var appErr *errors.AppError

	err := wrapGetError(status.Error(codes.NotFound, "gone"), "Order")
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)

	err = wrapGetError(status.Error(codes.Unavailable, "flaky"), "Order")
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}
