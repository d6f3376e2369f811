package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errThing = New(NotFound, "Thing not found")

func TestWrapKeepsSentinelAndCause(t *testing.T) {
	cause := errors.New("sql: no rows")
	err := fmt.Errorf("load thing: %w", errThing.Wrap(cause))

	assert.ErrorIs(t, err, errThing)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, NotFound, KindOf(err))
	assert.Equal(t, "Thing not found", MessageOf(err))
	assert.Contains(t, err.Error(), "sql: no rows")
}

func TestWrappedErrorAs(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("list things: %w", errThing.Wrap(cause))

	var target *Error
	assert.True(t, errors.As(err, &target))
	assert.Same(t, errThing, target)
	assert.Equal(t, "Thing not found: connection reset", errThing.Wrap(cause).Error())
	assert.Nil(t, errThing.Err, "wrapping leaves the sentinel untouched")
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, Internal, KindOf(err))
	assert.Equal(t, "Internal server error", MessageOf(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Kind]int{
		Validation:     http.StatusUnprocessableEntity,
		Authentication: http.StatusUnauthorized,
		Authorization:  http.StatusForbidden,
		Conflict:       http.StatusConflict,
		NotFound:       http.StatusNotFound,
		Aggregation:    http.StatusInternalServerError,
		Internal:       http.StatusInternalServerError,
	}
	for kind, status := range tests {
		assert.Equal(t, status, HTTPStatus(kind), kind.String())
	}
}
