package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrValidation, "type is required")

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, "type is required", err.Error())
}

func TestDataAccessKeepsCause(t *testing.T) {
	cause := fmt.Errorf("stream tickets: %w", sql.ErrConnDone)
	err := DataAccess(cause, "")

	assert.ErrorIs(t, err, ErrDataAccess)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, ErrDataAccess.Status, FromError(err).Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Nil(t, FromError(nil))
}
