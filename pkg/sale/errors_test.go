package sale

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrorSurvivesWrapping(t *testing.T) {
	err := errors.Wrap(NewValidationError("productId", "unknown product gas13"), "add item")

	assert.True(t, IsValidation(err))
	assert.Equal(t, "productId", ValidationField(err))
	assert.Contains(t, err.Error(), "unknown product gas13")

	plain := errors.New("disk full")
	assert.False(t, IsValidation(plain))
	assert.Empty(t, ValidationField(plain))
}
