package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemainingQuotaClampsAtZero(t *testing.T) {
	assert.Equal(t, 9, remainingQuota(10, 1))
	assert.Equal(t, 0, remainingQuota(10, 10))
	assert.Equal(t, 0, remainingQuota(10, 11))
	assert.Equal(t, 0, remainingQuota(10, 250))
}
