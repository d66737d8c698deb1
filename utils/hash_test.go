package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMix64IsOrderSensitive(t *testing.T) {
	a, b := U64("a"), U64("b")
	assert.NotEqual(t, Mix64(a, b), Mix64(b, a))
	assert.Equal(t, Mix64(a, b), Mix64(a, b))
}

func TestFingerprintStringMatchesU64(t *testing.T) {
	assert.Equal(t, U64("events"), FingerprintString("events"))
}
