package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCodeName(t *testing.T) {
	valid, _ := ValidateCodeName("VIP")
	assert.True(t, valid)

	valid, msg := ValidateCodeName("   ")
	assert.False(t, valid)
	assert.Equal(t, "Name is required", msg)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	valid, _ = ValidateCodeName(string(long))
	assert.False(t, valid)
}

func TestValidateHexColor(t *testing.T) {
	valid, _ := ValidateHexColor("2196F3")
	assert.True(t, valid)

	valid, _ = ValidateHexColor("#2196F3")
	assert.False(t, valid)

	valid, _ = ValidateHexColor("xyz")
	assert.False(t, valid)
}
