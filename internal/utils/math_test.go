package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUSDTToDisplay(t *testing.T) {
	assert.Equal(t, 0.0, USDTToDisplay(0))
	assert.Equal(t, 2.5, USDTToDisplay(2_500_000))
	assert.Equal(t, 0.000001, USDTToDisplay(1))
	assert.Equal(t, 1.0, USDTToDisplay(1_000_000))
	assert.Equal(t, 1234.567891, USDTToDisplay(1_234_567_891))
}
