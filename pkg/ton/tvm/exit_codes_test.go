package tvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.True(t, ExitCodeSuccess.IsSuccess())
	assert.True(t, ExitCodeSuccessVariant.IsSuccess())
	assert.False(t, ExitCodeUnknownError.IsSuccess())

	assert.Equal(t, "Jetton wallet: not enough jettons", ExitCodeJettonNotEnoughJettons.Describe())
	assert.Equal(t, "Out of gas error", ExitCodeOutOfGasErrorVariant.Describe())
	assert.Equal(t, "Non-standard exit code: 4242", ExitCode(4242).Describe())
}
