package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModulate(t *testing.T) {
	out, err := execute(t, NewModulateCommand(textOpts()), "0", "1", "--", "-256")
	require.NoError(t, err)
	assert.Equal(t, "010\n01100001\n101110000100000000\n", out)
}

func TestModulate_NotAnInteger(t *testing.T) {
	out, err := execute(t, NewModulateCommand(textOpts()), "12x")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E101]")
}

func TestDemodulate(t *testing.T) {
	out, err := execute(t, NewDemodulateCommand(textOpts()), "010", "0111000010000", "10100001")
	require.NoError(t, err)
	assert.Equal(t, "0\n16\n-1\n", out)
}

func TestDemodulate_JSON(t *testing.T) {
	out, err := execute(t, NewDemodulateCommand(jsonOpts()), "011110000100000000")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   []CodecEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []CodecEntry{{Value: 256, Bits: "011110000100000000"}}, resp.Data)
}

func TestDemodulate_Malformed(t *testing.T) {
	for _, bits := range []string{"01", "00100001", "0100"} {
		t.Run(bits, func(t *testing.T) {
			out, err := execute(t, NewDemodulateCommand(textOpts()), bits)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "Error [MALFORMED_ENCODING]")
		})
	}
}

func TestModulateDemodulate_RoundTrip(t *testing.T) {
	values := []string{"0", "7", "300", "123456789"}
	bits, err := execute(t, NewModulateCommand(textOpts()), values...)
	require.NoError(t, err)

	args := strings.Fields(bits)
	out, err := execute(t, NewDemodulateCommand(textOpts()), args...)
	require.NoError(t, err)
	assert.Equal(t, values, strings.Fields(out))
}
