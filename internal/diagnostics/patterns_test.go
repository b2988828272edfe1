package diagnostics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSweep(t *testing.T) {
	p := NewPattern(IndexSweep)
	rgb := make([]byte, 9)

	for i := 0; i < 3; i++ {
		require.True(t, p.Step(rgb))
		want := make([]byte, 9)
		want[i*3], want[i*3+1], want[i*3+2] = 255, 255, 255
		assert.Equal(t, want, rgb, "step %d", i)
	}
	assert.False(t, p.Step(rgb))
	assert.Equal(t, make([]byte, 9), rgb)
}

func TestRGBTest(t *testing.T) {
	p := NewPattern(RGBTest)
	rgb := make([]byte, 6)

	require.True(t, p.Step(rgb))
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0}, rgb)
	require.True(t, p.Step(rgb))
	assert.Equal(t, []byte{0, 255, 0, 0, 255, 0}, rgb)
	require.True(t, p.Step(rgb))
	assert.Equal(t, []byte{0, 0, 255, 0, 0, 255}, rgb)
	assert.False(t, p.Step(rgb))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("rgb_channels")
	require.NoError(t, err)
	assert.Equal(t, RGBTest, k)

	_, err = ParseKind("plane_z")
	assert.Error(t, err)
	assert.False(t, NewPattern(None).Step(make([]byte, 3)))
}

func TestDiagnosticJSON(t *testing.T) {
	b, err := json.Marshal(Diagnostic{Severity: Warn, Code: CodeCmdInvalidValue, Summary: "bad"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"warning","code":"CMD.INVALID_VALUE","summary":"bad"}`, string(b))
}
