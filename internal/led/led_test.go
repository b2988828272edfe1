package led

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("grb")
	require.NoError(t, err)
	assert.Equal(t, "GRB", o.String())

	o, err = ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, RGB, o)

	for _, bad := range []string{"RRB", "RGBW", "XYZ"} {
		_, err := ParseOrder(bad)
		assert.Error(t, err, bad)
	}
}

func TestOrderRemap(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6}
	dst := make([]byte, 6)

	Order{'G', 'R', 'B'}.Remap(dst, src)
	assert.Equal(t, []byte{2, 1, 3, 5, 4, 6}, dst)

	Order{'B', 'R', 'G'}.Remap(dst, src)
	assert.Equal(t, []byte{3, 1, 2, 6, 4, 5}, dst)

	RGB.Remap(dst, src)
	assert.Equal(t, src, dst)
}

func TestSPIEncodesFrame(t *testing.T) {
	buf := bytes.Buffer{}
	s, err := NewSPI(spitest.NewRecordRaw(&buf), 2, RGB, 0)
	require.NoError(t, err)
	assert.Equal(t, "nrzled{recordraw}", s.String())

	require.NoError(t, s.Write([]byte{255, 0, 0, 0, 0, 255}))
	assert.NotZero(t, buf.Len())

	assert.Error(t, s.Write([]byte{1, 2, 3}), "short frame")
	require.NoError(t, s.Close())
	assert.Error(t, s.Write(make([]byte, 6)), "closed")
	assert.NoError(t, s.Close())
}

func TestSPIAppliesOrder(t *testing.T) {
	encode := func(order Order, frame []byte) []byte {
		buf := bytes.Buffer{}
		s, err := NewSPI(spitest.NewRecordRaw(&buf), 1, order, 0)
		require.NoError(t, err)
		buf.Reset()
		require.NoError(t, s.Write(frame))
		return buf.Bytes()
	}

	assert.Equal(t,
		encode(RGB, []byte{0, 200, 0}),
		encode(Order{'G', 'R', 'B'}, []byte{200, 0, 0}))
	assert.NotEqual(t,
		encode(RGB, []byte{200, 0, 0}),
		encode(RGB, []byte{0, 200, 0}))
}

func TestNewSPIRejectsEmptyStrip(t *testing.T) {
	_, err := NewSPI(spitest.NewRecordRaw(&bytes.Buffer{}), 0, RGB, 0)
	assert.Error(t, err)
}

func TestSimKeepsLastFrame(t *testing.T) {
	d := NewSim(2, zerolog.Nop())

	require.NoError(t, d.Write([]byte{1, 2, 3, 4, 5, 6}))
	require.NoError(t, d.Write([]byte{6, 5, 4, 3, 2, 1}))
	assert.Equal(t, 2, d.Frames())
	assert.Equal(t, []byte{6, 5, 4, 3, 2, 1}, d.Last())
	assert.Error(t, d.Write([]byte{1}))
	assert.NoError(t, d.Close())
}

func TestOpenSelectsDriver(t *testing.T) {
	d, err := Open(Config{Kind: KindSim, Pixels: 4}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Sim{}, d)

	d, err = Open(Config{Kind: KindConsole, Pixels: 4}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Console{}, d)

	_, err = Open(Config{Kind: "dmx", Pixels: 4}, zerolog.Nop())
	assert.Error(t, err)
	_, err = Open(Config{Kind: KindSim}, zerolog.Nop())
	assert.Error(t, err)
	_, err = Open(Config{Kind: KindSim, Pixels: 1, Order: "RRR"}, zerolog.Nop())
	assert.Error(t, err)
}
