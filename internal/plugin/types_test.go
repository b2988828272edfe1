package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPlugin struct{ t Traits }

func (n *nopPlugin) Traits() Traits                            { return n.t }
func (n *nopPlugin) Begin(layer, pixels int)                   {}
func (n *nopPlugin) Trigger(ctx *Context, p *DrawProps, f int) {}
func (n *nopPlugin) Step(ctx *Context, p *DrawProps)           {}

func TestRegistryMake(t *testing.T) {
	reg := NewRegistry()
	reg.Register(7, func() Plugin { return &nopPlugin{t: Redraw} })
	reg.Register(3, func() Plugin { return &nopPlugin{} })
	reg.Register(9, nil)

	p, ok := reg.Make(7)
	require.True(t, ok)
	assert.True(t, p.Traits().Has(Redraw))

	q, ok := reg.Make(7)
	require.True(t, ok)
	assert.NotSame(t, p, q, "each Make returns a fresh instance")

	_, ok = reg.Make(9)
	assert.False(t, ok)
	assert.Equal(t, []int{3, 7}, reg.IDs())
}

func TestTraits(t *testing.T) {
	tr := Redraw | SendForce
	assert.True(t, tr.Has(Redraw))
	assert.True(t, tr.Has(SendForce))
	assert.False(t, tr.Has(Trigger))
	assert.False(t, tr.Has(Direction))
}
