package evalctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FreshAux_incrementsAndResets(t *testing.T) {
	c := New()
	assert.Equal(t, "&0", c.FreshAux())
	assert.Equal(t, "&1", c.FreshAux())
	c.ResetFresh()
	assert.Equal(t, "&0", c.FreshAux())
}

func Test_New_defaults(t *testing.T) {
	c := New()
	assert.Equal(t, ModeSAT, c.Mode)
	assert.False(t, c.CheckOnly)
	assert.False(t, c.EmptyGeneratorIsFatal)
	assert.NotNil(t, c.Global)
	assert.NotNil(t, c.Sink)
}
