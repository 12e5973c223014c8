package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

func TestLazyCreatesOnce(t *testing.T) {
	l := NewLazy[*testDevice](DefaultConfig("first"))

	cfg := DefaultConfig("second")
	cfg.ProbeOnDeviceAdd = false
	assert.NoError(t, l.Configure(cfg))

	r := l.Get()
	assert.Same(t, r, l.Get())
	assert.Equal(t, "second", r.Name())
	assert.True(t, errors.Is(l.Configure(DefaultConfig("third")), errcode.ErrBusy))
	assert.Equal(t, "second", l.Get().Name())
}
