package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type provider interface {
	Do()
}

type impl struct{}

func (impl) Do() {}

func TestCheckInit(t *testing.T) {
	t.Run(`all set`, func(t *testing.T) {
		var p provider = impl{}
		require.NotPanics(t, func() {
			CheckInit("provider", p, "config", &struct{}{})
		})
	})
	t.Run(`missing deps are listed`, func(t *testing.T) {
		var p provider
		var ptr *struct{}
		require.PanicsWithValue(t, "dependencies not initialized: provider, client", func() {
			CheckInit("provider", p, "client", ptr, "ok", 1)
		})
	})
	t.Run(`odd arguments`, func(t *testing.T) {
		require.Panics(t, func() {
			CheckInit("provider")
		})
	})
}
