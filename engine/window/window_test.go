package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindowClampsSize(t *testing.T) {
	w := newEngineWindow(WithSize(100, 5000), WithMinSize(200, 0), WithMaxSize(3840, 1080))

	assert.Equal(t, 200, w.Width())
	assert.Equal(t, 1080, w.Height())
	assert.Equal(t, "oxy-visual", w.title)

	unbounded := newEngineWindow(WithSize(8000, -1), WithMaxSize(0, 0))
	assert.Equal(t, 8000, unbounded.Width())
	assert.Equal(t, 720, unbounded.Height())
}

func TestKeyBindings(t *testing.T) {
	var toggled, fallback int
	var lastCode uint32
	w := newEngineWindow(WithKeyBinding('v', func() { toggled++ }))
	w.SetKeyDownCallback(func(keyCode uint32) {
		fallback++
		lastCode = keyCode
	})

	w.keyDown('V')
	w.keyDown('A')
	assert.Equal(t, 1, toggled)
	assert.Equal(t, 1, fallback)
	assert.Equal(t, uint32('A'), lastCode)
	assert.ElementsMatch(t, []rune{'V'}, w.Bindings())

	w.BindKey('v', nil)
	w.keyDown('V')
	assert.Equal(t, 1, toggled)
	assert.Equal(t, 2, fallback)
	assert.Empty(t, w.Bindings())
}

func TestResizedNotifiesCallback(t *testing.T) {
	w := newEngineWindow()
	var gotW, gotH int
	w.SetResizeCallback(func(width, height int) {
		gotW, gotH = width, height
	})

	w.resized(800, 600)
	assert.Equal(t, 800, gotW)
	assert.Equal(t, 600, gotH)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
}

func TestUnopenedWindowIsNotRunning(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	w.SetTitle("viewer")
	assert.Equal(t, "viewer", w.title)
}
