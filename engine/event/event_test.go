package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusFiresInOrder(t *testing.T) {
	b := NewBus()
	var calls []string
	b.ConnectPreRender(func() { calls = append(calls, "a") })
	conn := b.ConnectPreRender(func() { calls = append(calls, "b") })
	b.ConnectPreRender(func() { calls = append(calls, "c") })
	assert.Equal(t, 3, b.PreRenderCount())

	b.FirePreRender()
	assert.Equal(t, []string{"a", "b", "c"}, calls)

	b.DisconnectPreRender(conn)
	b.DisconnectPreRender(conn)
	b.DisconnectPreRender(0)
	calls = nil
	b.FirePreRender()
	assert.Equal(t, []string{"a", "c"}, calls)
	assert.Equal(t, uint64(2), b.Frames())
}

func TestBusDisconnectDuringFire(t *testing.T) {
	b := NewBus()
	count := 0
	var conn Connection
	conn = b.ConnectPreRender(func() {
		count++
		b.DisconnectPreRender(conn)
	})

	b.FirePreRender()
	b.FirePreRender()
	assert.Equal(t, 1, count)
	assert.Zero(t, b.PreRenderCount())
}
