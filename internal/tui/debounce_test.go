package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer(t *testing.T) {
	t.Run("should deliver the value after the window", func(t *testing.T) {
		d := newDebouncer(time.Millisecond)

		cmd := d.trigger("ste")
		msg, ok := cmd().(debounceMsg)

		require.True(t, ok)
		assert.Equal(t, "ste", msg.value)
		assert.True(t, d.settled(msg))
	})

	t.Run("should settle only the latest trigger", func(t *testing.T) {
		d := newDebouncer(time.Millisecond)

		first := d.trigger("s")().(debounceMsg)
		second := d.trigger("st")().(debounceMsg)
		third := d.trigger("ste")().(debounceMsg)

		assert.False(t, d.settled(first))
		assert.False(t, d.settled(second))
		assert.True(t, d.settled(third))
	})
}
