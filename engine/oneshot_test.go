package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func shellOneShot(script string, options ...Option) *OneShot {
	options = append([]Option{WithArgs("-c", script)}, options...)
	return NewOneShot("/bin/sh", options...)
}

func TestOneShotGenerate(t *testing.T) {
	t.Run("returns the reply line of a fresh process", func(t *testing.T) {
		o := shellOneShot(`read line; echo "Board > a1"`, WithTimeout(2*time.Second))

		reply, err := o.Generate("f5d6")

		require.NoError(t, err)
		require.Equal(t, "Board > a1", reply)
	})

	t.Run("last non-empty line wins when the engine is chatty", func(t *testing.T) {
		o := shellOneShot(`read line; echo "loading book"; echo "Board > d3"`,
			WithTimeout(2*time.Second))

		reply, err := o.Generate("f5")

		require.NoError(t, err)
		require.Equal(t, "Board > d3", reply)
	})

	t.Run("deadline hit maps to receive timeout", func(t *testing.T) {
		o := shellOneShot(`read line; exec sleep 60`, WithTimeout(150*time.Millisecond))

		start := time.Now()
		_, err := o.Generate("f5d6")

		require.ErrorIs(t, err, ErrReceiveTimeout)
		require.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("missing binary is a spawn failure", func(t *testing.T) {
		o := NewOneShot("/no/such/engine/binary")
		_, err := o.Generate("f5d6")
		require.ErrorIs(t, err, ErrSpawnFailed)
	})

	t.Run("silence is peer closed", func(t *testing.T) {
		o := shellOneShot(`read line`, WithTimeout(2*time.Second))
		_, err := o.Generate("f5d6")
		require.ErrorIs(t, err, ErrPeerClosed)
	})
}
