package player

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"eothello/game"
)

type stubGenerator struct {
	reply string
	err   error
	asked []string
}

func (s *stubGenerator) Generate(position string) (string, error) {
	s.asked = append(s.asked, position)
	return s.reply, s.err
}

type stubSubmitter struct {
	err    error
	gameID string
	move   string
	index  int
	calls  int
}

func (s *stubSubmitter) SubmitMove(gameID, move string, moveIndex int) error {
	s.calls++
	s.gameID = gameID
	s.move = move
	s.index = moveIndex
	return s.err
}

func ourTurnRecord() game.Record {
	return game.Record{
		ID:    "101",
		Moves: []string{"f5", "d6"},
		Role:  1,
		Turn:  game.Black,
	}
}

func TestNegotiate(t *testing.T) {
	t.Run("plays on our turn", func(t *testing.T) {
		gen := &stubGenerator{reply: "Board > a1"}
		sub := &stubSubmitter{}
		n := NewNegotiator(gen, sub, "")

		result, err := n.Negotiate(ourTurnRecord())

		require.NoError(t, err)
		require.Equal(t, []string{"f5d6"}, gen.asked,
			"position is the concatenated move history")
		require.Equal(t, "101", sub.gameID)
		require.Equal(t, "a1", sub.move, "prompt decoration must be stripped")
		require.Equal(t, 3, sub.index, "move index is 1-based history length + 1")
		require.Equal(t, Result{Color: game.Black, MoveCount: 3, Move: "a1"}, result)
	})

	t.Run("waits when it is not our turn", func(t *testing.T) {
		gen := &stubGenerator{reply: "Board > a1"}
		sub := &stubSubmitter{}
		n := NewNegotiator(gen, sub, "")

		rec := ourTurnRecord()
		rec.Turn = game.White

		result, err := n.Negotiate(rec)

		require.NoError(t, err)
		require.Empty(t, gen.asked, "the engine must not be consulted")
		require.Zero(t, sub.calls)
		require.Equal(t, Result{Color: game.Black, MoveCount: 2}, result)
	})

	t.Run("role decides our color", func(t *testing.T) {
		gen := &stubGenerator{reply: "Board > a1"}
		sub := &stubSubmitter{}
		n := NewNegotiator(gen, sub, "")

		rec := ourTurnRecord()
		rec.Role = 2
		rec.Turn = game.White

		_, err := n.Negotiate(rec)

		require.NoError(t, err)
		require.Len(t, gen.asked, 1, "role 2 plays white, and it is white's turn")
		require.Equal(t, 1, sub.calls)
	})

	t.Run("rejects a reply that is not two characters", func(t *testing.T) {
		for _, reply := range []string{"Board > a1x", "Board > a", "Board > ", ""} {
			gen := &stubGenerator{reply: reply}
			sub := &stubSubmitter{}
			n := NewNegotiator(gen, sub, "")

			_, err := n.Negotiate(ourTurnRecord())

			require.ErrorIs(t, err, ErrInvalidMove, "reply %q", reply)
			require.Zero(t, sub.calls, "no submission for reply %q", reply)
		}
	})

	t.Run("propagates engine failure as no move", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("engine wedged")}
		sub := &stubSubmitter{}
		n := NewNegotiator(gen, sub, "")

		_, err := n.Negotiate(ourTurnRecord())

		require.Error(t, err)
		require.Zero(t, sub.calls)
	})

	t.Run("reports submission failure", func(t *testing.T) {
		gen := &stubGenerator{reply: "Board > a1"}
		sub := &stubSubmitter{err: errors.New("site said no")}
		n := NewNegotiator(gen, sub, "")

		result, err := n.Negotiate(ourTurnRecord())

		require.Error(t, err)
		require.Empty(t, result.Move)
		require.Equal(t, 2, result.MoveCount,
			"an unsubmitted move must not advance the count")
	})

	t.Run("accepts a bare move without prompt", func(t *testing.T) {
		gen := &stubGenerator{reply: "d3"}
		sub := &stubSubmitter{}
		n := NewNegotiator(gen, sub, "")

		_, err := n.Negotiate(ourTurnRecord())

		require.NoError(t, err)
		require.Equal(t, "d3", sub.move)
	})
}
