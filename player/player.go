// Package player decides, for one game at a time, whether to play and
// what to play. Purely sequential; all waiting happens inside the engine
// channel.
package player

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"eothello/communication"
	"eothello/engine"
	"eothello/game"
)

// PromptPrefix is the decoration the engine prints in front of its reply.
const PromptPrefix = "Board > "

// ErrInvalidMove means the engine answered but not usably. The game simply
// gets no move this cycle.
var ErrInvalidMove = errors.New("player: engine reply is not a two-character move")

// Result of one negotiation cycle for a game. MoveCount is the history
// length the tracker should record; Move is empty when nothing was played.
type Result struct {
	Color     string
	MoveCount int
	Move      string
}

// Negotiator asks the engine for a move when it is our turn and hands the
// result to the submitter.
type Negotiator struct {
	generator engine.Generator
	submitter communication.Submitter
	prompt    string
}

// NewNegotiator creates a Negotiator. An empty prompt falls back to the
// engine's default decoration.
func NewNegotiator(generator engine.Generator, submitter communication.Submitter, prompt string) *Negotiator {
	if prompt == "" {
		prompt = PromptPrefix
	}
	return &Negotiator{
		generator: generator,
		submitter: submitter,
		prompt:    prompt,
	}
}

// Negotiate runs one cycle for the record: role decides our color, the
// turn field decides whether to move at all. On our turn the move history
// becomes the position encoding, the engine reply is validated and the
// move is submitted with a 1-based index of pre-move history length + 1.
func (n *Negotiator) Negotiate(rec game.Record) (Result, error) {
	result := Result{
		Color:     game.OurColor(rec.Role),
		MoveCount: len(rec.Moves),
	}

	if rec.Turn != result.Color {
		log.Debug().Str("game", rec.ID).Msg("waiting on the opponent")
		return result, nil
	}

	reply, err := n.generator.Generate(rec.Position())
	if err != nil {
		return result, fmt.Errorf("game %s: engine: %w", rec.ID, err)
	}

	move, err := n.clean(reply)
	if err != nil {
		return result, fmt.Errorf("game %s: %w", rec.ID, err)
	}

	index := len(rec.Moves) + 1
	if err := n.submitter.SubmitMove(rec.ID, move, index); err != nil {
		// Submission failure does not touch the engine channel.
		return result, fmt.Errorf("game %s: submit %q: %w", rec.ID, move, err)
	}

	log.Info().Str("game", rec.ID).Str("move", move).Int("index", index).Msg("move played")
	result.Move = move
	result.MoveCount = index
	return result, nil
}

// clean strips the prompt decoration and requires exactly two printable
// characters; anything else is no move.
func (n *Negotiator) clean(reply string) (string, error) {
	move := strings.TrimSpace(reply)
	move = strings.TrimPrefix(move, strings.TrimRight(n.prompt, " "))
	move = strings.TrimSpace(move)

	runes := []rune(move)
	if len(runes) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMove, reply)
	}
	for _, r := range runes {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidMove, reply)
		}
	}
	return move, nil
}
