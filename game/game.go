// Package game holds the per-game state recovered from the site and the
// tracked-games set the bot maintains between polls.
package game

import "strings"

// Role values as the site reports them: 1 plays the first move.
const (
	RoleBlack = 1
	RoleWhite = 2
)

// Colors as they appear in the page's turn field.
const (
	Black = "black"
	White = "white"
)

// Record is one game's state as recovered from a game page. It is rebuilt
// from scratch on every poll; nothing in it survives across cycles.
type Record struct {
	ID               string
	Moves            []string
	StartingPosition string
	Winner           string
	Variant          string
	StatusText       string
	PlayerName       string
	Role             int
	Turn             string
}

// OurColor maps the numeric role to the color the account plays.
// Role 1 is the first mover (black); anything else plays white.
func OurColor(role int) string {
	if role == RoleBlack {
		return Black
	}
	return White
}

// Position returns the engine's input encoding of the board state: every
// move played so far, concatenated in order.
func (r Record) Position() string {
	return strings.Join(r.Moves, "")
}
