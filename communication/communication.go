// Package communication defines the collaborators the bot talks to the
// site through.
package communication

// GameSource supplies the account's in-progress game ids and the raw page
// text for one game.
type GameSource interface {
	CurrentGames() ([]string, error)
	GamePage(gameID string) (string, error)
}

// Submitter delivers a decided move back to the site. The move index is
// 1-based: pre-move history length + 1.
type Submitter interface {
	SubmitMove(gameID, move string, moveIndex int) error
}
