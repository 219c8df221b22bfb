package storage

import (
	"fmt"

	"eothello/game"
)

// LoadTracking returns the saved tracking state for every known game.
func (s *Store) LoadTracking() (map[string]game.Tracking, error) {
	rows, err := s.db.Query(`SELECT game_id, color, last_move_count FROM game_tracking`)
	if err != nil {
		return nil, fmt.Errorf("storage: load tracking: %w", err)
	}
	defer rows.Close()

	tracking := map[string]game.Tracking{}
	for rows.Next() {
		var id string
		var t game.Tracking
		if err := rows.Scan(&id, &t.Color, &t.LastMoveCount); err != nil {
			return nil, fmt.Errorf("storage: scan tracking row: %w", err)
		}
		tracking[id] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: load tracking: %w", err)
	}
	return tracking, nil
}

// SaveTracking upserts the tracking state for one game.
func (s *Store) SaveTracking(gameID string, t game.Tracking) error {
	_, err := s.db.Exec(`
		INSERT INTO game_tracking (game_id, color, last_move_count, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(game_id) DO UPDATE SET
			color = excluded.color,
			last_move_count = excluded.last_move_count,
			updated_at = excluded.updated_at`,
		gameID, t.Color, t.LastMoveCount)
	if err != nil {
		return fmt.Errorf("storage: save tracking for %s: %w", gameID, err)
	}
	return nil
}

// DeleteTracking removes a game that is no longer in progress.
func (s *Store) DeleteTracking(gameID string) error {
	if _, err := s.db.Exec(`DELETE FROM game_tracking WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("storage: delete tracking for %s: %w", gameID, err)
	}
	return nil
}
