package extract

import (
	"strconv"

	"eothello/game"
)

// Positional layout of the initializeServerGame argument list. Positions
// 7-10 carry page-rendering fields this system does not use.
const (
	posID = iota
	posMoves
	posStartingPosition
	posWinner
	posVariant
	posStatusText
	posPlayerName
	posRole = 11
	posTurn = 12
)

// MapRecord assigns extracted values onto a Record by position. Field
// semantics are not validated here; values pass through as extracted.
// The caller guarantees at least MinFields values (Arguments enforces it).
func MapRecord(values []Value) game.Record {
	return game.Record{
		ID:               asString(values[posID]),
		Moves:            asStrings(values[posMoves]),
		StartingPosition: asString(values[posStartingPosition]),
		Winner:           asString(values[posWinner]),
		Variant:          asString(values[posVariant]),
		StatusText:       asString(values[posStatusText]),
		PlayerName:       asString(values[posPlayerName]),
		Role:             asInt(values[posRole]),
		Turn:             asString(values[posTurn]),
	}
}

func asString(v Value) string {
	switch s := v.(type) {
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func asStrings(v Value) []string {
	if items, ok := v.([]string); ok {
		return items
	}
	return nil
}

func asInt(v Value) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
