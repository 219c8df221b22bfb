// Package extract recovers game state from the script blob embedded in a
// game page. The page initializes its board with a JavaScript call whose
// argument list is object-literal-shaped but not valid JSON, so the
// argument text is split with a small hand-rolled scanner instead of a
// general parser.
package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// marker is the call site whose argument list carries the game state.
const marker = "server_game.initializeServerGame"

// MinFields is the number of positional values a well-formed call carries.
// Callers must never guess missing fields.
const MinFields = 13

var (
	ErrMarkerNotFound     = errors.New("extract: initializeServerGame call not found")
	ErrInsufficientFields = errors.New("extract: too few positional values")
)

// Value is one extracted argument: a string, a []string move array, an
// int64, or a float64. Anything that fails numeric parsing passes through
// verbatim as a string.
type Value any

// Arguments locates the first initializeServerGame call in pageText and
// returns its positional argument values in order. Pure and deterministic:
// the same page always yields the same values.
func Arguments(pageText string) ([]Value, error) {
	raw, err := argumentText(pageText)
	if err != nil {
		return nil, err
	}

	segments := splitTopLevel(raw)
	values := make([]Value, 0, len(segments))
	for _, segment := range segments {
		values = append(values, classify(segment))
	}

	if len(values) < MinFields {
		return nil, fmt.Errorf("%w: got %d, want at least %d",
			ErrInsufficientFields, len(values), MinFields)
	}
	return values, nil
}

// argumentText returns the text between the call's parentheses. The closing
// paren is found with the same quote/escape/depth tracking as the segment
// scanner, so a ')' inside a quoted string does not end the argument list.
func argumentText(pageText string) (string, error) {
	start := strings.Index(pageText, marker)
	if start < 0 {
		return "", ErrMarkerNotFound
	}

	rest := pageText[start+len(marker):]
	open := strings.IndexByte(rest, '(')
	if open < 0 || strings.TrimSpace(rest[:open]) != "" {
		return "", ErrMarkerNotFound
	}
	rest = rest[open+1:]

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(rest); i++ {
		ch := rest[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '[' || ch == '{' || ch == '(':
			depth++
		case ch == ']' || ch == '}':
			depth--
		case ch == ')':
			if depth == 0 {
				return rest[:i], nil
			}
			depth--
		}
	}
	return "", ErrMarkerNotFound
}

// splitTopLevel splits the raw argument text into top-level comma-separated
// segments in a single left-to-right scan. A comma is a boundary only at
// bracket depth 0 outside a quoted run; a backslash suppresses special
// handling of the following character.
func splitTopLevel(raw string) []string {
	var segments []string
	var current strings.Builder

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if escaped {
			current.WriteByte(ch)
			escaped = false
			continue
		}
		switch {
		case ch == '\\':
			escaped = true
			current.WriteByte(ch)
		case ch == '"':
			inString = !inString
			current.WriteByte(ch)
		case inString:
			current.WriteByte(ch)
		case ch == '[' || ch == '{' || ch == '(':
			depth++
			current.WriteByte(ch)
		case ch == ']' || ch == '}' || ch == ')':
			depth--
			current.WriteByte(ch)
		case ch == ',' && depth == 0:
			segments = append(segments, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		segments = append(segments, s)
	}
	return segments
}

// classify converts one trimmed segment into its Value. Quoted segments
// lose their surrounding quotes, bracketed segments become the ordered list
// of their quoted substrings, and everything else parses as a number or
// falls back to the verbatim identifier text.
func classify(segment string) Value {
	switch {
	case len(segment) >= 2 && segment[0] == '"' && segment[len(segment)-1] == '"':
		return segment[1 : len(segment)-1]
	case len(segment) >= 2 && segment[0] == '[' && segment[len(segment)-1] == ']':
		return quotedStrings(segment[1 : len(segment)-1])
	case strings.Contains(segment, "."):
		if f, err := strconv.ParseFloat(segment, 64); err == nil {
			return f
		}
		return segment
	default:
		if n, err := strconv.ParseInt(segment, 10, 64); err == nil {
			return n
		}
		return segment
	}
}

// quotedStrings pulls every quoted run out of inner, in order. Escaped
// quotes do not terminate a run.
func quotedStrings(inner string) []string {
	items := []string{}
	var current strings.Builder

	inString := false
	escaped := false
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		if escaped {
			current.WriteByte(ch)
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
			current.WriteByte(ch)
		case ch == '"':
			if inString {
				items = append(items, current.String())
				current.Reset()
			}
			inString = !inString
		case inString:
			current.WriteByte(ch)
		}
	}
	return items
}
