// Package client is the HTTP session against the site: games list, game
// pages and move submission. Thin I/O glue around one authenticated
// http.Client.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// gameLinkPattern matches the game links inside the games-list fragment.
var gameLinkPattern = regexp.MustCompile(`/game/(\d+)`)

// browserHeaders are the request headers the site expects from its own
// frontend.
var browserHeaders = map[string]string{
	"accept":           "*/*",
	"accept-language":  "en-US,en;q=0.9",
	"cache-control":    "no-cache",
	"pragma":           "no-cache",
	"user-agent":       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36",
	"x-requested-with": "XMLHttpRequest",
}

// SiteClient holds the authenticated session for one account.
type SiteClient struct {
	baseURL  string
	playerID string
	cookie   string
	client   *http.Client
}

// NewSiteClient initializes a session for playerID authenticated by the
// site's authentication cookie value.
func NewSiteClient(baseURL, playerID, authCookie string) *SiteClient {
	return &SiteClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		playerID: playerID,
		cookie:   authCookie,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// CurrentGames fetches the in-progress games list and returns the game ids
// in page order, de-duplicated. The list endpoint wraps an HTML fragment
// in a JSON envelope; the ids are pulled straight from its game links.
func (sc *SiteClient) CurrentGames() ([]string, error) {
	body, err := sc.get(fmt.Sprintf("/get-player-current-games-list/%s/1", sc.playerID))
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, fmt.Errorf("client: games list envelope: %w", err)
	}

	var ids []string
	seen := map[string]bool{}
	for _, match := range gameLinkPattern.FindAllStringSubmatch(envelope.Content, -1) {
		id := match[1]
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// GamePage fetches the raw page text for one game.
func (sc *SiteClient) GamePage(gameID string) (string, error) {
	return sc.get("/game/" + gameID)
}

// SubmitMove posts a move back to the site as the frontend would.
func (sc *SiteClient) SubmitMove(gameID, move string, moveIndex int) error {
	form := url.Values{
		"game_id":    {gameID},
		"move":       {move},
		"move_index": {strconv.Itoa(moveIndex)},
	}

	req, err := http.NewRequest(http.MethodPost, sc.baseURL+"/make-move",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("client: build move request: %w", err)
	}
	sc.decorate(req)
	req.Header.Set("content-type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("origin", sc.baseURL)

	resp, err := sc.client.Do(req)
	if err != nil {
		return fmt.Errorf("client: submit move: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("client: submit move: unexpected status %s", resp.Status)
	}
	return nil
}

func (sc *SiteClient) get(path string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, sc.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("client: build request: %w", err)
	}
	sc.decorate(req)

	resp, err := sc.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("client: get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("client: get %s: unexpected status %s", path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("client: read %s: %w", path, err)
	}
	return string(body), nil
}

func (sc *SiteClient) decorate(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: "authentication", Value: sc.cookie})
	for name, value := range browserHeaders {
		req.Header.Set(name, value)
	}
}
