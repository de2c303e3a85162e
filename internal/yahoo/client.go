// Package yahoo implements platform.Client against the Yahoo Fantasy Sports v2 API.
package yahoo

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
	"github.com/Billy-Davies-2/hoops-swap/internal/models"
	"github.com/Billy-Davies-2/hoops-swap/internal/platform"
)

// DefaultBaseURL is the production API root
const DefaultBaseURL = "https://fantasysports.yahooapis.com/fantasy/v2"

// pageSize is Yahoo's maximum player collection page
const pageSize = 25

// maxPoolSize bounds free-agent and waiver listings
const maxPoolSize = 500

// statKeys maps Yahoo NBA stat ids to the display names StatRecord accepts
var statKeys = map[string]string{
	"5":  "FG%",
	"8":  "FT%",
	"10": "3PTM",
	"12": "PTS",
	"15": "REB",
	"16": "AST",
	"17": "ST",
	"18": "BLK",
	"19": "TO",
}

// Config selects the API root and league
type Config struct {
	BaseURL string
	// LeagueKey, when empty, resolves to the logged-in user's last NBA league
	LeagueKey string
}

// Client talks to one league on behalf of an authenticated session
type Client struct {
	http      *http.Client
	baseURL   string
	leagueKey string
	gameKey   string

	mu    sync.Mutex
	teams []xmlTeam
}

var _ platform.Client = (*Client)(nil)

// NewClient binds a session's http client to a league
func NewClient(ctx context.Context, httpClient *http.Client, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	c := &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		leagueKey: cfg.LeagueKey,
	}

	// Fall back to the most recent NBA league
	if c.leagueKey == "" {
		key, err := c.lastLeague(ctx)
		if err != nil {
			return nil, err
		}
		c.leagueKey = key
	}

	// Player keys are built from the game prefix of the league key
	game, _, ok := strings.Cut(c.leagueKey, ".l.")
	if !ok {
		return nil, fmt.Errorf("malformed league key %q", c.leagueKey)
	}
	c.gameKey = game

	logger.Info("Using Yahoo league", "league", c.leagueKey, "game", c.gameKey)
	return c, nil
}

// LeagueKey returns the resolved league
func (c *Client) LeagueKey() string {
	return c.leagueKey
}

func (c *Client) lastLeague(ctx context.Context) (string, error) {
	var doc fantasyContent
	if err := c.get(ctx, "users_leagues", "/users;use_login=1/games;game_keys=nba/leagues", &doc); err != nil {
		return "", err
	}

	// Yahoo lists leagues oldest first
	var last string
	for _, u := range doc.Users {
		for _, g := range u.Games {
			for _, l := range g.Leagues {
				last = l.LeagueKey
			}
		}
	}
	if last == "" {
		return "", fmt.Errorf("no NBA league found for the logged-in user")
	}
	return last, nil
}

func (c *Client) leagueTeams(ctx context.Context) ([]xmlTeam, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.teams != nil {
		return c.teams, nil
	}

	var doc fantasyContent
	if err := c.get(ctx, "league_teams", "/league/"+c.leagueKey+"/teams", &doc); err != nil {
		return nil, err
	}
	if doc.League == nil {
		return nil, &platform.TransientNetworkError{Op: "league_teams", Err: errors.New("response has no league")}
	}
	c.teams = doc.League.Teams
	return c.teams, nil
}

func (c *Client) Teams(ctx context.Context) ([]models.TeamRef, error) {
	teams, err := c.leagueTeams(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.TeamRef, len(teams))
	for i, t := range teams {
		out[i] = models.TeamRef{Key: t.TeamKey, Name: t.Name}
	}
	return out, nil
}

func (c *Client) MyTeamKey(ctx context.Context) (string, error) {
	teams, err := c.leagueTeams(ctx)
	if err != nil {
		return "", err
	}
	for _, t := range teams {
		if t.IsOwnedBy == 1 {
			return t.TeamKey, nil
		}
	}
	return "", fmt.Errorf("no team in %s is owned by the logged-in user", c.leagueKey)
}

func (c *Client) Roster(ctx context.Context, teamKey string) ([]models.PlayerRef, error) {
	var doc fantasyContent
	if err := c.get(ctx, "team_roster", "/team/"+teamKey+"/roster", &doc); err != nil {
		return nil, err
	}
	if doc.Team == nil {
		return nil, &platform.TransientNetworkError{Op: "team_roster", Err: errors.New("response has no team")}
	}
	return toRefs(doc.Team.Players), nil
}

func (c *Client) PlayerStats(ctx context.Context, playerID, period string) (models.RawStats, error) {
	path := fmt.Sprintf("/league/%s/players;player_keys=%s/stats;type=%s", c.leagueKey, c.playerKey(playerID), url.PathEscape(period))

	var doc fantasyContent
	if err := c.get(ctx, "player_stats", path, &doc); err != nil {
		return nil, err
	}
	if doc.League == nil || len(doc.League.Players) == 0 {
		return nil, &platform.TransientNetworkError{Op: "player_stats", Err: fmt.Errorf("player %s not found", playerID)}
	}

	p := doc.League.Players[0]
	raw := models.RawStats{
		"player_id":          p.PlayerID,
		"name":               p.Name,
		"eligible_positions": p.Positions,
	}
	for _, s := range p.Stats {
		if key, ok := statKeys[s.StatID]; ok {
			raw[key] = s.Value
		}
	}
	return raw, nil
}

func (c *Client) FreeAgents(ctx context.Context, position string) ([]models.PlayerRef, error) {
	return c.pool(ctx, "free_agents", "status=FA;position="+url.PathEscape(position))
}

func (c *Client) Waivers(ctx context.Context) ([]models.PlayerRef, error) {
	return c.pool(ctx, "waivers", "status=W")
}

func (c *Client) pool(ctx context.Context, op, filter string) ([]models.PlayerRef, error) {
	var out []models.PlayerRef
	for start := 0; start < maxPoolSize; start += pageSize {
		path := fmt.Sprintf("/league/%s/players;%s;start=%d;count=%d", c.leagueKey, filter, start, pageSize)

		var doc fantasyContent
		if err := c.get(ctx, op, path, &doc); err != nil {
			return nil, err
		}
		if doc.League == nil {
			break
		}
		out = append(out, toRefs(doc.League.Players)...)
		if len(doc.League.Players) < pageSize {
			break
		}
	}
	return out, nil
}

func (c *Client) CommitAddDrop(ctx context.Context, teamKey, inPlayerID, outPlayerID string) error {
	doc := transactionDoc{
		Transaction: xmlTransaction{
			Type: "add/drop",
			Players: []xmlTransPlayer{
				{
					PlayerKey: c.playerKey(inPlayerID),
					Data:      xmlTransData{Type: "add", DestinationTeamKey: teamKey},
				},
				{
					PlayerKey: c.playerKey(outPlayerID),
					Data:      xmlTransData{Type: "drop", SourceTeamKey: teamKey},
				},
			},
		},
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return err
	}
	body = append([]byte(xml.Header), body...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/league/"+c.leagueKey+"/transactions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.do(req, "commit_add_drop")
	if err != nil {
		return err
	}
	resp.Body.Close()

	logger.Info("Transaction accepted", "team", teamKey, "add", inPlayerID, "drop", outPlayerID)
	return nil
}

func (c *Client) playerKey(playerID string) string {
	if strings.Contains(playerID, ".p.") {
		return playerID
	}
	return c.gameKey + ".p." + playerID
}

func (c *Client) get(ctx context.Context, op, path string, into *fantasyContent) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := xml.NewDecoder(resp.Body).Decode(into); err != nil {
		return &platform.TransientNetworkError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// do sends req and maps failures to the platform error kinds. The caller
// closes the body of a successful response.
func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	logger.Debug("Yahoo request", "op", op, "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		if platform.IsAuthentication(err) {
			return nil, err
		}
		return nil, &platform.TransientNetworkError{Op: op, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	err = fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(msg)))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &platform.AuthenticationError{Err: err}
	}
	return nil, &platform.TransientNetworkError{Op: op, Err: err}
}

func toRefs(players []xmlPlayer) []models.PlayerRef {
	out := make([]models.PlayerRef, len(players))
	for i, p := range players {
		out[i] = models.PlayerRef{
			PlayerID:  p.PlayerID,
			Name:      p.Name,
			Positions: p.Positions,
			Status:    p.Status,
		}
	}
	return out
}
