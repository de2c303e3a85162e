package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/Billy-Davies-2/hoops-swap/internal/models"
	"github.com/Billy-Davies-2/hoops-swap/internal/platform"
)

// Commit records one add/drop sent to the mock platform
type Commit struct {
	TeamKey string
	InID    string
	OutID   string
}

// Platform is an in-memory platform.Client for local development and tests
type Platform struct {
	mu sync.Mutex

	teams      []models.TeamRef
	myTeamKey  string
	rosters    map[string][]models.PlayerRef
	stats      map[string]models.RawStats
	freeAgents map[string][]models.PlayerRef
	waivers    []models.PlayerRef

	commits   []Commit
	statCalls map[string]int

	// CommitErr, when set, is returned by every CommitAddDrop call
	CommitErr error
	// StatsErr maps player ids to an error returned by PlayerStats
	StatsErr map[string]error
}

var _ platform.Client = (*Platform)(nil)

// NewPlatform creates an empty mock platform
func NewPlatform() *Platform {
	return &Platform{
		rosters:    make(map[string][]models.PlayerRef),
		stats:      make(map[string]models.RawStats),
		freeAgents: make(map[string][]models.PlayerRef),
		statCalls:  make(map[string]int),
		StatsErr:   make(map[string]error),
	}
}

// AddTeam registers a franchise and its rostered players' stat lines
func (p *Platform) AddTeam(ref models.TeamRef, mine bool, players ...models.RawStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.teams = append(p.teams, ref)
	if mine {
		p.myTeamKey = ref.Key
	}
	for _, raw := range players {
		p.rosters[ref.Key] = append(p.rosters[ref.Key], p.register(raw, ""))
	}
}

// AddFreeAgent lists a player in the free-agent pool of every position given
func (p *Platform) AddFreeAgent(status string, raw models.RawStats, positions ...string) models.PlayerRef {
	p.mu.Lock()
	defer p.mu.Unlock()

	ref := p.register(raw, status)
	for _, pos := range positions {
		p.freeAgents[pos] = append(p.freeAgents[pos], ref)
	}
	return ref
}

// AddWaiver lists a player on the waiver wire
func (p *Platform) AddWaiver(status string, raw models.RawStats) models.PlayerRef {
	p.mu.Lock()
	defer p.mu.Unlock()

	ref := p.register(raw, status)
	p.waivers = append(p.waivers, ref)
	return ref
}

// Commits returns every add/drop received so far
func (p *Platform) Commits() []Commit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Commit(nil), p.commits...)
}

// StatCalls returns how often PlayerStats was called for a player
func (p *Platform) StatCalls(playerID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statCalls[playerID]
}

func (p *Platform) register(raw models.RawStats, status string) models.PlayerRef {
	rec := models.NewStatRecord(raw)
	p.stats[rec.PlayerID] = raw
	return models.PlayerRef{
		PlayerID:  rec.PlayerID,
		Name:      rec.Name,
		Positions: rec.Positions,
		Status:    status,
	}
}

func (p *Platform) Teams(ctx context.Context) ([]models.TeamRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.TeamRef(nil), p.teams...), nil
}

func (p *Platform) MyTeamKey(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.myTeamKey == "" {
		return "", fmt.Errorf("no team marked as mine")
	}
	return p.myTeamKey, nil
}

func (p *Platform) Roster(ctx context.Context, teamKey string) ([]models.PlayerRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	players, ok := p.rosters[teamKey]
	if !ok {
		return nil, &platform.TransientNetworkError{Op: "team_roster", Err: fmt.Errorf("unknown team %s", teamKey)}
	}
	return append([]models.PlayerRef(nil), players...), nil
}

func (p *Platform) PlayerStats(ctx context.Context, playerID, period string) (models.RawStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.statCalls[playerID]++
	if err := p.StatsErr[playerID]; err != nil {
		return nil, err
	}
	raw, ok := p.stats[playerID]
	if !ok {
		return nil, &platform.TransientNetworkError{Op: "player_stats", Err: fmt.Errorf("unknown player %s", playerID)}
	}

	out := make(models.RawStats, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	return out, nil
}

func (p *Platform) FreeAgents(ctx context.Context, position string) ([]models.PlayerRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.PlayerRef(nil), p.freeAgents[position]...), nil
}

func (p *Platform) Waivers(ctx context.Context) ([]models.PlayerRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.PlayerRef(nil), p.waivers...), nil
}

func (p *Platform) CommitAddDrop(ctx context.Context, teamKey, inPlayerID, outPlayerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.CommitErr != nil {
		return p.CommitErr
	}

	roster, ok := p.rosters[teamKey]
	if !ok {
		return fmt.Errorf("unknown team %s", teamKey)
	}
	kept := roster[:0:0]
	dropped := false
	for _, ref := range roster {
		if ref.PlayerID == outPlayerID {
			dropped = true
			continue
		}
		kept = append(kept, ref)
	}
	if !dropped {
		return fmt.Errorf("player %s not on team %s", outPlayerID, teamKey)
	}

	raw, ok := p.stats[inPlayerID]
	if !ok {
		return fmt.Errorf("unknown player %s", inPlayerID)
	}
	in := models.NewStatRecord(raw)
	p.rosters[teamKey] = append(kept, models.PlayerRef{
		PlayerID:  in.PlayerID,
		Name:      in.Name,
		Positions: in.Positions,
	})

	p.commits = append(p.commits, Commit{TeamKey: teamKey, InID: inPlayerID, OutID: outPlayerID})
	return nil
}
