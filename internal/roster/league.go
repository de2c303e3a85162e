package roster

import (
	"context"
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/hoops-swap/internal/dal"
	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
	"github.com/Billy-Davies-2/hoops-swap/internal/models"
	"github.com/Billy-Davies-2/hoops-swap/internal/platform"
)

// PlayerPools lists players not on any roster. Reads only.
type PlayerPools interface {
	FreeAgents(ctx context.Context, position string) ([]models.PlayerRef, error)
	Waivers(ctx context.Context) ([]models.PlayerRef, error)
}

// LeagueConfig controls how a league is loaded from the platform
type LeagueConfig struct {
	RosterCap  int
	StatPeriod string
	// Cache is shared by every team so a player is fetched at most once per run
	Cache dal.StatCache
}

// League owns one Team per franchise and ranks "my team" against the rest.
// Standings are always computed from current rosters.
type League struct {
	teams  []*Team
	byKey  map[string]*Team
	myTeam *Team
	pools  PlayerPools
}

// NewLeague assembles a league from already-built teams. Team order is the
// tie-break order for standings.
func NewLeague(teams []*Team, myTeamKey string, pools PlayerPools) (*League, error) {
	l := &League{
		teams: teams,
		byKey: make(map[string]*Team, len(teams)),
		pools: pools,
	}
	for _, t := range teams {
		if _, dup := l.byKey[t.Key]; dup {
			return nil, fmt.Errorf("duplicate team key %s", t.Key)
		}
		l.byKey[t.Key] = t
	}

	my, ok := l.byKey[myTeamKey]
	if !ok {
		return nil, fmt.Errorf("my team %q is not in the league", myTeamKey)
	}
	l.myTeam = my

	return l, nil
}

// Load builds the league from live platform data
func Load(ctx context.Context, client platform.Client, cfg LeagueConfig) (*League, error) {
	if cfg.Cache == nil {
		cfg.Cache = dal.NewMemoryCache()
	}
	if cfg.StatPeriod == "" {
		cfg.StatPeriod = platform.StatPeriodLastMonth
	}

	refs, err := client.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing league teams: %w", err)
	}
	myKey, err := client.MyTeamKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving my team: %w", err)
	}

	teams := make([]*Team, 0, len(refs))
	for _, ref := range refs {
		team := NewTeam(ref, TeamConfig{
			Cap:     cfg.RosterCap,
			Period:  cfg.StatPeriod,
			Cache:   cfg.Cache,
			Fetcher: client,
		})

		log := logger.With("team", ref.Key)

		players, err := client.Roster(ctx, ref.Key)
		if err != nil {
			return nil, fmt.Errorf("loading roster of %s: %w", ref.Key, err)
		}

		// injured-list slots can push a platform roster past the configured cap
		if len(players) > team.Cap() {
			log.Error("Roster is larger than ROSTER_CAP", "players", len(players), "cap", team.Cap())
			return nil, fmt.Errorf("loading roster of %s: %w (%d players listed, set ROSTER_CAP to at least %d)",
				ref.Key, &CapacityError{TeamKey: ref.Key, Cap: team.Cap()}, len(players), len(players))
		}
		for _, p := range players {
			if err := team.Add(ctx, p); err != nil {
				return nil, fmt.Errorf("loading roster of %s: %w", ref.Key, err)
			}
		}

		log.Debug("Loaded team", "name", ref.Name, "players", team.Size())
		teams = append(teams, team)
	}

	league, err := NewLeague(teams, myKey, client)
	if err != nil {
		return nil, err
	}

	logger.Info("League loaded", "teams", len(teams), "my_team", myKey)
	return league, nil
}

// Teams returns the teams in league order
func (l *League) Teams() []*Team {
	return l.teams
}

// MyTeam returns the team being managed
func (l *League) MyTeam() *Team {
	return l.myTeam
}

// Team looks up a team by key
func (l *League) Team(key string) (*Team, bool) {
	t, ok := l.byKey[key]
	return t, ok
}

// Standing orders every team by its aggregate for the category, best first.
// Turnovers sort ascending, everything else descending; ties keep league order.
func (l *League) Standing(c models.Category) []models.TeamValue {
	out := make([]models.TeamValue, len(l.teams))
	for i, t := range l.teams {
		out[i] = models.TeamValue{TeamKey: t.Key, Value: t.Stat(c)}
	}

	lowerIsBetter := c.LowerIsBetter()
	sort.SliceStable(out, func(i, j int) bool {
		if lowerIsBetter {
			return out[i].Value < out[j].Value
		}
		return out[i].Value > out[j].Value
	})
	return out
}

// Rank returns my team's zero-based position in each category standing and
// their arithmetic mean. Lower is better.
func (l *League) Rank() models.Ranking {
	r := models.Ranking{
		Positions: make(map[models.Category]int, len(models.Categories)),
	}

	sum := 0
	for _, c := range models.Categories {
		for i, row := range l.Standing(c) {
			if row.TeamKey == l.myTeam.Key {
				r.Positions[c] = i
				sum += i
				break
			}
		}
	}
	r.Composite = float64(sum) / float64(len(models.Categories))

	return r
}

// CompositeRank is Rank().Composite
func (l *League) CompositeRank() float64 {
	return l.Rank().Composite
}

// FreeAgents lists free agents eligible at position
func (l *League) FreeAgents(ctx context.Context, position string) ([]models.PlayerRef, error) {
	if l.pools == nil {
		return nil, nil
	}
	return l.pools.FreeAgents(ctx, position)
}

// Waivers lists players currently on waivers
func (l *League) Waivers(ctx context.Context) ([]models.PlayerRef, error) {
	if l.pools == nil {
		return nil, nil
	}
	return l.pools.Waivers(ctx)
}
