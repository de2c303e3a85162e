package roster

import (
	"context"
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/hoops-swap/internal/dal"
	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
	"github.com/Billy-Davies-2/hoops-swap/internal/models"
)

// DefaultRosterCap is the roster size limit used when none is configured
const DefaultRosterCap = 13

// StatFetcher loads a player's raw stat line from the platform
type StatFetcher interface {
	PlayerStats(ctx context.Context, playerID, period string) (models.RawStats, error)
}

// TeamConfig holds what a Team needs to resolve players into stat records
type TeamConfig struct {
	Cap     int
	Period  string
	Cache   dal.StatCache
	Fetcher StatFetcher
}

// Team is one franchise's bounded roster of stat records.
// It is not safe for concurrent use.
type Team struct {
	Key  string
	Name string

	cap     int
	period  string
	cache   dal.StatCache
	fetcher StatFetcher

	roster map[string]*models.StatRecord
	// seq remembers join order, including for dropped players, so a
	// drop followed by a restore leaves Players() unchanged
	seq     map[string]int
	nextSeq int
}

// NewTeam creates an empty team
func NewTeam(ref models.TeamRef, cfg TeamConfig) *Team {
	if cfg.Cap <= 0 {
		cfg.Cap = DefaultRosterCap
	}
	if cfg.Cache == nil {
		cfg.Cache = dal.NewMemoryCache()
	}
	return &Team{
		Key:     ref.Key,
		Name:    ref.Name,
		cap:     cfg.Cap,
		period:  cfg.Period,
		cache:   cfg.Cache,
		fetcher: cfg.Fetcher,
		roster:  make(map[string]*models.StatRecord),
		seq:     make(map[string]int),
	}
}

// Add resolves ref to a stat record (cache first, platform on a miss) and
// puts it on the roster. A full roster or a duplicate leaves the team untouched.
func (t *Team) Add(ctx context.Context, ref models.PlayerRef) error {
	if len(t.roster) >= t.cap {
		return &CapacityError{TeamKey: t.Key, Cap: t.cap}
	}
	if _, ok := t.roster[ref.PlayerID]; ok {
		return &DuplicateError{TeamKey: t.Key, PlayerID: ref.PlayerID}
	}

	rec, err := t.resolve(ctx, ref)
	if err != nil {
		return err
	}

	t.insert(rec)
	return nil
}

// Drop removes a player from the roster. The cache entry is kept.
func (t *Team) Drop(playerID string) error {
	if _, ok := t.roster[playerID]; !ok {
		return &NotFoundError{TeamKey: t.Key, PlayerID: playerID}
	}
	delete(t.roster, playerID)
	return nil
}

// Restore puts a previously dropped record back on the roster as-is,
// without consulting the cache or the platform.
func (t *Team) Restore(rec *models.StatRecord) error {
	if len(t.roster) >= t.cap {
		return &CapacityError{TeamKey: t.Key, Cap: t.cap}
	}
	if _, ok := t.roster[rec.PlayerID]; ok {
		return &DuplicateError{TeamKey: t.Key, PlayerID: rec.PlayerID}
	}
	t.insert(rec)
	return nil
}

// Stat sums a category across the current roster. Values are added in
// ascending order so the total depends only on the set of values, never on
// map iteration or join order.
func (t *Team) Stat(c models.Category) float64 {
	values := make([]float64, 0, len(t.roster))
	for _, rec := range t.roster {
		values = append(values, rec.Value(c))
	}
	sort.Float64s(values)

	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Player returns the rostered record for a player id
func (t *Team) Player(playerID string) (*models.StatRecord, bool) {
	rec, ok := t.roster[playerID]
	return rec, ok
}

// Players returns the roster in join order
func (t *Team) Players() []*models.StatRecord {
	out := make([]*models.StatRecord, 0, len(t.roster))
	for _, rec := range t.roster {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return t.seq[out[i].PlayerID] < t.seq[out[j].PlayerID]
	})
	return out
}

// Size returns the number of rostered players
func (t *Team) Size() int {
	return len(t.roster)
}

// Cap returns the roster limit
func (t *Team) Cap() int {
	return t.cap
}

func (t *Team) insert(rec *models.StatRecord) {
	if _, ok := t.seq[rec.PlayerID]; !ok {
		t.seq[rec.PlayerID] = t.nextSeq
		t.nextSeq++
	}
	t.roster[rec.PlayerID] = rec
}

func (t *Team) resolve(ctx context.Context, ref models.PlayerRef) (*models.StatRecord, error) {
	rec, ok, err := t.cache.Get(ref.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("stat cache lookup for %s: %w", ref.PlayerID, err)
	}
	if ok {
		return rec, nil
	}

	if t.fetcher == nil {
		return nil, fmt.Errorf("no stat source for player %s", ref.PlayerID)
	}

	raw, err := t.fetcher.PlayerStats(ctx, ref.PlayerID, t.period)
	if err != nil {
		return nil, fmt.Errorf("fetching stats for %s: %w", ref.PlayerID, err)
	}

	rec = models.NewStatRecord(raw)
	rec.PlayerID = ref.PlayerID
	if rec.Name == "" {
		rec.Name = ref.Name
	}
	if len(rec.Positions) == 0 {
		rec.Positions = append([]string(nil), ref.Positions...)
	}

	if err := t.cache.Put(rec); err != nil {
		return nil, fmt.Errorf("caching stats for %s: %w", ref.PlayerID, err)
	}
	logger.Debug("Fetched player stats", "team", t.Key, "player_id", rec.PlayerID, "name", rec.Name)

	return rec, nil
}
