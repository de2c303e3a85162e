package roster

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/Billy-Davies-2/hoops-swap/internal/dal"
	"github.com/Billy-Davies-2/hoops-swap/internal/mocks"
	"github.com/Billy-Davies-2/hoops-swap/internal/models"
	"github.com/Billy-Davies-2/hoops-swap/internal/platform"
)

// uniformLeague loads one single-player team per value; every category of
// team i equals values[i]. The first team is mine.
func uniformLeague(t *testing.T, values ...float64) *League {
	t.Helper()

	p := mocks.NewPlatform()
	for i, v := range values {
		key := string(rune('a' + i))
		p.AddTeam(models.TeamRef{Key: key}, i == 0, statLine("p"+key, []string{"G"}, v))
	}

	league, err := Load(context.Background(), p, LeagueConfig{})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return league
}

func keys(rows []models.TeamValue) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.TeamKey
	}
	return out
}

func TestStandingOrientation(t *testing.T) {
	league := uniformLeague(t, 5, 9, 1)

	tests := []struct {
		category models.Category
		want     []string
	}{
		{models.Points, []string{"b", "a", "c"}},
		{models.FieldGoalPct, []string{"b", "a", "c"}},
		{models.Blocks, []string{"b", "a", "c"}},
		{models.Turnovers, []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := keys(league.Standing(tt.category))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Standing(%s) = %v, want %v", tt.category, got, tt.want)
				}
			}
		})
	}
}

func TestStandingTiesKeepLeagueOrder(t *testing.T) {
	league := uniformLeague(t, 3, 7, 3, 3)

	got := keys(league.Standing(models.Rebounds))
	want := []string{"b", "a", "c", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Standing(reb) = %v, want %v", got, want)
		}
	}

	got = keys(league.Standing(models.Turnovers))
	want = []string{"a", "c", "d", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Standing(to) = %v, want %v", got, want)
		}
	}
}

func TestRankCompositeIsMean(t *testing.T) {
	// my team is second in eight categories and first in turnovers
	league := uniformLeague(t, 5, 9, 1)

	r := league.Rank()
	if len(r.Positions) != len(models.Categories) {
		t.Fatalf("expected %d positions, got %d", len(models.Categories), len(r.Positions))
	}

	sum := 0
	for _, c := range models.Categories {
		sum += r.Positions[c]
	}
	want := float64(sum) / 9
	if math.Abs(r.Composite-want) > 1e-12 {
		t.Errorf("Composite = %v, want %v", r.Composite, want)
	}
	if r.Positions[models.Points] != 1 || r.Positions[models.Turnovers] != 1 {
		t.Errorf("positions = %v", r.Positions)
	}
	if league.CompositeRank() != r.Composite {
		t.Error("CompositeRank() disagrees with Rank()")
	}
}

func TestRankReflectsCurrentRoster(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPlatform()
	p.AddTeam(models.TeamRef{Key: "mine"}, true, statLine("m1", []string{"C"}, 1))
	p.AddTeam(models.TeamRef{Key: "them"}, false, statLine("o1", []string{"C"}, 5))
	star := p.AddFreeAgent("", statLine("fa", []string{"C"}, 10), "C")

	league, err := Load(ctx, p, LeagueConfig{})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	before := league.CompositeRank()

	mine := league.MyTeam()
	if err := mine.Drop("m1"); err != nil {
		t.Fatal(err)
	}
	if err := mine.Add(ctx, star); err != nil {
		t.Fatal(err)
	}

	if after := league.CompositeRank(); after >= before {
		t.Errorf("composite did not improve: before %v, after %v", before, after)
	}
}

func TestLoadSharesCache(t *testing.T) {
	cache := dal.NewMemoryCache()
	league, err := Load(context.Background(), mocks.NewSeededPlatform(), LeagueConfig{
		RosterCap:  DefaultRosterCap,
		StatPeriod: platform.StatPeriodLastMonth,
		Cache:      cache,
	})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(league.Teams()) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(league.Teams()))
	}
	if league.MyTeam().Key != "428.l.1.t.1" {
		t.Errorf("MyTeam() = %s", league.MyTeam().Key)
	}
	if n, _ := cache.Len(); n != 15 {
		t.Errorf("cache holds %d records, want 15", n)
	}
	if _, ok := league.Team("428.l.1.t.2"); !ok {
		t.Error("Team() lookup failed")
	}

	fas, err := league.FreeAgents(context.Background(), "C")
	if err != nil || len(fas) != 1 {
		t.Errorf("FreeAgents(C) = (%v, %v)", fas, err)
	}
}

func TestNewLeagueValidation(t *testing.T) {
	a := NewTeam(models.TeamRef{Key: "a"}, TeamConfig{})
	b := NewTeam(models.TeamRef{Key: "b"}, TeamConfig{})

	if _, err := NewLeague([]*Team{a, b}, "z", nil); err == nil {
		t.Error("expected error when my team is missing")
	}
	if _, err := NewLeague([]*Team{a, a}, "a", nil); err == nil {
		t.Error("expected error for duplicate team keys")
	}

	league, err := NewLeague([]*Team{a, b}, "b", nil)
	if err != nil {
		t.Fatalf("NewLeague() failed: %v", err)
	}
	if w, err := league.Waivers(context.Background()); err != nil || len(w) != 0 {
		t.Errorf("Waivers() without pools = (%v, %v)", w, err)
	}
}

// shootingPcts are percentage-like values whose float sum depends on the order
// they are added in
var shootingPcts = []float64{0.471, 0.512, 0.448, 0.503, 0.389, 0.467, 0.455, 0.521, 0.430, 0.498, 0.476, 0.444, 0.611}

func TestStatIgnoresJoinOrder(t *testing.T) {
	p := mocks.NewPlatform()
	var forward, backward []models.RawStats
	for i, v := range shootingPcts {
		forward = append(forward, statLine(fmt.Sprintf("f%d", i), []string{"G"}, v))
		backward = append([]models.RawStats{statLine(fmt.Sprintf("b%d", i), []string{"G"}, v)}, backward...)
	}
	// the rival is listed first, so a tie puts my team second everywhere
	p.AddTeam(models.TeamRef{Key: "rival"}, false, backward...)
	p.AddTeam(models.TeamRef{Key: "mine"}, true, forward...)

	league, err := Load(context.Background(), p, LeagueConfig{})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	rival, _ := league.Team("rival")
	mine := league.MyTeam()

	want := mine.Stat(models.FieldGoalPct)
	for i := 0; i < 500; i++ {
		if got := mine.Stat(models.FieldGoalPct); got != want {
			t.Fatalf("call %d: Stat(FG%%) = %v, want %v", i, got, want)
		}
		if got := rival.Stat(models.FieldGoalPct); got != want {
			t.Fatalf("call %d: rival Stat(FG%%) = %v, want %v", i, got, want)
		}
		if pos := league.Rank().Positions[models.FieldGoalPct]; pos != 1 {
			t.Fatalf("call %d: FG%% position = %d, want 1 (tie keeps league order)", i, pos)
		}
	}
}

func TestAddThenDropRestoresFractionalStats(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPlatform()
	team := newTestTeam(p, DefaultRosterCap)
	for i, v := range shootingPcts[:12] {
		if err := team.Add(ctx, p.AddFreeAgent("", statLine(fmt.Sprintf("p%d", i), []string{"G"}, v))); err != nil {
			t.Fatalf("Add(%d) failed: %v", i, err)
		}
	}
	before := snapshot(team)

	extra := p.AddFreeAgent("", statLine("extra", []string{"C"}, shootingPcts[12]))
	for i := 0; i < 50; i++ {
		if err := team.Add(ctx, extra); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
		if err := team.Drop(extra.PlayerID); err != nil {
			t.Fatalf("Drop() failed: %v", err)
		}
		after := snapshot(team)
		for _, c := range models.Categories {
			if after[c] != before[c] {
				t.Fatalf("round %d: %s = %v, want %v", i, c, after[c], before[c])
			}
		}
	}
}

func TestLoadRosterOverCap(t *testing.T) {
	p := mocks.NewPlatform()
	var players []models.RawStats
	for i := 0; i < DefaultRosterCap+2; i++ {
		players = append(players, statLine(fmt.Sprintf("il%d", i), []string{"G"}, 1))
	}
	p.AddTeam(models.TeamRef{Key: "injured"}, true, players...)

	_, err := Load(context.Background(), p, LeagueConfig{RosterCap: DefaultRosterCap})

	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.TeamKey != "injured" || capErr.Cap != DefaultRosterCap {
		t.Errorf("CapacityError = %+v", capErr)
	}
	if !strings.Contains(err.Error(), "ROSTER_CAP to at least 15") {
		t.Errorf("error should name the cap to configure: %v", err)
	}
	if got := p.StatCalls("il0"); got != 0 {
		t.Errorf("oversized roster fetched stats %d times, want 0", got)
	}

	if _, err := Load(context.Background(), p, LeagueConfig{RosterCap: DefaultRosterCap + 2}); err != nil {
		t.Errorf("Load() with a raised cap failed: %v", err)
	}
}

func TestTeamCapDefaults(t *testing.T) {
	if got := NewTeam(models.TeamRef{Key: "a"}, TeamConfig{}).Cap(); got != DefaultRosterCap {
		t.Errorf("Cap() = %d, want %d", got, DefaultRosterCap)
	}
	if got := NewTeam(models.TeamRef{Key: "a"}, TeamConfig{Cap: 15}).Cap(); got != 15 {
		t.Errorf("Cap() = %d, want 15", got)
	}
}
