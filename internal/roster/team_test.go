package roster

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Billy-Davies-2/hoops-swap/internal/dal"
	"github.com/Billy-Davies-2/hoops-swap/internal/mocks"
	"github.com/Billy-Davies-2/hoops-swap/internal/models"
)

func newTestTeam(p *mocks.Platform, rosterCap int) *Team {
	return NewTeam(models.TeamRef{Key: "t1", Name: "Test Team"}, TeamConfig{
		Cap:     rosterCap,
		Cache:   dal.NewMemoryCache(),
		Fetcher: p,
	})
}

func statLine(id string, positions []string, v float64) models.RawStats {
	return mocks.Stats(id, "Player "+id, positions, v, v, v, v, v, v, v, v, v)
}

func snapshot(t *Team) map[models.Category]float64 {
	out := make(map[models.Category]float64, len(models.Categories))
	for _, c := range models.Categories {
		out[c] = t.Stat(c)
	}
	return out
}

func TestTeamAddThenDropRestoresStats(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPlatform()
	base := p.AddFreeAgent("", statLine("1", []string{"PG"}, 10))
	extra := p.AddFreeAgent("", statLine("2", []string{"C"}, 3.5))

	team := newTestTeam(p, DefaultRosterCap)
	if err := team.Add(ctx, base); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	before := snapshot(team)

	if err := team.Add(ctx, extra); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if team.Stat(models.Points) != 13.5 {
		t.Errorf("Stat(pts) = %v, want 13.5", team.Stat(models.Points))
	}
	if err := team.Drop(extra.PlayerID); err != nil {
		t.Fatalf("Drop() failed: %v", err)
	}

	after := snapshot(team)
	for _, c := range models.Categories {
		if before[c] != after[c] {
			t.Errorf("%s = %v after add/drop, want %v", c, after[c], before[c])
		}
	}
	if team.Size() != 1 {
		t.Errorf("Size() = %d, want 1", team.Size())
	}
	if _, ok := team.Player(extra.PlayerID); ok {
		t.Error("dropped player still on roster")
	}
}

func TestTeamAddAtCapacity(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPlatform()
	team := newTestTeam(p, DefaultRosterCap)

	for i := 0; i < DefaultRosterCap; i++ {
		ref := p.AddFreeAgent("", statLine(fmt.Sprintf("%d", 100+i), []string{"G"}, 1))
		if err := team.Add(ctx, ref); err != nil {
			t.Fatalf("Add(%d) failed: %v", i, err)
		}
	}
	before := team.Players()

	extra := p.AddFreeAgent("", statLine("999", []string{"C"}, 50))
	err := team.Add(ctx, extra)

	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.Cap != DefaultRosterCap {
		t.Errorf("CapacityError.Cap = %d, want %d", capErr.Cap, DefaultRosterCap)
	}

	after := team.Players()
	if len(after) != len(before) {
		t.Fatalf("roster size changed from %d to %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("roster entry %d changed", i)
		}
	}
	if p.StatCalls("999") != 0 {
		t.Error("full roster should not fetch the candidate's stats")
	}
}

func TestTeamAddDuplicate(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPlatform()
	ref := p.AddFreeAgent("", statLine("1", []string{"PG"}, 1))
	team := newTestTeam(p, DefaultRosterCap)

	if err := team.Add(ctx, ref); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	var dupErr *DuplicateError
	if err := team.Add(ctx, ref); !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if team.Size() != 1 {
		t.Errorf("Size() = %d, want 1", team.Size())
	}
}

func TestTeamDropNotFound(t *testing.T) {
	team := newTestTeam(mocks.NewPlatform(), DefaultRosterCap)

	var nfErr *NotFoundError
	if err := team.Drop("nope"); !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nfErr.PlayerID != "nope" {
		t.Errorf("NotFoundError.PlayerID = %q", nfErr.PlayerID)
	}
}

func TestTeamAddReusesCache(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPlatform()
	ref := p.AddFreeAgent("", statLine("1", []string{"PG"}, 1))
	team := newTestTeam(p, DefaultRosterCap)

	for i := 0; i < 3; i++ {
		if err := team.Add(ctx, ref); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
		if err := team.Drop(ref.PlayerID); err != nil {
			t.Fatalf("Drop() failed: %v", err)
		}
	}

	if got := p.StatCalls(ref.PlayerID); got != 1 {
		t.Errorf("PlayerStats called %d times, want 1", got)
	}
}

func TestTeamAddFetchError(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPlatform()
	ref := p.AddFreeAgent("", statLine("1", []string{"PG"}, 1))
	p.StatsErr[ref.PlayerID] = errors.New("throttled")
	team := newTestTeam(p, DefaultRosterCap)

	if err := team.Add(ctx, ref); err == nil {
		t.Fatal("expected fetch error")
	}
	if team.Size() != 0 {
		t.Errorf("Size() = %d after failed add, want 0", team.Size())
	}
}

func TestTeamRestoreKeepsIdentityAndOrder(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPlatform()
	team := newTestTeam(p, DefaultRosterCap)
	for _, id := range []string{"1", "2", "3"} {
		if err := team.Add(ctx, p.AddFreeAgent("", statLine(id, []string{"G"}, 1))); err != nil {
			t.Fatalf("Add(%s) failed: %v", id, err)
		}
	}
	before := team.Players()

	rec, _ := team.Player("2")
	if err := team.Drop("2"); err != nil {
		t.Fatalf("Drop() failed: %v", err)
	}
	if err := team.Restore(rec); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	after := team.Players()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("entry %d: got %s, want %s (same object)", i, after[i].PlayerID, before[i].PlayerID)
		}
	}
	if p.StatCalls("2") != 1 {
		t.Error("Restore must not refetch")
	}
}

func TestTeamFillsIdentityFromRef(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPlatform()
	p.AddFreeAgent("", models.RawStats{"player_id": "7", "PTS": "12"})
	team := newTestTeam(p, DefaultRosterCap)

	err := team.Add(ctx, models.PlayerRef{PlayerID: "7", Name: "Listed Name", Positions: []string{"SF"}})
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	rec, _ := team.Player("7")
	if rec.Name != "Listed Name" || !rec.EligibleAt("SF") {
		t.Errorf("record identity = %+v", rec)
	}
	if rec.PTS != 12 {
		t.Errorf("PTS = %v, want 12", rec.PTS)
	}
}
