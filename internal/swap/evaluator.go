// Package swap simulates add/drop moves against the league standings and
// picks the one worth committing.
package swap

import (
	"context"
	"fmt"

	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
	"github.com/Billy-Davies-2/hoops-swap/internal/models"
	"github.com/Billy-Davies-2/hoops-swap/internal/roster"
)

// Evaluator tries every candidate against every tradable player on my team
// and reports the swaps that lower my composite rank.
type Evaluator struct {
	league      *roster.League
	nonTradable map[string]bool
	wait        WaitPolicy
}

// NewEvaluator creates an evaluator. A nil wait policy means NoWait.
func NewEvaluator(league *roster.League, nonTradable []string, wait WaitPolicy) *Evaluator {
	if wait == nil {
		wait = NoWait{}
	}
	protected := make(map[string]bool, len(nonTradable))
	for _, id := range nonTradable {
		protected[id] = true
	}
	return &Evaluator{
		league:      league,
		nonTradable: protected,
		wait:        wait,
	}
}

// Evaluate scans candidates, optionally restricted to rostered players eligible
// at position, and returns every improving swap in scan order. My roster is
// back to its original records when Evaluate returns, error or not.
func (e *Evaluator) Evaluate(ctx context.Context, candidates []models.PlayerRef, position string) ([]models.Swap, error) {
	my := e.league.MyTeam()
	var found []models.Swap

	for _, cand := range candidates {
		if !cand.Available() {
			logger.Debug("Skipping unavailable candidate", "player_id", cand.PlayerID, "name", cand.Name, "status", cand.Status)
			continue
		}
		if _, rostered := my.Player(cand.PlayerID); rostered {
			continue
		}

		baseline := e.league.CompositeRank()
		for _, out := range my.Players() {
			if !e.eligible(cand, out, position) {
				continue
			}

			delta, err := e.simulate(ctx, my, cand, out, baseline)
			if err != nil {
				return nil, err
			}
			logger.Debug("Evaluated swap", "in", cand.Name, "out", out.Name, "pool", position, "delta", delta)

			if delta > 0 {
				swap := models.Swap{
					In:      cand,
					OutID:   out.PlayerID,
					OutName: out.Name,
					Pool:    position,
					Delta:   delta,
				}
				logger.Info("Found improving swap", "in", cand.Name, "out", out.Name, "pool", position, "delta", delta)
				found = append(found, swap)
			}
		}

		if err := e.wait.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return found, nil
}

func (e *Evaluator) eligible(cand models.PlayerRef, out *models.StatRecord, position string) bool {
	if e.nonTradable[out.PlayerID] {
		return false
	}
	if position == "" {
		return models.CommonPositions(cand.Positions, out.Positions) < 2
	}
	return out.EligibleAt(position)
}

// simulate swaps out for cand, measures the composite change and puts the
// exact original record back, even when the add fails or panics.
func (e *Evaluator) simulate(ctx context.Context, team *roster.Team, cand models.PlayerRef, out *models.StatRecord, baseline float64) (delta float64, err error) {
	if err := team.Drop(out.PlayerID); err != nil {
		return 0, err
	}

	added := false
	defer func() {
		if added {
			if dropErr := team.Drop(cand.PlayerID); dropErr != nil && err == nil {
				err = dropErr
			}
		}
		if restoreErr := team.Restore(out); restoreErr != nil && err == nil {
			err = restoreErr
		}
	}()

	if err := team.Add(ctx, cand); err != nil {
		return 0, fmt.Errorf("simulating %s for %s: %w", cand.PlayerID, out.PlayerID, err)
	}
	added = true

	return baseline - e.league.CompositeRank(), nil
}
