package swap

import (
	"context"
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
	"github.com/Billy-Davies-2/hoops-swap/internal/models"
	"github.com/Billy-Davies-2/hoops-swap/internal/pubsub"
	"github.com/Billy-Davies-2/hoops-swap/internal/roster"
)

// DefaultThreshold is the minimum composite improvement worth a transaction
const DefaultThreshold = 0.7

// DefaultPositions are the free-agent pools scanned after the waiver wire
var DefaultPositions = []string{"PG", "SG", "SF", "PF", "C"}

// Outcome describes what the selector did with the best swap
type Outcome string

const (
	OutcomeCommitted               Outcome = "committed"
	OutcomeInsufficientImprovement Outcome = "insufficient_improvement"
	OutcomeNoImprovement           Outcome = "no_improvement"
	OutcomeDryRun                  Outcome = "dry_run"
	OutcomeFailed                  Outcome = "failed"
)

// Scanner finds improving swaps among candidates. *Evaluator implements it.
type Scanner interface {
	Evaluate(ctx context.Context, candidates []models.PlayerRef, position string) ([]models.Swap, error)
}

// Committer pushes the chosen swap to the platform
type Committer interface {
	CommitAddDrop(ctx context.Context, teamKey, inPlayerID, outPlayerID string) error
}

// Publisher receives the run's outcome event
type Publisher interface {
	Publish(pubsub.Event)
}

// SelectorConfig holds the selection policy
type SelectorConfig struct {
	Threshold float64
	Positions []string
	DryRun    bool
}

// Result is the outcome of one scan-and-commit run
type Result struct {
	TeamKey   string         `json:"teamKey"`
	TeamName  string         `json:"teamName,omitempty"`
	Before    models.Ranking `json:"before"`
	After     models.Ranking `json:"after"`
	Threshold float64        `json:"threshold"`
	// Swaps holds every improving swap found, best first
	Swaps    []models.Swap `json:"swaps"`
	Selected *models.Swap  `json:"selected,omitempty"`
	Outcome  Outcome       `json:"outcome"`
}

// Selector scans the waiver wire and free-agent pools and commits the best swap
// when it clears the threshold.
type Selector struct {
	league    *roster.League
	scanner   Scanner
	committer Committer
	publisher Publisher
	cfg       SelectorConfig
}

// NewSelector wires a selector. publisher may be nil.
func NewSelector(league *roster.League, scanner Scanner, committer Committer, publisher Publisher, cfg SelectorConfig) *Selector {
	if cfg.Positions == nil {
		cfg.Positions = DefaultPositions
	}
	return &Selector{
		league:    league,
		scanner:   scanner,
		committer: committer,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Run scans every pool, picks the largest delta (first seen wins ties) and
// commits it if it beats the threshold. A failed commit is returned, not retried.
func (s *Selector) Run(ctx context.Context) (*Result, error) {
	my := s.league.MyTeam()
	result := &Result{
		TeamKey:   my.Key,
		TeamName:  my.Name,
		Before:    s.league.Rank(),
		Threshold: s.cfg.Threshold,
	}

	swaps, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	var best *models.Swap
	for i := range swaps {
		if best == nil || swaps[i].Delta > best.Delta {
			best = &swaps[i]
		}
	}

	result.Swaps = append([]models.Swap(nil), swaps...)
	sort.SliceStable(result.Swaps, func(i, j int) bool {
		return result.Swaps[i].Delta > result.Swaps[j].Delta
	})

	switch {
	case best == nil:
		result.Outcome = OutcomeNoImprovement
		logger.Info("No improving swap found", "team", my.Key)
		s.publish(pubsub.NewSwapEvent(pubsub.EventSwapSkipped, my.Key, nil, string(result.Outcome)))

	case best.Delta <= s.cfg.Threshold:
		result.Selected = best
		result.Outcome = OutcomeInsufficientImprovement
		logger.Info("Best swap below threshold", "in", best.In.Name, "out", best.OutName, "delta", best.Delta, "threshold", s.cfg.Threshold)
		s.publish(pubsub.NewSwapEvent(pubsub.EventSwapSkipped, my.Key, best, string(result.Outcome)))

	case s.cfg.DryRun:
		result.Selected = best
		result.Outcome = OutcomeDryRun
		logger.Info("Dry run, not committing swap", "in", best.In.Name, "out", best.OutName, "delta", best.Delta)
		s.publish(pubsub.NewSwapEvent(pubsub.EventSwapRecommended, my.Key, best, ""))

	default:
		result.Selected = best
		if err := s.commit(ctx, my, best); err != nil {
			result.Outcome = OutcomeFailed
			result.After = s.league.Rank()
			s.publish(pubsub.NewSwapEvent(pubsub.EventSwapFailed, my.Key, best, err.Error()))
			return result, err
		}
		result.Outcome = OutcomeCommitted
		s.publish(pubsub.NewSwapEvent(pubsub.EventSwapCommitted, my.Key, best, ""))
	}

	result.After = s.league.Rank()
	return result, nil
}

func (s *Selector) scan(ctx context.Context) ([]models.Swap, error) {
	waivers, err := s.league.Waivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing waivers: %w", err)
	}
	logger.Info("Scanning waiver wire", "candidates", len(waivers))

	swaps, err := s.scanner.Evaluate(ctx, waivers, "")
	if err != nil {
		return nil, fmt.Errorf("evaluating waivers: %w", err)
	}

	for _, pos := range s.cfg.Positions {
		agents, err := s.league.FreeAgents(ctx, pos)
		if err != nil {
			return nil, fmt.Errorf("listing %s free agents: %w", pos, err)
		}
		logger.Info("Scanning free agents", "position", pos, "candidates", len(agents))

		found, err := s.scanner.Evaluate(ctx, agents, pos)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s free agents: %w", pos, err)
		}
		swaps = append(swaps, found...)
	}

	return swaps, nil
}

// commit sends the add/drop once and mirrors it on the local roster
func (s *Selector) commit(ctx context.Context, my *roster.Team, best *models.Swap) error {
	logger.Info("Committing swap", "team", my.Key, "in", best.In.Name, "out", best.OutName, "delta", best.Delta)

	if err := s.committer.CommitAddDrop(ctx, my.Key, best.In.PlayerID, best.OutID); err != nil {
		logger.Error("Commit failed", "team", my.Key, "in", best.In.PlayerID, "out", best.OutID, "error", err)
		return fmt.Errorf("committing add %s / drop %s: %w", best.In.PlayerID, best.OutID, err)
	}

	// the platform already accepted the move; a local mismatch only affects the report
	if err := my.Drop(best.OutID); err != nil {
		logger.Warn("Could not apply committed drop locally", "player_id", best.OutID, "error", err)
		return nil
	}
	if err := my.Add(ctx, best.In); err != nil {
		logger.Warn("Could not apply committed add locally", "player_id", best.In.PlayerID, "error", err)
	}
	return nil
}

func (s *Selector) publish(ev pubsub.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ev)
}
