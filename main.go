package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"

	"github.com/Billy-Davies-2/hoops-swap/internal/auth"
	"github.com/Billy-Davies-2/hoops-swap/internal/config"
	"github.com/Billy-Davies-2/hoops-swap/internal/dal"
	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
	"github.com/Billy-Davies-2/hoops-swap/internal/mocks"
	"github.com/Billy-Davies-2/hoops-swap/internal/platform"
	"github.com/Billy-Davies-2/hoops-swap/internal/pubsub"
	"github.com/Billy-Davies-2/hoops-swap/internal/roster"
	"github.com/Billy-Davies-2/hoops-swap/internal/swap"
	"github.com/Billy-Davies-2/hoops-swap/internal/yahoo"
)

// eventUpstream is a pubsub upstream that must be closed after the run
type eventUpstream interface {
	pubsub.Upstream
	Close()
}

// report is what the run prints on stdout
type report struct {
	*swap.Result
	Events []pubsub.Event `json:"events,omitempty"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting hoops-swap", "environment", cfg.Environment, "dry_run", cfg.DryRun)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, os.Stdout)
	stop()

	if err != nil {
		logger.Error("Run failed", "error", err, "authentication", platform.IsAuthentication(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	// Connect to Yahoo, or the seeded league in development
	client, err := newPlatform(ctx, cfg)
	if err != nil {
		return err
	}

	cache, err := newCache(cfg.CacheDriver)
	if err != nil {
		return err
	}
	defer cache.Close()

	upstream, err := newUpstream(cfg)
	if err != nil {
		return err
	}
	defer upstream.Close()

	// Subscribe before the run so the outcome event is not missed
	bus := pubsub.NewWithUpstream(upstream)
	events := bus.Subscribe()

	league, err := roster.Load(ctx, client, roster.LeagueConfig{
		RosterCap:  cfg.RosterCap,
		StatPeriod: cfg.StatPeriod,
		Cache:      cache,
	})
	if err != nil {
		return err
	}

	// Scan and maybe commit
	evaluator := swap.NewEvaluator(league, cfg.NonTradable, swap.NewWaitPolicy(cfg.CandidatePacing, cfg.CandidateDelay))
	selector := swap.NewSelector(league, evaluator, client, bus, swap.SelectorConfig{
		Threshold: cfg.ImprovementThreshold,
		Positions: cfg.Positions,
		DryRun:    cfg.DryRun,
	})

	result, runErr := selector.Run(ctx)
	if result == nil {
		return runErr
	}

	rep := report{Result: result}
	select {
	case ev := <-events:
		rep.Events = append(rep.Events, ev)
	case <-time.After(time.Second):
		logger.Warn("Outcome event not delivered in time")
	}

	// Print the report
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	logger.Info("Run finished", "outcome", result.Outcome, "swaps_found", len(result.Swaps))
	return runErr
}

func newPlatform(ctx context.Context, cfg *config.Config) (platform.Client, error) {
	if cfg.Development() {
		return mocks.NewSeededPlatform(), nil
	}

	// Load credentials and run the console consent flow on first use
	yauth, err := auth.NewYahooAuth(cfg.OAuthFile, oauth2.Endpoint{})
	if err != nil {
		return nil, err
	}
	if yauth.NeedsAuthorization() {
		if err := yauth.Authorize(ctx, os.Stdin, os.Stderr); err != nil {
			return nil, err
		}
	}
	sess, err := yauth.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	return yahoo.NewClient(ctx, sess.Client, yahoo.Config{LeagueKey: cfg.LeagueKey})
}

func newCache(driver string) (dal.StatCache, error) {
	switch driver {
	case "sqlite":
		cache, err := dal.NewSQLiteCache()
		if err != nil {
			return nil, fmt.Errorf("initializing SQLite cache: %w", err)
		}
		logger.Info("Using in-memory SQLite stat cache")
		return cache, nil
	default:
		logger.Info("Using in-memory stat cache")
		return dal.NewMemoryCache(), nil
	}
}

// newUpstream picks where outcome events go: a real NATS server when one is
// configured, an embedded one in development, an in-memory journal otherwise.
func newUpstream(cfg *config.Config) (eventUpstream, error) {
	switch {
	case cfg.NATSURL != "":
		return pubsub.NewNATSPubSub(cfg.NATSURL, cfg.NATSSubject)
	case cfg.Development():
		logger.Info("Starting embedded NATS server for local development")
		return pubsub.NewEmbeddedNATSPubSub(cfg.NATSSubject)
	default:
		return pubsub.NewJournal(0), nil
	}
}
