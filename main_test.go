package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/Billy-Davies-2/hoops-swap/internal/config"
	"github.com/Billy-Davies-2/hoops-swap/internal/swap"
)

type testReport struct {
	TeamKey string            `json:"teamKey"`
	Outcome string            `json:"outcome"`
	Before  testRanking       `json:"before"`
	Swaps   []json.RawMessage `json:"swaps"`
	Events  []testEvent       `json:"events"`
}

type testRanking struct {
	Positions map[string]int `json:"positions"`
	Composite float64        `json:"composite"`
}

type testEvent struct {
	Type string `json:"type"`
}

func devConfig(cacheDriver string, dryRun bool) *config.Config {
	return &config.Config{
		Environment:          "development",
		RosterCap:            13,
		ImprovementThreshold: swap.DefaultThreshold,
		StatPeriod:           "lastmonth",
		Positions:            swap.DefaultPositions,
		CacheDriver:          cacheDriver,
		NATSSubject:          "swap.events",
		DryRun:               dryRun,
	}
}

func TestRunDevelopmentReport(t *testing.T) {
	for _, driver := range []string{"memory", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(context.Background(), devConfig(driver, true), &out); err != nil {
				t.Fatalf("run() failed: %v", err)
			}

			var rep testReport
			if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
				t.Fatalf("report is not JSON: %v\n%s", err, out.String())
			}

			if rep.TeamKey != "428.l.1.t.1" {
				t.Errorf("teamKey = %q", rep.TeamKey)
			}
			if len(rep.Before.Positions) != 9 {
				t.Errorf("expected 9 category positions, got %d", len(rep.Before.Positions))
			}
			switch swap.Outcome(rep.Outcome) {
			case swap.OutcomeDryRun, swap.OutcomeInsufficientImprovement, swap.OutcomeNoImprovement:
			default:
				t.Errorf("unexpected dry-run outcome %q", rep.Outcome)
			}
			if len(rep.Events) != 1 {
				t.Errorf("expected one outcome event, got %d", len(rep.Events))
			}
		})
	}
}

func TestRunRejectsUnknownCredentialsFile(t *testing.T) {
	cfg := devConfig("memory", true)
	cfg.Environment = "production"
	cfg.OAuthFile = t.TempDir() + "/missing.json"

	if err := run(context.Background(), cfg, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing credentials file")
	}
}
