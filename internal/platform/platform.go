// Package platform describes the fantasy-sports platform the swap engine talks to.
// Implementations bind an authenticated session at construction time.
package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/Billy-Davies-2/hoops-swap/internal/models"
)

// StatPeriodLastMonth is the trailing window used for player stats
const StatPeriodLastMonth = "lastmonth"

// Client is the query/command surface consumed by the league and the swap engine
type Client interface {
	Teams(ctx context.Context) ([]models.TeamRef, error)
	MyTeamKey(ctx context.Context) (string, error)
	Roster(ctx context.Context, teamKey string) ([]models.PlayerRef, error)
	PlayerStats(ctx context.Context, playerID, period string) (models.RawStats, error)
	FreeAgents(ctx context.Context, position string) ([]models.PlayerRef, error)
	Waivers(ctx context.Context) ([]models.PlayerRef, error)
	CommitAddDrop(ctx context.Context, teamKey, inPlayerID, outPlayerID string) error
}

// AuthenticationError means the session is invalid or expired. It cannot be
// fixed locally and is surfaced to the caller.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// TransientNetworkError wraps any other failed external call. The core never
// retries these; the run aborts.
type TransientNetworkError struct {
	Op  string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Err
}

// IsAuthentication reports whether err is or wraps an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
