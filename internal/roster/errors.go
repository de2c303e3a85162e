package roster

import "fmt"

// CapacityError is returned by Add when the roster is already at its cap
type CapacityError struct {
	TeamKey string
	Cap     int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("team %s: roster is full (%d players)", e.TeamKey, e.Cap)
}

// NotFoundError is returned by Drop when the player is not on the roster
type NotFoundError struct {
	TeamKey  string
	PlayerID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("team %s: player %s not on roster", e.TeamKey, e.PlayerID)
}

// DuplicateError is returned by Add when the player is already on the roster
type DuplicateError struct {
	TeamKey  string
	PlayerID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("team %s: player %s already on roster", e.TeamKey, e.PlayerID)
}
