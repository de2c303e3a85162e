package dal

import "github.com/Billy-Davies-2/hoops-swap/internal/models"

// StatCache maps player id to a normalized stat record for the duration of a run
type StatCache interface {
	Get(playerID string) (*models.StatRecord, bool, error)
	Put(rec *models.StatRecord) error
	Len() (int, error)
	Close() error
}
