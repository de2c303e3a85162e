package dal

import (
	"fmt"
	"sync"

	"github.com/Billy-Davies-2/hoops-swap/internal/models"
)

// MemoryCache implements StatCache with a map. Get returns the exact record
// that was stored, so repeated adds of the same player share one object.
type MemoryCache struct {
	mu      sync.RWMutex
	records map[string]*models.StatRecord
}

// NewMemoryCache creates an empty in-memory stat cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		records: make(map[string]*models.StatRecord),
	}
}

func (m *MemoryCache) Get(playerID string) (*models.StatRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[playerID]
	return rec, ok, nil
}

func (m *MemoryCache) Put(rec *models.StatRecord) error {
	if rec == nil || rec.PlayerID == "" {
		return fmt.Errorf("stat record without player id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.PlayerID] = rec
	return nil
}

func (m *MemoryCache) Len() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

func (m *MemoryCache) Close() error {
	return nil
}
