package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/google/uuid"
)

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

type HistoryRepository struct {
	mtx     sync.RWMutex
	entries []dao.HistoryEntry
}

func (repo *HistoryRepository) Close() error {
	return nil
}

func (repo *HistoryRepository) Create(ctx context.Context, e dao.HistoryEntry) (dao.HistoryEntry, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.HistoryEntry{}, fmt.Errorf("could not generate ID: %w", err)
	}
	e.ID = newUUID
	e.Created = time.Now()

	repo.mtx.Lock()
	defer repo.mtx.Unlock()
	repo.entries = append(repo.entries, e)

	return e, nil
}

func (repo *HistoryRepository) GetAll(ctx context.Context) ([]dao.HistoryEntry, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	all := make([]dao.HistoryEntry, len(repo.entries))
	copy(all, repo.entries)
	return all, nil
}

func (repo *HistoryRepository) GetRecent(ctx context.Context, n int) ([]dao.HistoryEntry, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	if n > len(repo.entries) {
		n = len(repo.entries)
	}
	if n < 0 {
		n = 0
	}

	recent := make([]dao.HistoryEntry, 0, n)
	for i := len(repo.entries) - 1; i >= len(repo.entries)-n; i-- {
		recent = append(recent, repo.entries[i])
	}
	return recent, nil
}
