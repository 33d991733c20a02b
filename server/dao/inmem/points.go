package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/google/uuid"
)

func NewPointsRepository() *PointsRepository {
	return &PointsRepository{
		points: make(map[string]dao.Point),
	}
}

type PointsRepository struct {
	mtx    sync.RWMutex
	points map[string]dao.Point
}

func (repo *PointsRepository) Close() error {
	return nil
}

func (repo *PointsRepository) Upsert(ctx context.Context, p dao.Point) (dao.Point, error) {
	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	now := time.Now()
	if existing, ok := repo.points[p.Name]; ok {
		p.ID = existing.ID
		p.Created = existing.Created
	} else {
		newUUID, err := uuid.NewRandom()
		if err != nil {
			return dao.Point{}, fmt.Errorf("could not generate ID: %w", err)
		}
		p.ID = newUUID
		p.Created = now
	}
	p.Modified = now

	repo.points[p.Name] = p
	return p, nil
}

func (repo *PointsRepository) GetByName(ctx context.Context, name string) (dao.Point, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	p, ok := repo.points[name]
	if !ok {
		return dao.Point{}, dao.ErrNotFound
	}
	return p, nil
}

func (repo *PointsRepository) GetAll(ctx context.Context) ([]dao.Point, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	all := make([]dao.Point, 0, len(repo.points))
	for _, p := range repo.points {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})

	return all, nil
}

func (repo *PointsRepository) Delete(ctx context.Context, name string) (dao.Point, error) {
	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	p, ok := repo.points[name]
	if !ok {
		return dao.Point{}, dao.ErrNotFound
	}
	delete(repo.points, name)
	return p, nil
}
