// Package inmem has repositories that keep everything in memory and lose it
// when the process exits.
package inmem

import (
	"errors"
	"fmt"

	"github.com/dekarrin/cmdblock/server/dao"
)

type store struct {
	points  *PointsRepository
	history *HistoryRepository
}

func NewDatastore() dao.Store {
	return &store{
		points:  NewPointsRepository(),
		history: NewHistoryRepository(),
	}
}

func (s *store) Points() dao.PointRepository {
	return s.points
}

func (s *store) History() dao.HistoryRepository {
	return s.history
}

func (s *store) Close() error {
	var errs []error

	if err := s.points.Close(); err != nil {
		errs = append(errs, fmt.Errorf("points: %w", err))
	}
	if err := s.history.Close(); err != nil {
		errs = append(errs, fmt.Errorf("history: %w", err))
	}

	return errors.Join(errs...)
}
