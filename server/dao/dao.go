// Package dao provides data access objects for named points and command
// history.
package dao

import (
	"context"
	"time"

	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Points() PointRepository
	History() HistoryRepository
	Close() error
}

// Point is a block position saved under a name.
type Point struct {
	ID       uuid.UUID
	Name     string
	At       geom.Point3
	Created  time.Time
	Modified time.Time
}

// HistoryEntry records one command line that was dispatched.
type HistoryEntry struct {
	ID      uuid.UUID
	Line    string
	Origin  string
	Success bool

	// Message is the failure message shown to players, or "" on success.
	Message string
	Created time.Time
}

type PointRepository interface {
	// Upsert saves p under p.Name, replacing any point already saved under
	// that name. ID, Created, and Modified are filled in by the repository.
	Upsert(ctx context.Context, p Point) (Point, error)
	GetByName(ctx context.Context, name string) (Point, error)

	// GetAll returns every point ordered by name.
	GetAll(ctx context.Context) ([]Point, error)
	Delete(ctx context.Context, name string) (Point, error)
	Close() error
}

type HistoryRepository interface {
	// Create records e. ID and Created are filled in by the repository.
	Create(ctx context.Context, e HistoryEntry) (HistoryEntry, error)

	// GetAll returns every entry, oldest first.
	GetAll(ctx context.Context) ([]HistoryEntry, error)

	// GetRecent returns up to n entries, newest first.
	GetRecent(ctx context.Context, n int) ([]HistoryEntry, error)
	Close() error
}
