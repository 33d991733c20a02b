// Package sqlite has repositories backed by an SQLite database file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/cmdblock/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB

	points  *PointsDB
	history *HistoryDB
}

// NewDatastore opens (creating if needed) the database in storageDir.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "cmdblock.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.points = &PointsDB{db: st.db}
	if err := st.points.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("points: %w", err)
	}

	st.history = &HistoryDB{db: st.db}
	if err := st.history.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("history: %w", err)
	}

	return st, nil
}

func (s *store) Points() dao.PointRepository {
	return s.points
}

func (s *store) History() dao.HistoryRepository {
	return s.history
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
