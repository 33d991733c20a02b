package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/google/uuid"
)

type HistoryDB struct {
	db *sql.DB
}

func (repo *HistoryDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		line TEXT NOT NULL,
		origin TEXT NOT NULL,
		success INTEGER NOT NULL,
		message TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *HistoryDB) Create(ctx context.Context, e dao.HistoryEntry) (dao.HistoryEntry, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.HistoryEntry{}, fmt.Errorf("could not generate ID: %w", err)
	}
	e.ID = newUUID
	e.Created = time.Now()

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO history (id, line, origin, success, message, created) VALUES (?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(e.ID),
		e.Line,
		e.Origin,
		convertToDB_Bool(e.Success),
		e.Message,
		convertToDB_Time(e.Created),
	)
	if err != nil {
		return dao.HistoryEntry{}, wrapDBError(err)
	}

	// round-trip the timestamp so callers see what was stored
	convertFromDB_Time(convertToDB_Time(e.Created), &e.Created)
	return e, nil
}

func (repo *HistoryDB) GetAll(ctx context.Context) ([]dao.HistoryEntry, error) {
	return repo.query(ctx, `SELECT id, line, origin, success, message, created FROM history ORDER BY seq ASC;`)
}

func (repo *HistoryDB) GetRecent(ctx context.Context, n int) ([]dao.HistoryEntry, error) {
	if n < 0 {
		n = 0
	}
	return repo.query(ctx, `SELECT id, line, origin, success, message, created FROM history ORDER BY seq DESC LIMIT ?;`, n)
}

func (repo *HistoryDB) query(ctx context.Context, q string, args ...any) ([]dao.HistoryEntry, error) {
	rows, err := repo.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.HistoryEntry
	for rows.Next() {
		var e dao.HistoryEntry
		var id string
		var success int
		var created int64
		err = rows.Scan(&id, &e.Line, &e.Origin, &success, &e.Message, &created)
		if err != nil {
			return all, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &e.ID); err != nil {
			return all, fmt.Errorf("%w: stored ID %q is invalid: %v", dao.ErrCorrupt, id, err)
		}
		e.Success = success != 0
		convertFromDB_Time(created, &e.Created)

		all = append(all, e)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *HistoryDB) Close() error {
	return nil
}
