package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/google/uuid"
)

type PointsDB struct {
	db *sql.DB
}

func (repo *PointsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS points (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		pos TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *PointsDB) Upsert(ctx context.Context, p dao.Point) (dao.Point, error) {
	existing, err := repo.GetByName(ctx, p.Name)
	if err != nil && !errors.Is(err, dao.ErrNotFound) {
		return dao.Point{}, err
	}
	now := time.Now()

	if err == nil {
		_, err = repo.db.ExecContext(ctx, `UPDATE points SET pos=?, modified=? WHERE id=?;`,
			convertToDB_Point(p.At),
			convertToDB_Time(now),
			convertToDB_UUID(existing.ID),
		)
		if err != nil {
			return dao.Point{}, wrapDBError(err)
		}
		return repo.GetByName(ctx, p.Name)
	}

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Point{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO points (id, name, pos, created, modified) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Point{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		p.Name,
		convertToDB_Point(p.At),
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.Point{}, wrapDBError(err)
	}

	return repo.GetByName(ctx, p.Name)
}

func (repo *PointsDB) GetByName(ctx context.Context, name string) (dao.Point, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, pos, created, modified FROM points WHERE name = ?;`, name)
	return scanPoint(row)
}

func (repo *PointsDB) GetAll(ctx context.Context) ([]dao.Point, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, pos, created, modified FROM points ORDER BY name;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Point
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return all, err
		}
		all = append(all, p)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *PointsDB) Delete(ctx context.Context, name string) (dao.Point, error) {
	curVal, err := repo.GetByName(ctx, name)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM points WHERE name = ?`, name)
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *PointsDB) Close() error {
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPoint(row scanner) (dao.Point, error) {
	var p dao.Point
	var id string
	var pos string
	var created int64
	var modified int64

	err := row.Scan(&id, &p.Name, &pos, &created, &modified)
	if err != nil {
		return dao.Point{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &p.ID); err != nil {
		return dao.Point{}, fmt.Errorf("%w: stored ID %q is invalid: %v", dao.ErrCorrupt, id, err)
	}
	if err := convertFromDB_Point(pos, &p.At); err != nil {
		return dao.Point{}, fmt.Errorf("%w: stored position for %q is invalid: %v", dao.ErrCorrupt, p.Name, err)
	}
	convertFromDB_Time(created, &p.Created)
	convertFromDB_Time(modified, &p.Modified)

	return p, nil
}
