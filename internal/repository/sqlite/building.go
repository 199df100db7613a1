package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnagroup/residence/pkg/models"
)

const buildingColumns = `id, complex_id, name, code, address, floors, amenities, hero_image_url, created_at, updated_at`

func (r *SQLiteRepo) CreateBuilding(ctx context.Context, b *models.Building) (int64, error) {
	if b == nil {
		return 0, fmt.Errorf("building is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO buildings (complex_id, name, code, address, floors, amenities, hero_image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ComplexID, b.Name, b.Code, b.Address, b.Floors, b.Amenities, b.HeroImageURL, ts.UnixMilli(), ts.UnixMilli())
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	b.ID, b.CreatedAt, b.UpdatedAt = id, ts, ts
	return id, nil
}

func (r *SQLiteRepo) GetBuilding(ctx context.Context, id int64) (*models.Building, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+buildingColumns+` FROM buildings WHERE id = ?`, id)
	b, err := scanBuilding(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func (r *SQLiteRepo) ListBuildings(ctx context.Context) ([]models.Building, error) {
	return r.listBuildings(ctx, `SELECT `+buildingColumns+` FROM buildings`)
}

func (r *SQLiteRepo) ListBuildingsByComplex(ctx context.Context, complexID int64) ([]models.Building, error) {
	return r.listBuildings(ctx, `SELECT `+buildingColumns+` FROM buildings WHERE complex_id = ?`, complexID)
}

func (r *SQLiteRepo) listBuildings(ctx context.Context, query string, args ...any) ([]models.Building, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Building{}
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateBuilding(ctx context.Context, b *models.Building) error {
	if b == nil {
		return fmt.Errorf("building is nil")
	}

	b.UpdatedAt = now()
	return affectedOne(r.conn.Exec(ctx, `UPDATE buildings SET name = ?, code = ?, address = ?, floors = ?, amenities = ?, hero_image_url = ?, updated_at = ? WHERE id = ?`,
		b.Name, b.Code, b.Address, b.Floors, b.Amenities, b.HeroImageURL, b.UpdatedAt.UnixMilli(), b.ID))
}

func (r *SQLiteRepo) DeleteBuilding(ctx context.Context, id int64) error {
	return affectedOne(r.conn.Exec(ctx, `DELETE FROM buildings WHERE id = ?`, id))
}

func scanBuilding(s scanner) (*models.Building, error) {
	var b models.Building
	var created, updated int64
	if err := s.Scan(&b.ID, &b.ComplexID, &b.Name, &b.Code, &b.Address, &b.Floors, &b.Amenities, &b.HeroImageURL, &created, &updated); err != nil {
		return nil, err
	}
	b.CreatedAt, b.UpdatedAt = fromMillis(created), fromMillis(updated)
	return &b, nil
}
