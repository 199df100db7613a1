package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnagroup/residence/pkg/models"
)

const unitColumns = `id, building_id, unit_number, type, bedrooms, bathrooms, interior_sqm, exterior_sqm, total_sqm, price, status, move_in_ready, facing, floor, plan_2d_url, plan_3d_url, gallery, created_at, updated_at`

func (r *SQLiteRepo) CreateUnit(ctx context.Context, u *models.Unit) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("unit is nil")
	}
	if u.Status == "" {
		u.Status = models.UnitStatusAvailable
	}
	if u.Gallery == "" {
		u.Gallery = "[]"
	}
	if err := checkUnitEnums(u); err != nil {
		return 0, err
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO units (building_id, unit_number, type, bedrooms, bathrooms, interior_sqm, exterior_sqm, total_sqm, price, status, move_in_ready, facing, floor, plan_2d_url, plan_3d_url, gallery, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.BuildingID, u.UnitNumber, string(u.Type), u.Bedrooms, u.Bathrooms, u.InteriorSqm, u.ExteriorSqm, u.TotalSqm, u.Price,
		string(u.Status), u.MoveInReady, u.Facing, u.Floor, u.Plan2DURL, u.Plan3DURL, u.Gallery, ts.UnixMilli(), ts.UnixMilli())
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID, u.CreatedAt, u.UpdatedAt = id, ts, ts
	return id, nil
}

func (r *SQLiteRepo) GetUnit(ctx context.Context, id int64) (*models.Unit, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id = ?`, id)
	u, err := scanUnit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLiteRepo) ListUnits(ctx context.Context) ([]models.Unit, error) {
	return r.listUnits(ctx, `SELECT `+unitColumns+` FROM units`)
}

func (r *SQLiteRepo) ListUnitsByBuilding(ctx context.Context, buildingID int64) ([]models.Unit, error) {
	return r.listUnits(ctx, `SELECT `+unitColumns+` FROM units WHERE building_id = ?`, buildingID)
}

func (r *SQLiteRepo) listUnits(ctx context.Context, query string, args ...any) ([]models.Unit, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateUnit(ctx context.Context, u *models.Unit) error {
	if u == nil {
		return fmt.Errorf("unit is nil")
	}
	if err := checkUnitEnums(u); err != nil {
		return err
	}

	u.UpdatedAt = now()
	return affectedOne(r.conn.Exec(ctx, `UPDATE units SET unit_number = ?, type = ?, bedrooms = ?, bathrooms = ?, interior_sqm = ?, exterior_sqm = ?, total_sqm = ?, price = ?, status = ?, move_in_ready = ?, facing = ?, floor = ?, plan_2d_url = ?, plan_3d_url = ?, gallery = ?, updated_at = ? WHERE id = ?`,
		u.UnitNumber, string(u.Type), u.Bedrooms, u.Bathrooms, u.InteriorSqm, u.ExteriorSqm, u.TotalSqm, u.Price, string(u.Status),
		u.MoveInReady, u.Facing, u.Floor, u.Plan2DURL, u.Plan3DURL, u.Gallery, u.UpdatedAt.UnixMilli(), u.ID))
}

// SetUnitStatus assigns any status; there is no transition table.
func (r *SQLiteRepo) SetUnitStatus(ctx context.Context, id int64, status models.UnitStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid unit status %q", status)
	}
	return affectedOne(r.conn.Exec(ctx, `UPDATE units SET status = ?, updated_at = ? WHERE id = ?`, string(status), now().UnixMilli(), id))
}

func (r *SQLiteRepo) DeleteUnit(ctx context.Context, id int64) error {
	return affectedOne(r.conn.Exec(ctx, `DELETE FROM units WHERE id = ?`, id))
}

func checkUnitEnums(u *models.Unit) error {
	if !u.Type.Valid() {
		return fmt.Errorf("invalid unit type %q", u.Type)
	}
	if !u.Status.Valid() {
		return fmt.Errorf("invalid unit status %q", u.Status)
	}
	return nil
}

func scanUnit(s scanner) (*models.Unit, error) {
	var u models.Unit
	var typ, status string
	var created, updated int64
	if err := s.Scan(&u.ID, &u.BuildingID, &u.UnitNumber, &typ, &u.Bedrooms, &u.Bathrooms, &u.InteriorSqm, &u.ExteriorSqm, &u.TotalSqm,
		&u.Price, &status, &u.MoveInReady, &u.Facing, &u.Floor, &u.Plan2DURL, &u.Plan3DURL, &u.Gallery, &created, &updated); err != nil {
		return nil, err
	}
	u.Type, u.Status = models.UnitType(typ), models.UnitStatus(status)
	u.CreatedAt, u.UpdatedAt = fromMillis(created), fromMillis(updated)
	return &u, nil
}
