package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnagroup/residence/pkg/models"
)

const complexColumns = `id, name, city, country, description, hero_image_url, created_at, updated_at`

func (r *SQLiteRepo) CreateComplex(ctx context.Context, c *models.Complex) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("complex is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO complexes (name, city, country, description, hero_image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.City, c.Country, c.Description, c.HeroImageURL, ts.UnixMilli(), ts.UnixMilli())
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID, c.CreatedAt, c.UpdatedAt = id, ts, ts
	return id, nil
}

func (r *SQLiteRepo) GetComplex(ctx context.Context, id int64) (*models.Complex, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+complexColumns+` FROM complexes WHERE id = ?`, id)
	c, err := scanComplex(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteRepo) ListComplexes(ctx context.Context) ([]models.Complex, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+complexColumns+` FROM complexes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Complex{}
	for rows.Next() {
		c, err := scanComplex(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateComplex(ctx context.Context, c *models.Complex) error {
	if c == nil {
		return fmt.Errorf("complex is nil")
	}

	c.UpdatedAt = now()
	return affectedOne(r.conn.Exec(ctx, `UPDATE complexes SET name = ?, city = ?, country = ?, description = ?, hero_image_url = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.City, c.Country, c.Description, c.HeroImageURL, c.UpdatedAt.UnixMilli(), c.ID))
}

// DeleteComplex removes the complex; its buildings, units and inquiries
// follow through ON DELETE CASCADE.
func (r *SQLiteRepo) DeleteComplex(ctx context.Context, id int64) error {
	return affectedOne(r.conn.Exec(ctx, `DELETE FROM complexes WHERE id = ?`, id))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComplex(s scanner) (*models.Complex, error) {
	var c models.Complex
	var created, updated int64
	if err := s.Scan(&c.ID, &c.Name, &c.City, &c.Country, &c.Description, &c.HeroImageURL, &created, &updated); err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = fromMillis(created), fromMillis(updated)
	return &c, nil
}
