package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnagroup/residence/pkg/models"
)

const inquiryColumns = `id, unit_id, full_name, email, phone, message, source, status, created_at`

func (r *SQLiteRepo) CreateInquiry(ctx context.Context, q *models.Inquiry) (int64, error) {
	if q == nil {
		return 0, fmt.Errorf("inquiry is nil")
	}
	if q.Status == "" {
		q.Status = models.InquiryStatusNew
	}
	if !q.Status.Valid() {
		return 0, fmt.Errorf("invalid inquiry status %q", q.Status)
	}

	var source sql.NullString
	if q.Source != nil {
		source = sql.NullString{String: *q.Source, Valid: true}
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO inquiries (unit_id, full_name, email, phone, message, source, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.UnitID, q.FullName, q.Email, q.Phone, q.Message, source, string(q.Status), ts.UnixMilli())
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	q.ID, q.CreatedAt = id, ts
	return id, nil
}

func (r *SQLiteRepo) GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE id = ?`, id)
	q, err := scanInquiry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return q, nil
}

func (r *SQLiteRepo) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+inquiryColumns+` FROM inquiries`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Inquiry{}
	for rows.Next() {
		q, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) SetInquiryStatus(ctx context.Context, id int64, status models.InquiryStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid inquiry status %q", status)
	}
	return affectedOne(r.conn.Exec(ctx, `UPDATE inquiries SET status = ? WHERE id = ?`, string(status), id))
}

func scanInquiry(s scanner) (*models.Inquiry, error) {
	var q models.Inquiry
	var source sql.NullString
	var status string
	var created int64
	if err := s.Scan(&q.ID, &q.UnitID, &q.FullName, &q.Email, &q.Phone, &q.Message, &source, &status, &created); err != nil {
		return nil, err
	}
	if source.Valid {
		v := source.String
		q.Source = &v
	}
	q.Status = models.InquiryStatus(status)
	q.CreatedAt = fromMillis(created)
	return &q, nil
}
