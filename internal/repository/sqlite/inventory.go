package sqlite

import (
	"context"
	"log/slog"
	"strings"

	"github.com/etnagroup/residence/pkg/models"
)

// sqlCondition is a WHERE clause fragment with its positional parameters.
type sqlCondition struct {
	Clause string
	Params []any
}

// unitFilterCondition turns every set field of f into one predicate and
// AND-composes them. An empty filter yields an empty clause.
func unitFilterCondition(f models.UnitFilter) sqlCondition {
	var (
		preds  []string
		params []any
	)
	add := func(pred string, v any) {
		preds = append(preds, pred)
		params = append(params, v)
	}

	if f.Type != nil {
		add("type = ?", string(*f.Type))
	}
	if f.Status != nil {
		add("status = ?", string(*f.Status))
	}
	if f.MoveInReady != nil {
		add("move_in_ready = ?", *f.MoveInReady)
	}
	if f.MinPrice != nil {
		add("price >= CAST(? AS NUMERIC)", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		add("price <= CAST(? AS NUMERIC)", f.MaxPrice.String())
	}
	if f.Bedrooms != nil {
		add("bedrooms = ?", *f.Bedrooms)
	}
	if f.BuildingID != nil {
		add("building_id = ?", *f.BuildingID)
	}

	return sqlCondition{Clause: strings.Join(preds, " AND "), Params: params}
}

// FilterUnits returns the units matching every constraint in f, in storage order.
func (r *SQLiteRepo) FilterUnits(ctx context.Context, f models.UnitFilter) ([]models.Unit, error) {
	cond := unitFilterCondition(f)
	query := `SELECT ` + unitColumns + ` FROM units`
	if cond.Clause != "" {
		query += ` WHERE ` + cond.Clause
	}
	r.logger.Debug("filter units", slog.String("where", cond.Clause), slog.Int("params", len(cond.Params)))
	return r.listUnits(ctx, query, cond.Params...)
}

// SummarizeAvailability buckets units by (building name, unit type) and
// counts each status inside the database. The sums follow UnitStatuses
// order: available, reserved, sold.
func (r *SQLiteRepo) SummarizeAvailability(ctx context.Context) ([]models.AvailabilitySummary, error) {
	statuses := models.UnitStatuses()
	args := make([]any, len(statuses))
	for i, st := range statuses {
		args[i] = string(st)
	}
	rows, err := r.conn.QueryRows(ctx, `SELECT b.name, u.type,
		SUM(CASE WHEN u.status = ? THEN 1 ELSE 0 END),
		SUM(CASE WHEN u.status = ? THEN 1 ELSE 0 END),
		SUM(CASE WHEN u.status = ? THEN 1 ELSE 0 END),
		COUNT(*)
		FROM units u JOIN buildings b ON b.id = u.building_id
		GROUP BY b.name, u.type`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AvailabilitySummary{}
	for rows.Next() {
		var s models.AvailabilitySummary
		var typ string
		if err := rows.Scan(&s.BuildingName, &typ, &s.Available, &s.Reserved, &s.Sold, &s.Total); err != nil {
			return nil, err
		}
		s.UnitType = models.UnitType(typ)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListMoveInReadyUnits returns available units flagged move-in-ready.
func (r *SQLiteRepo) ListMoveInReadyUnits(ctx context.Context) ([]models.Unit, error) {
	return r.listUnits(ctx, `SELECT `+unitColumns+` FROM units WHERE move_in_ready = 1 AND status = ?`, string(models.UnitStatusAvailable))
}
