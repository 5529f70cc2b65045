package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"salesreport/internal/common"
	"salesreport/internal/dbx"
	"salesreport/internal/server/models"
)

type PostgresWeeklyRepository struct {
	db dbx.DBTX
}

func NewPostgresWeeklyRepository(db dbx.DBTX) *PostgresWeeklyRepository {
	return &PostgresWeeklyRepository{db: db}
}

const weeklyColumns = `id, user_id, date, day, customer_name, contact_persons, requirement, proposed_action, planning_required, support_required, manager_remarks`

func (r *PostgresWeeklyRepository) Create(ctx context.Context, rec *models.WeeklyPlan) (*models.WeeklyPlan, error) {

	query :=
		`INSERT INTO weekly_plans (user_id, date, day, customer_name, contact_persons, requirement, proposed_action, planning_required, support_required, manager_remarks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.Date, rec.Day, rec.CustomerName, rec.ContactPersons, rec.Requirement,
		rec.ProposedAction, rec.PlanningRequired, rec.SupportRequired, rec.ManagerRemarks).Scan(&rec.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresWeeklyRepository) ListByUser(ctx context.Context, userID string) ([]models.WeeklyPlan, error) {
	query := `SELECT ` + weeklyColumns + ` FROM weekly_plans
		 WHERE user_id = $1
		 ORDER BY date, id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var recs []models.WeeklyPlan
	for rows.Next() {
		var rec models.WeeklyPlan
		if err := scanWeekly(rows.Scan, &rec); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return recs, nil
}

func (r *PostgresWeeklyRepository) GetByID(ctx context.Context, id string) (*models.WeeklyPlan, error) {
	query := `SELECT ` + weeklyColumns + ` FROM weekly_plans
		 WHERE id = $1
		 `

	rec := &models.WeeklyPlan{}
	row := r.db.QueryRowContext(ctx, query, id)
	if err := scanWeekly(row.Scan, rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresWeeklyRepository) Update(ctx context.Context, rec *models.WeeklyPlan) (*models.WeeklyPlan, error) {
	query :=
		`UPDATE weekly_plans
		 SET date = $2, day = $3, customer_name = $4, contact_persons = $5, requirement = $6,
		     proposed_action = $7, planning_required = $8, support_required = $9, manager_remarks = $10
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Date, rec.Day, rec.CustomerName, rec.ContactPersons, rec.Requirement,
		rec.ProposedAction, rec.PlanningRequired, rec.SupportRequired, rec.ManagerRemarks)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.ErrorNotFound
	}
	return rec, nil
}

func (r *PostgresWeeklyRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM weekly_plans
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresWeeklyRepository) DeleteByUser(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM weekly_plans
		 WHERE user_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanWeekly(scan func(dest ...any) error, rec *models.WeeklyPlan) error {
	return scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Day, &rec.CustomerName, &rec.ContactPersons,
		&rec.Requirement, &rec.ProposedAction, &rec.PlanningRequired, &rec.SupportRequired, &rec.ManagerRemarks)
}
