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

type PostgresDailyRepository struct {
	db dbx.DBTX
}

func NewPostgresDailyRepository(db dbx.DBTX) *PostgresDailyRepository {
	return &PostgresDailyRepository{db: db}
}

const dailyColumns = `id, user_id, date, day, account_name, contact_person, contact_number, work_done, outcome, support_required, manager_remarks`

func (r *PostgresDailyRepository) Create(ctx context.Context, rec *models.DailyActivity) (*models.DailyActivity, error) {

	query :=
		`INSERT INTO daily_activities (user_id, date, day, account_name, contact_person, contact_number, work_done, outcome, support_required, manager_remarks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.Date, rec.Day, rec.AccountName, rec.ContactPerson, rec.ContactNumber,
		rec.WorkDone, rec.Outcome, rec.SupportRequired, rec.ManagerRemarks).Scan(&rec.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresDailyRepository) ListByUser(ctx context.Context, userID string) ([]models.DailyActivity, error) {
	query := `SELECT ` + dailyColumns + ` FROM daily_activities
		 WHERE user_id = $1
		 ORDER BY date, id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var recs []models.DailyActivity
	for rows.Next() {
		var rec models.DailyActivity
		if err := scanDaily(rows.Scan, &rec); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return recs, nil
}

func (r *PostgresDailyRepository) GetByID(ctx context.Context, id string) (*models.DailyActivity, error) {
	query := `SELECT ` + dailyColumns + ` FROM daily_activities
		 WHERE id = $1
		 `

	rec := &models.DailyActivity{}
	row := r.db.QueryRowContext(ctx, query, id)
	if err := scanDaily(row.Scan, rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresDailyRepository) Update(ctx context.Context, rec *models.DailyActivity) (*models.DailyActivity, error) {
	query :=
		`UPDATE daily_activities
		 SET date = $2, day = $3, account_name = $4, contact_person = $5, contact_number = $6,
		     work_done = $7, outcome = $8, support_required = $9, manager_remarks = $10
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Date, rec.Day, rec.AccountName, rec.ContactPerson, rec.ContactNumber,
		rec.WorkDone, rec.Outcome, rec.SupportRequired, rec.ManagerRemarks)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.ErrorNotFound
	}
	return rec, nil
}

func (r *PostgresDailyRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM daily_activities
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

func (r *PostgresDailyRepository) DeleteByUser(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM daily_activities
		 WHERE user_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanDaily(scan func(dest ...any) error, rec *models.DailyActivity) error {
	return scan(&rec.ID, &rec.UserID, &rec.Date, &rec.Day, &rec.AccountName, &rec.ContactPerson,
		&rec.ContactNumber, &rec.WorkDone, &rec.Outcome, &rec.SupportRequired, &rec.ManagerRemarks)
}
