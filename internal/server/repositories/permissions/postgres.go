package permissions

import (
	"context"
	"fmt"

	"salesreport/internal/common"
	"salesreport/internal/dbx"
	"salesreport/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Permission) (*models.Permission, error) {

	query :=
		`INSERT INTO permissions (viewer_id, viewee_id)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, p.ViewerID, p.VieweeID).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Permission, error) {
	query :=
		`SELECT id, viewer_id, viewee_id FROM permissions
		 ORDER BY id
		 `

	return r.queryList(ctx, query)
}

func (r *PostgresRepository) ListByViewer(ctx context.Context, viewerID string) ([]models.Permission, error) {
	query :=
		`SELECT id, viewer_id, viewee_id FROM permissions
		 WHERE viewer_id = $1
		 `

	return r.queryList(ctx, query, viewerID)
}

func (r *PostgresRepository) queryList(ctx context.Context, query string, args ...any) ([]models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var perms []models.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.ViewerID, &p.VieweeID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return perms, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM permissions
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

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM permissions
		 WHERE viewer_id = $1 OR viewee_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
