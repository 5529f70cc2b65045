// Package reports provides storage access for the two report collections:
// daily activities and weekly plans. The collections are independently keyed
// and each record is owned by exactly one user.
package reports

import (
	"context"

	"salesreport/internal/server/models"
)

type DailyRepository interface {
	Create(ctx context.Context, rec *models.DailyActivity) (*models.DailyActivity, error)
	ListByUser(ctx context.Context, userID string) ([]models.DailyActivity, error)
	GetByID(ctx context.Context, id string) (*models.DailyActivity, error)
	Update(ctx context.Context, rec *models.DailyActivity) (*models.DailyActivity, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every record owned by the user (deletion cascade).
	DeleteByUser(ctx context.Context, userID string) error
}

type WeeklyRepository interface {
	Create(ctx context.Context, rec *models.WeeklyPlan) (*models.WeeklyPlan, error)
	ListByUser(ctx context.Context, userID string) ([]models.WeeklyPlan, error)
	GetByID(ctx context.Context, id string) (*models.WeeklyPlan, error)
	Update(ctx context.Context, rec *models.WeeklyPlan) (*models.WeeklyPlan, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
