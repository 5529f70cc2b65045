// Package permissions provides storage access for viewer/viewee edges of the
// report-viewing graph.
package permissions

import (
	"context"

	"salesreport/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Permission) (*models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)
	// ListByViewer returns the edges granted to one viewer; this is the set
	// the access decisions for that viewer are computed from.
	ListByViewer(ctx context.Context, viewerID string) ([]models.Permission, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every edge referencing the user as viewer or
	// viewee. Used by the user-deletion cascade.
	DeleteByUser(ctx context.Context, userID string) error
}
