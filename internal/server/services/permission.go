package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"salesreport/internal/common"
	"salesreport/internal/logging"
	"salesreport/internal/server/models"
	"salesreport/internal/server/repositories/repomanager"
)

// PermissionService manages the directed view-permission edges between users.
type PermissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewPermissionService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *PermissionService {
	return &PermissionService{db: db, repomanager: m, logger: logger.With("module", "permission_service")}
}

// List returns all permission edges.
func (s *PermissionService) List(ctx context.Context) ([]models.Permission, error) {
	perms, err := s.repomanager.Permissions(s.db).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "permission list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return perms, nil
}

// Create records that viewer may see viewee's reports. Both endpoints must
// refer to existing users. Granting an edge twice is allowed and results in
// two rows; revoking removes one row at a time.
func (s *PermissionService) Create(ctx context.Context, viewerID, vieweeID string) (*models.Permission, error) {
	if viewerID == "" || vieweeID == "" {
		return nil, fmt.Errorf("%w: viewerId and vieweeId are required", common.ErrorValidation)
	}

	users := s.repomanager.Users(s.db)
	if _, err := users.GetByID(ctx, viewerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: viewer %s", common.ErrorNotFound, viewerID)
		}
		return nil, common.ErrorInternal
	}
	if _, err := users.GetByID(ctx, vieweeID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: viewee %s", common.ErrorNotFound, vieweeID)
		}
		return nil, common.ErrorInternal
	}

	perm, err := s.repomanager.Permissions(s.db).Create(ctx, &models.Permission{ViewerID: viewerID, VieweeID: vieweeID})
	if err != nil {
		s.logger.Error(ctx, "permission creation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return perm, nil
}

// Delete revokes a single permission edge by id.
func (s *PermissionService) Delete(ctx context.Context, id string) error {
	err := s.repomanager.Permissions(s.db).Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "permission deletion failed", "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}
