package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"salesreport/internal/common"
	"salesreport/internal/logging"
	"salesreport/internal/server/access"
	"salesreport/internal/server/models"
	"salesreport/internal/server/repositories/repomanager"
)

// ReportService mediates every report operation through the access rules:
// reads require the requester to be an admin or hold a view permission on the
// target, writes require admin role or record ownership.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ReportService {
	return &ReportService{db: db, repomanager: m, logger: logger.With("module", "report_service")}
}

func (s *ReportService) canRead(ctx context.Context, requesterID string, role models.Role, targetUserID string) error {
	if role == models.RoleAdmin || requesterID == targetUserID {
		return nil
	}
	perms, err := s.repomanager.Permissions(s.db).ListByViewer(ctx, requesterID)
	if err != nil {
		s.logger.Error(ctx, "permission lookup failed", "error", err.Error())
		return common.ErrorInternal
	}
	if !access.CanReadReports(requesterID, role, targetUserID, perms) {
		return common.ErrorForbidden
	}
	return nil
}

// ListDaily returns the daily activities owned by targetUserID, provided the
// requester is allowed to read them.
func (s *ReportService) ListDaily(ctx context.Context, requesterID string, role models.Role, targetUserID string) ([]models.DailyActivity, error) {
	if err := s.canRead(ctx, requesterID, role, targetUserID); err != nil {
		return nil, err
	}
	recs, err := s.repomanager.DailyActivities(s.db).ListByUser(ctx, targetUserID)
	if err != nil {
		s.logger.Error(ctx, "daily activity list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return recs, nil
}

// ListWeekly returns the weekly plans owned by targetUserID, provided the
// requester is allowed to read them.
func (s *ReportService) ListWeekly(ctx context.Context, requesterID string, role models.Role, targetUserID string) ([]models.WeeklyPlan, error) {
	if err := s.canRead(ctx, requesterID, role, targetUserID); err != nil {
		return nil, err
	}
	recs, err := s.repomanager.WeeklyPlans(s.db).ListByUser(ctx, targetUserID)
	if err != nil {
		s.logger.Error(ctx, "weekly plan list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return recs, nil
}

// CreateDaily stores a new daily activity owned by the requester. Any owner
// or manager-remarks value in the input is discarded.
func (s *ReportService) CreateDaily(ctx context.Context, requesterID string, in models.DailyActivity) (*models.DailyActivity, error) {
	if in.Date == "" {
		return nil, fmt.Errorf("%w: date is required", common.ErrorValidation)
	}
	rec, err := s.repomanager.DailyActivities(s.db).Create(ctx, models.NewDailyActivity(requesterID, in))
	if err != nil {
		s.logger.Error(ctx, "daily activity creation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return rec, nil
}

// CreateWeekly stores a new weekly plan owned by the requester.
func (s *ReportService) CreateWeekly(ctx context.Context, requesterID string, in models.WeeklyPlan) (*models.WeeklyPlan, error) {
	if in.Date == "" {
		return nil, fmt.Errorf("%w: date is required", common.ErrorValidation)
	}
	rec, err := s.repomanager.WeeklyPlans(s.db).Create(ctx, models.NewWeeklyPlan(requesterID, in))
	if err != nil {
		s.logger.Error(ctx, "weekly plan creation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return rec, nil
}

// UpdateDaily applies a partial update to an existing record. Fields absent
// from the patch keep their stored values; id and owner never change.
func (s *ReportService) UpdateDaily(ctx context.Context, requesterID string, role models.Role, id string, patch models.DailyActivityPatch) (*models.DailyActivity, error) {
	repo := s.repomanager.DailyActivities(s.db)
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	if !access.CanModifyReport(requesterID, role, rec.UserID) {
		return nil, common.ErrorForbidden
	}
	patch.Apply(rec)
	rec, err = repo.Update(ctx, rec)
	if err != nil {
		s.logger.Error(ctx, "daily activity update failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return rec, nil
}

// UpdateWeekly applies a partial update to an existing weekly plan.
func (s *ReportService) UpdateWeekly(ctx context.Context, requesterID string, role models.Role, id string, patch models.WeeklyPlanPatch) (*models.WeeklyPlan, error) {
	repo := s.repomanager.WeeklyPlans(s.db)
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	if !access.CanModifyReport(requesterID, role, rec.UserID) {
		return nil, common.ErrorForbidden
	}
	patch.Apply(rec)
	rec, err = repo.Update(ctx, rec)
	if err != nil {
		s.logger.Error(ctx, "weekly plan update failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return rec, nil
}

// DeleteDaily removes a record if the requester is its owner or an admin.
func (s *ReportService) DeleteDaily(ctx context.Context, requesterID string, role models.Role, id string) error {
	repo := s.repomanager.DailyActivities(s.db)
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if !access.CanModifyReport(requesterID, role, rec.UserID) {
		return common.ErrorForbidden
	}
	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "daily activity deletion failed", "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// DeleteWeekly removes a weekly plan if the requester is its owner or an admin.
func (s *ReportService) DeleteWeekly(ctx context.Context, requesterID string, role models.Role, id string) error {
	repo := s.repomanager.WeeklyPlans(s.db)
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if !access.CanModifyReport(requesterID, role, rec.UserID) {
		return common.ErrorForbidden
	}
	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "weekly plan deletion failed", "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}
