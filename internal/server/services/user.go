// Package services contains server-side business logic. This file implements
// UserService: login, admin-driven registration, listing, the transactional
// deletion cascade, and first-boot admin provisioning.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salesreport/internal/common"
	"salesreport/internal/dbx"
	"salesreport/internal/logging"
	"salesreport/internal/server/access"
	"salesreport/internal/server/auth"
	"salesreport/internal/server/config"
	"salesreport/internal/server/models"
	"salesreport/internal/server/repositories/repomanager"
)

// LoginResult bundles a freshly issued session token with the redacted
// projection of the authenticated user.
type LoginResult struct {
	Token string
	User  models.PublicUser
}

type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	adminFullName string
	adminUserName string
	adminPassword string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		logger:        logger.With("module", "user_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		adminFullName: cfg.AdminFullName,
		adminUserName: cfg.AdminUserName,
		adminPassword: cfg.AdminPassword,
	}
}

// Login verifies the username/password pair and mints a session token.
// Unknown usernames and wrong passwords both yield common.ErrorUnauthorized
// so a caller cannot enumerate accounts.
func (s *UserService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, User: user.Public()}, nil
}

// Register creates a new account. Duplicate usernames yield
// common.ErrorAlreadyExists and leave the original record untouched.
func (s *UserService) Register(ctx context.Context, fullName, userName, password string, role models.Role) (*models.PublicUser, error) {
	switch {
	case fullName == "":
		return nil, fmt.Errorf("%w: full name is required", common.ErrorValidation)
	case userName == "":
		return nil, fmt.Errorf("%w: username is required", common.ErrorValidation)
	case password == "":
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	case !role.Valid():
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{FullName: fullName, UserName: userName, PasswordHash: hash, Role: role}
	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "user creation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	pub := user.Public()
	return &pub, nil
}

// List returns every account in redacted form.
func (s *UserService) List(ctx context.Context) ([]models.PublicUser, error) {
	repo := s.repomanager.Users(s.db)
	users, err := repo.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "user list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// ListViewable returns the accounts whose reports the requester may read:
// everything for admins, self plus granted viewees for everyone else.
func (s *UserService) ListViewable(ctx context.Context, requesterID string, role models.Role) ([]models.PublicUser, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "user list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	var viewer *models.User
	for i := range users {
		if users[i].ID == requesterID {
			viewer = &users[i]
			break
		}
	}
	if viewer == nil {
		// token outlived the account
		return nil, common.ErrorUnauthorized
	}

	perms, err := s.repomanager.Permissions(s.db).ListByViewer(ctx, requesterID)
	if err != nil {
		s.logger.Error(ctx, "permission lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	ids := access.ViewableUserIDs(viewer, users, perms)
	out := make([]models.PublicUser, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u.Public())
		}
	}
	return out, nil
}

// Delete removes a user together with every permission edge referencing it
// and every report record it owns, in one transaction. A failure anywhere
// rolls the whole cascade back; the caller may retry.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Permissions(tx).DeleteByUser(ctx, id); err != nil {
			return fmt.Errorf("deleting permissions: %w", err)
		}
		if err := s.repomanager.DailyActivities(tx).DeleteByUser(ctx, id); err != nil {
			return fmt.Errorf("deleting daily activities: %w", err)
		}
		if err := s.repomanager.WeeklyPlans(tx).DeleteByUser(ctx, id); err != nil {
			return fmt.Errorf("deleting weekly plans: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "user deletion cascade failed", "user_id", id, "error", err.Error())
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// EnsureInitialAdmin provisions the bootstrap admin account when no admin
// exists yet, so the system is always administrable after first boot.
func (s *UserService) EnsureInitialAdmin(ctx context.Context) error {
	repo := s.repomanager.Users(s.db)

	n, err := repo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(s.adminPassword)
	if err != nil {
		return fmt.Errorf("hashing bootstrap password: %w", err)
	}

	admin := &models.User{
		FullName:     s.adminFullName,
		UserName:     s.adminUserName,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if _, err := repo.Create(ctx, admin); err != nil {
		// another instance may have won the race
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil
		}
		return fmt.Errorf("creating bootstrap admin: %w", err)
	}

	s.logger.Info(ctx, "initial admin user created", "username", s.adminUserName)
	return nil
}
