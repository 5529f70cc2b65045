package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"salesreport/internal/common"
	"salesreport/internal/logging"
	"salesreport/internal/server/access"
	sc "salesreport/internal/server/config"
	"salesreport/internal/server/models"
	"salesreport/internal/server/repositories/repomanager"
)

// Seams for the AWS SDK calls so tests can run without object storage.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// exportSnapshot is the JSON document written to the archive bucket.
type exportSnapshot struct {
	User            models.PublicUser      `json:"user"`
	ExportedAt      time.Time              `json:"exportedAt"`
	DailyActivities []models.DailyActivity `json:"dailyActivities"`
	WeeklyPlans     []models.WeeklyPlan    `json:"weeklyPlans"`
}

// ExportService archives one user's complete report history to S3-compatible
// object storage. Admin-only.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: m,
		config:      cfg,
		logger:      logger.With("module", "export_service"),
		now:         time.Now,
	}
}

func (s *ExportService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})
	return client, nil
}

// ExportUser writes a JSON snapshot of userID's reports to the archive bucket
// and returns the object key. Keys are date-partitioned so snapshots of the
// same user never collide.
func (s *ExportService) ExportUser(ctx context.Context, requesterRole models.Role, userID string) (string, error) {
	if err := access.RequireAdmin(requesterRole); err != nil {
		return "", err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", common.ErrorInternal
	}

	daily, err := s.repomanager.DailyActivities(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "export daily list failed", "error", err.Error())
		return "", common.ErrorInternal
	}
	weekly, err := s.repomanager.WeeklyPlans(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "export weekly list failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	now := s.now().UTC()
	snapshot := exportSnapshot{
		User:            user.Public(),
		ExportedAt:      now,
		DailyActivities: daily,
		WeeklyPlans:     weekly,
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", common.ErrorInternal
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		s.logger.Error(ctx, "s3 client setup failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	key := fmt.Sprintf("exports/%s/%s-%s.json", now.Format("2006/01/02"), userID, uuid.NewString())
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error(ctx, "archive upload failed", "key", key, "error", err.Error())
		return "", common.ErrorInternal
	}

	s.logger.Info(ctx, "report archive exported", "user_id", userID, "key", key)
	return key, nil
}
