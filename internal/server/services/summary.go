package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"salesreport/internal/common"
	"salesreport/internal/logging"
	"salesreport/internal/server/config"
	"salesreport/internal/server/models"
	"salesreport/internal/server/repositories/repomanager"
)

// Summarizer turns an assembled prompt into a prose summary. The production
// implementation calls an external text-generation service; tests substitute
// a local fake.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// HTTPSummarizer posts the prompt as JSON to a text-generation endpoint and
// reads the generated text back.
type HTTPSummarizer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPSummarizer(cfg *config.Config) *HTTPSummarizer {
	return &HTTPSummarizer{
		endpoint: cfg.SummaryEndpoint,
		apiKey:   cfg.SummaryAPIKey,
		client:   &http.Client{Timeout: cfg.SummaryTimeout},
	}
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling summary service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary service returned status %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("summary service returned an empty text")
	}
	return out.Text, nil
}

// SummaryService assembles report text into an analyst prompt and delegates
// generation to a Summarizer. Read access is checked the same way as report
// listing.
type SummaryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	reports     *ReportService
	summarizer  Summarizer
	logger      logging.Logger
}

func NewSummaryService(db *sql.DB, m repomanager.RepositoryManager, reports *ReportService, summarizer Summarizer, logger logging.Logger) *SummaryService {
	return &SummaryService{db: db, repomanager: m, reports: reports, summarizer: summarizer, logger: logger.With("module", "summary_service")}
}

func (s *SummaryService) targetName(ctx context.Context, userID string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.FullName, nil
}

// SummarizeDaily produces a prose summary of the target user's daily
// activities. Returns common.ErrorNotFound when the user has no records.
func (s *SummaryService) SummarizeDaily(ctx context.Context, requesterID string, role models.Role, targetUserID string) (string, error) {
	recs, err := s.reports.ListDaily(ctx, requesterID, role, targetUserID)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "", fmt.Errorf("%w: no daily activities to summarize", common.ErrorNotFound)
	}

	name, err := s.targetName(ctx, targetUserID)
	if err != nil {
		return "", common.ErrorInternal
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert sales performance analyst. Based on the following activity report for sales person %s, provide a concise summary of their performance, highlighting key achievements and areas needing support.\n\nActivity Data:\n", name)
	for _, r := range recs {
		support := r.SupportRequired
		if support == "" {
			support = "None"
		}
		fmt.Fprintf(&b, "On %s, they worked on account '%s' (Contact: %s). The task was '%s' with the outcome being '%s'. Support required: '%s'\n",
			r.Date, r.AccountName, r.ContactPerson, r.WorkDone, r.Outcome, support)
	}

	text, err := s.summarizer.Summarize(ctx, b.String())
	if err != nil {
		s.logger.Error(ctx, "daily summary generation failed", "error", err.Error())
		return "", common.ErrorInternal
	}
	return text, nil
}

// SummarizeWeekly produces a prose summary of the target user's weekly plans.
func (s *SummaryService) SummarizeWeekly(ctx context.Context, requesterID string, role models.Role, targetUserID string) (string, error) {
	recs, err := s.reports.ListWeekly(ctx, requesterID, role, targetUserID)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "", fmt.Errorf("%w: no weekly plans to summarize", common.ErrorNotFound)
	}

	name, err := s.targetName(ctx, targetUserID)
	if err != nil {
		return "", common.ErrorInternal
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert sales performance analyst. Based on the following weekly plan for sales person %s, provide a concise summary of the planned work and any support they will need.\n\nPlan Data:\n", name)
	for _, r := range recs {
		support := r.SupportRequired
		if support == "" {
			support = "None"
		}
		fmt.Fprintf(&b, "On %s, they plan to visit customer '%s' (Contacts: %s). The requirement is '%s', proposed action '%s'. Support required: '%s'\n",
			r.Date, r.CustomerName, r.ContactPersons, r.Requirement, r.ProposedAction, support)
	}

	text, err := s.summarizer.Summarize(ctx, b.String())
	if err != nil {
		s.logger.Error(ctx, "weekly summary generation failed", "error", err.Error())
		return "", common.ErrorInternal
	}
	return text, nil
}
