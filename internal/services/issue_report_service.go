package services

import (
	"fmt"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/sirupsen/logrus"
)

type IssueReportService struct {
	issueRepo *repository.IssueReportRepository
	audit     *AuditService
}

func NewIssueReportService(issueRepo *repository.IssueReportRepository, audit *AuditService) *IssueReportService {
	return &IssueReportService{issueRepo: issueRepo, audit: audit}
}

// ReportIssue logs a new issue against a card
func (s *IssueReportService) ReportIssue(cardID string, req *models.CreateIssueRequest, reportedBy string) (*models.IssueReport, error) {
	severity := req.Severity
	if severity == "" {
		severity = "normal"
	}

	issue := &models.IssueReport{
		CardID:      cardID,
		Title:       req.Title,
		Description: req.Description,
		Severity:    severity,
		Status:      models.IssueStatusOpen,
		ReportedBy:  reportedBy,
	}
	if err := s.issueRepo.Create(issue); err != nil {
		return nil, fmt.Errorf("failed to create issue report: %w", err)
	}

	logrus.Infof("Issue '%s' reported on card %s by '%s'", issue.Title, cardID, reportedBy)
	s.audit.Publish("issue.reported", reportedBy, map[string]interface{}{
		"card_id": cardID, "issue_id": issue.ID, "severity": severity,
	})
	return issue, nil
}

// ResolveIssue marks an open issue resolved with resolver attribution
func (s *IssueReportService) ResolveIssue(id, resolvedBy string) (*models.IssueReport, error) {
	issue, err := s.issueRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if issue.Status == models.IssueStatusResolved {
		return issue, nil
	}

	now := time.Now()
	issue.Status = models.IssueStatusResolved
	issue.ResolvedBy = resolvedBy
	issue.ResolvedAt = &now

	if err := s.issueRepo.Update(issue); err != nil {
		return nil, fmt.Errorf("failed to resolve issue: %w", err)
	}
	return issue, nil
}

// GetIssuesByCard returns all issues on a card
func (s *IssueReportService) GetIssuesByCard(cardID string) ([]models.IssueReport, error) {
	return s.issueRepo.GetByCard(cardID)
}

// DeleteIssue removes an issue report
func (s *IssueReportService) DeleteIssue(id string) error {
	if _, err := s.issueRepo.GetByID(id); err != nil {
		return err
	}
	return s.issueRepo.Delete(id)
}
