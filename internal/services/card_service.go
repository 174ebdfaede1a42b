package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrCardAccessDenied is returned when the acting identity lacks the
// required department access for a card.
var ErrCardAccessDenied = errors.New("no access to this card's department")

// ErrCardNotPublic is returned when an anonymous scan targets a private
// or QR-disabled card.
var ErrCardNotPublic = errors.New("card is not publicly visible")

type CardService struct {
	cardRepo *repository.CardRepository
	scanRepo *repository.ScanRepository
	access   *DepartmentAccessService
	audit    *AuditService
}

func NewCardService(
	cardRepo *repository.CardRepository,
	scanRepo *repository.ScanRepository,
	access *DepartmentAccessService,
	audit *AuditService) *CardService {
	return &CardService{
		cardRepo: cardRepo,
		scanRepo: scanRepo,
		access:   access,
		audit:    audit,
	}
}

// CreateCard registers a new asset card. Ownership attribution is
// captured from the acting identity at creation time and preserved
// across all later edits.
func (s *CardService) CreateCard(identity *models.SessionIdentity, req *models.CreateCardRequest) (*models.Card, error) {
	card := &models.Card{
		ProductName:     strings.TrimSpace(req.ProductName),
		ProductCode:     strings.TrimSpace(req.ProductCode),
		Category:        req.Category,
		Description:     req.Description,
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		CustomFields:    req.CustomFields,
		OwnerUsername:   identity.Username,
		OwnerFullName:   fullName(identity),
		OwnerDepartment: identity.DepartmentName,
		OwnerPlant:      identity.PlantName,
		IsPrivate:       req.IsPrivate,
		QRActive:        true,
	}

	if err := s.cardRepo.Create(card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	logrus.Infof("Card '%s' created by '%s'", card.ProductName, identity.Username)
	s.audit.Publish("card.created", identity.Username, map[string]interface{}{
		"card_id": card.ID, "product_name": card.ProductName,
	})
	return card, nil
}

// GetCard returns a card with its sub-resources, gated on department
// visibility
func (s *CardService) GetCard(identity *models.SessionIdentity, id string) (*models.Card, error) {
	card, err := s.cardRepo.GetByIDWithRelations(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(identity, card); err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateCard applies an edit. Ownership attribution fields are never
// touched here.
func (s *CardService) UpdateCard(identity *models.SessionIdentity, id string, req *models.UpdateCardRequest) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeEdit(identity, card); err != nil {
		return nil, err
	}

	if req.ProductName != "" {
		card.ProductName = strings.TrimSpace(req.ProductName)
	}
	if req.ProductCode != "" {
		card.ProductCode = strings.TrimSpace(req.ProductCode)
	}
	if req.Category != "" {
		card.Category = req.Category
	}
	if req.Description != "" {
		card.Description = req.Description
	}
	if req.BackgroundColor != "" {
		card.BackgroundColor = req.BackgroundColor
	}
	if req.TextColor != "" {
		card.TextColor = req.TextColor
	}
	if len(req.CustomFields) > 0 {
		card.CustomFields = req.CustomFields
	}
	if req.IsPrivate != nil {
		card.IsPrivate = *req.IsPrivate
	}
	if req.IsArchived != nil {
		card.IsArchived = *req.IsArchived
	}
	if req.QRActive != nil {
		card.QRActive = *req.QRActive
	}

	if err := s.cardRepo.Update(card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	s.audit.Publish("card.updated", identity.Username, map[string]interface{}{
		"card_id": card.ID,
	})
	return card, nil
}

// DeleteCard removes a card and its owned sub-resources
func (s *CardService) DeleteCard(identity *models.SessionIdentity, id string) error {
	card, err := s.cardRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.authorizeEdit(identity, card); err != nil {
		return err
	}

	if err := s.cardRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	logrus.Infof("Card '%s' deleted by '%s'", card.ProductName, identity.Username)
	s.audit.Publish("card.deleted", identity.Username, map[string]interface{}{
		"card_id": id, "product_name": card.ProductName,
	})
	return nil
}

// ListCards returns the cards visible to the identity: admins see all,
// everyone else sees cards owned by their accessible departments.
func (s *CardService) ListCards(identity *models.SessionIdentity, page, pageSize int, search string) ([]models.Card, int64, error) {
	page, pageSize = utils.ValidateAndNormalizePagination(page, pageSize)

	if identity.IsAdmin() {
		return s.cardRepo.ListAll(page, pageSize, search)
	}

	departments, err := s.access.GetAccessibleDepartments(identity.UserID)
	if err != nil {
		return nil, 0, err
	}
	if len(departments) == 0 {
		return []models.Card{}, 0, nil
	}
	return s.cardRepo.ListByDepartments(departments, page, pageSize, search)
}

// ListForExport returns every card visible to the identity, without
// pagination, for the inventory export.
func (s *CardService) ListForExport(identity *models.SessionIdentity) ([]models.Card, error) {
	const exportPageSize = 10000

	if identity.IsAdmin() {
		cards, _, err := s.cardRepo.ListAll(1, exportPageSize, "")
		return cards, err
	}

	departments, err := s.access.GetAccessibleDepartments(identity.UserID)
	if err != nil {
		return nil, err
	}
	if len(departments) == 0 {
		return []models.Card{}, nil
	}
	cards, _, err := s.cardRepo.ListByDepartments(departments, 1, exportPageSize, "")
	return cards, err
}

// PublicView serves an anonymous QR scan of a card. Private or
// QR-disabled cards are hidden behind a not-found error; the scan
// settings control what the response reveals. Every successful view is
// recorded as a scan result (recording failure is logged, not
// surfaced).
func (s *CardService) PublicView(id, userAgent, ipAddress string) (*models.PublicCardResponse, error) {
	card, err := s.cardRepo.GetByIDWithRelations(id)
	if err != nil {
		return nil, err
	}
	if card.IsPrivate || !card.QRActive || card.IsArchived {
		return nil, ErrCardNotPublic
	}

	settings := card.ScanSettings
	resp := &models.PublicCardResponse{
		ID:              card.ID,
		ProductName:     card.ProductName,
		ProductCode:     card.ProductCode,
		Category:        card.Category,
		Description:     card.Description,
		BackgroundColor: card.BackgroundColor,
		TextColor:       card.TextColor,
	}
	if settings == nil || settings.ShowOwner {
		resp.OwnerFullName = card.OwnerFullName
		resp.OwnerDepartment = card.OwnerDepartment
	}
	if settings == nil || settings.ShowCustomFields {
		resp.CustomFields = card.CustomFields
	}
	if settings == nil || settings.ShowDocuments {
		resp.Documents = card.Documents
	}

	result := &models.ScanResult{
		CardID:    card.ID,
		ScannedAt: time.Now(),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	if err := s.scanRepo.CreateResult(result); err != nil {
		logrus.Warnf("Failed to record scan of card %s: %v", card.ID, err)
	}

	return resp, nil
}

// CanView reports whether an identity may read a card
func (s *CardService) CanView(identity *models.SessionIdentity, card *models.Card) bool {
	return s.authorizeView(identity, card) == nil
}

func (s *CardService) authorizeView(identity *models.SessionIdentity, card *models.Card) error {
	if identity.IsAdmin() || identity.Username == card.OwnerUsername {
		return nil
	}
	ok, err := s.access.HasAccessToDepartment(identity.UserID, card.OwnerDepartment)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCardAccessDenied
	}
	return nil
}

func (s *CardService) authorizeEdit(identity *models.SessionIdentity, card *models.Card) error {
	if identity.IsAdmin() || identity.Username == card.OwnerUsername {
		return nil
	}
	ok, err := s.access.HasAccessLevelToDepartment(identity.UserID, card.OwnerDepartment, models.AccessLevelEdit)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCardAccessDenied
	}
	return nil
}

// AuthorizeView exposes the view check for handlers working with
// sub-resources
func (s *CardService) AuthorizeView(identity *models.SessionIdentity, cardID string) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(identity, card); err != nil {
		return nil, err
	}
	return card, nil
}

// AuthorizeEdit exposes the edit check for handlers working with
// sub-resources
func (s *CardService) AuthorizeEdit(identity *models.SessionIdentity, cardID string) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeEdit(identity, card); err != nil {
		return nil, err
	}
	return card, nil
}

// IsNotFound reports whether err is the storage layer's record-not-found
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func fullName(identity *models.SessionIdentity) string {
	name := strings.TrimSpace(identity.DetailENFirstName + " " + identity.DetailENLastName)
	if name == "" {
		name = identity.Username
	}
	return name
}
