package booking

import (
	"context"
	"time"

	alertRepo "coachbook/database/repository/alert"
	draftRepo "coachbook/database/repository/draft"
	ledgerRepo "coachbook/database/repository/ledger"
	"coachbook/models"
	"coachbook/services/notification"
	"coachbook/services/payment"

	"go.uber.org/zap"
)

// BookingService is the facade for the interactive wizard entry path:
// building a draft step by step, submitting it for payment, and cancelling.
type BookingService interface {
	StartDraft(ctx context.Context, customerID, trainingType, courseID string) (*models.BookingDraft, error)
	SelectPackage(ctx context.Context, customerID, draftID, tier string) (*models.BookingDraft, error)
	SubmitAnswers(ctx context.Context, customerID, draftID string, answers map[string]string) (*models.BookingDraft, error)
	SelectSlots(ctx context.Context, customerID, draftID string, slots []models.TimeSlot, consultation bool) (*models.BookingDraft, error)
	Submit(ctx context.Context, customerID, draftID string, clientTotal int64) (*SubmitResult, error)
	Cancel(ctx context.Context, customerID, draftID string) error
	GetDraft(ctx context.Context, customerID, draftID string) (*models.BookingDraft, error)
	ExpireStale(ctx context.Context, cutoff time.Time) (int, error)
	ReleaseExpiredHolds(ctx context.Context, now time.Time) (int, error)
}

// SubmitResult is returned when a draft successfully enters AWAITING_PAYMENT.
type SubmitResult struct {
	DraftID      string `json:"draftId"`
	Total        int64  `json:"total"`
	Currency     string `json:"currency"`
	ClientSecret string `json:"clientSecret"`
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	DraftRepo    draftRepo.DraftRepository
	Ledger       ledgerRepo.ReservationLedger
	Catalog      *SlotCatalog
	Orchestrator payment.PaymentOrchestrator
	Alerts       alertRepo.OperatorAlertRepository
	Notifier     notification.Service
	HoldTTL      time.Duration
	Logger       *zap.Logger
}
