package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/metrics"
	"github.com/MKhiriev/go-quest-ledger/internal/notify"
	"github.com/MKhiriev/go-quest-ledger/internal/store"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
	"github.com/MKhiriev/go-quest-ledger/internal/validators"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// DefaultRejectReason is stored when an admin rejects without a reason.
const DefaultRejectReason = "invalid payment proof"

type paymentService struct {
	storage   store.Storage
	ledger    LedgerService
	catalog   models.Catalog
	notifier  notify.Notifier
	metrics   *metrics.Metrics
	validator validators.Validator
	ids       *utils.UUIDGenerator
	now       func() time.Time
	logger    *logger.Logger
}

func NewPaymentService(
	storage store.Storage,
	ledger LedgerService,
	catalog models.Catalog,
	notifier notify.Notifier,
	m *metrics.Metrics,
	logger *logger.Logger,
) PaymentService {
	return &paymentService{
		storage:   storage,
		ledger:    ledger,
		catalog:   catalog,
		notifier:  notifier,
		metrics:   m,
		validator: validators.NewInputValidator(),
		ids:       utils.NewUUIDGenerator(),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

func (p *paymentService) CheckPackage(ctx context.Context, packageType models.PackageType, points, amount int64) (models.Package, error) {
	pkg, ok := p.catalog.Lookup(packageType)
	if !ok || !p.catalog.Matches(packageType, points, amount) {
		logger.FromContext(ctx).Warn().
			Str("func", "paymentService.CheckPackage").
			Str("package_type", string(packageType)).
			Int64("points", points).
			Int64("amount", amount).
			Msg("submission does not match catalog")
		return models.Package{}, ErrInvalidCatalogEntry
	}
	return pkg, nil
}

// Submit validates the package against the catalog before anything is
// stored, then records the payment as pending.
func (p *paymentService) Submit(ctx context.Context, submission models.PaymentSubmission) (models.Payment, error) {
	log := logger.FromContext(ctx)

	pkg, err := p.CheckPackage(ctx, submission.PackageType, submission.Points, submission.Amount)
	if err != nil {
		return models.Payment{}, err
	}
	if err = p.validator.Validate(ctx, submission, validators.FieldProofReference); err != nil {
		return models.Payment{}, err
	}

	user, err := p.storage.GetUserByID(ctx, submission.UserID)
	if err != nil {
		log.Err(err).Str("func", "paymentService.Submit").Str("user_id", submission.UserID).Msg("payer lookup failed")
		return models.Payment{}, err
	}

	payment := models.Payment{
		ID:             p.ids.Generate(),
		UserID:         user.ID,
		UserName:       user.Name,
		UserEmail:      user.Email,
		PackageType:    submission.PackageType,
		PackageName:    pkg.Name,
		Points:         pkg.Points,
		Amount:         pkg.Price,
		Method:         strings.TrimSpace(submission.Method),
		ProofReference: submission.ProofReference,
		Status:         models.PaymentPending,
		CreatedAt:      p.now(),
	}

	if err = p.storage.CreatePayment(ctx, payment); err != nil {
		log.Err(err).Str("func", "paymentService.Submit").Str("user_id", user.ID).Msg("failed to store payment")
		return models.Payment{}, fmt.Errorf("storing payment: %w", err)
	}

	p.metrics.RecordPaymentTransition(metrics.TransitionSubmitted)
	p.notify(ctx, models.EventPaymentSubmitted, payment, map[string]string{
		"package": payment.PackageName,
		"amount":  strconv.FormatInt(payment.Amount, 10),
		"method":  payment.Method,
	})

	return payment, nil
}

// Approve moves a pending payment to approved, credits its points and then
// marks it credited. When the credit fails the payment stays approved
// without CreditedAt and ErrPaymentNotCredited is returned.
func (p *paymentService) Approve(ctx context.Context, paymentID string) (models.Payment, error) {
	log := logger.FromContext(ctx)

	approved := models.PaymentApproved
	approvedAt := p.now()
	payment, err := p.transition(ctx, paymentID, models.PaymentPatch{
		Status:     &approved,
		ApprovedAt: &approvedAt,
	})
	if err != nil {
		return models.Payment{}, err
	}
	p.metrics.RecordPaymentTransition(metrics.TransitionApproved)

	if _, err = p.ledger.Credit(ctx, payment.UserID, payment.Points); err != nil {
		log.Error().Err(err).
			Str("func", "paymentService.Approve").
			Str("payment_id", payment.ID).
			Str("user_id", payment.UserID).
			Int64("points", payment.Points).
			Msg("payment approved but credit failed")
		return payment, fmt.Errorf("%w: %w", ErrPaymentNotCredited, err)
	}

	creditedAt := p.now()
	credited, err := p.storage.UpdatePayment(ctx, payment.ID, models.PaymentPatch{CreditedAt: &creditedAt})
	if err != nil {
		// the points are in; reconciliation will list this payment
		log.Warn().Err(err).
			Str("func", "paymentService.Approve").
			Str("payment_id", payment.ID).
			Msg("credited but failed to mark payment")
	} else {
		payment = credited
	}

	p.notify(ctx, models.EventPaymentApproved, payment, map[string]string{
		"points": strconv.FormatInt(payment.Points, 10),
	})

	return payment, nil
}

func (p *paymentService) Reject(ctx context.Context, paymentID, reason string) (models.Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectReason
	}

	rejected := models.PaymentRejected
	rejectedAt := p.now()
	payment, err := p.transition(ctx, paymentID, models.PaymentPatch{
		Status:       &rejected,
		RejectedAt:   &rejectedAt,
		RejectReason: &reason,
	})
	if err != nil {
		return models.Payment{}, err
	}

	p.metrics.RecordPaymentTransition(metrics.TransitionRejected)
	p.notify(ctx, models.EventPaymentRejected, payment, map[string]string{"reason": reason})

	return payment, nil
}

// transition applies patch to a pending payment. A payment that is no
// longer pending, or stops being pending concurrently, gives
// ErrAlreadyProcessed.
func (p *paymentService) transition(ctx context.Context, paymentID string, patch models.PaymentPatch) (models.Payment, error) {
	log := logger.FromContext(ctx)

	current, err := p.storage.GetPaymentByID(ctx, paymentID)
	if err != nil {
		log.Err(err).Str("func", "paymentService.transition").Str("payment_id", paymentID).Msg("payment lookup failed")
		return models.Payment{}, err
	}
	if current.Status.IsTerminal() {
		return models.Payment{}, ErrAlreadyProcessed
	}

	pending := models.PaymentPending
	patch.ExpectedStatus = &pending

	updated, err := p.storage.UpdatePayment(ctx, paymentID, patch)
	if errors.Is(err, store.ErrPaymentStateConflict) {
		log.Info().Str("func", "paymentService.transition").Str("payment_id", paymentID).Msg("payment decided concurrently")
		return models.Payment{}, ErrAlreadyProcessed
	}
	if err != nil {
		log.Err(err).Str("func", "paymentService.transition").Str("payment_id", paymentID).Msg("failed to update payment")
		return models.Payment{}, err
	}

	return updated, nil
}

func (p *paymentService) Get(ctx context.Context, paymentID string) (models.Payment, error) {
	return p.storage.GetPaymentByID(ctx, paymentID)
}

func (p *paymentService) ListAll(ctx context.Context) ([]models.Payment, error) {
	return p.storage.ListPayments(ctx)
}

func (p *paymentService) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	return p.storage.ListPaymentsByUser(ctx, userID)
}

func (p *paymentService) FindUncredited(ctx context.Context, olderThan time.Duration) ([]models.Payment, error) {
	payments, err := p.storage.ListPayments(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := p.now().Add(-olderThan)
	return slices.DeleteFunc(payments, func(pm models.Payment) bool {
		return pm.Status != models.PaymentApproved ||
			pm.CreditedAt != nil ||
			pm.ApprovedAt == nil ||
			pm.ApprovedAt.After(cutoff)
	}), nil
}

func (p *paymentService) notify(ctx context.Context, eventType models.EventType, payment models.Payment, attributes map[string]string) {
	p.notifier.Notify(ctx, models.Event{
		Type:       eventType,
		Recipient:  payment.UserEmail,
		UserID:     payment.UserID,
		PaymentID:  payment.ID,
		Attributes: attributes,
		OccurredAt: p.now(),
	})
}
