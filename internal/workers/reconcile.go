// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/metrics"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// UncreditedFinder lists approved payments whose credit was never recorded.
// service.PaymentService satisfies it.
type UncreditedFinder interface {
	FindUncredited(ctx context.Context, olderThan time.Duration) ([]models.Payment, error)
}

// reconcileWorker reports approved payments that never got their points.
// It only detects; crediting again is left to an admin.
type reconcileWorker struct {
	payments UncreditedFinder
	metrics  *metrics.Metrics
	interval time.Duration
	grace    time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReconcileWorker creates an idle worker. A non-positive interval falls
// back to config.DefaultReconcileInterval.
func NewReconcileWorker(payments UncreditedFinder, m *metrics.Metrics, cfg config.Workers, logger *logger.Logger) Worker {
	interval := cfg.ReconcileInterval
	if interval <= 0 {
		interval = config.DefaultReconcileInterval
	}

	return &reconcileWorker{
		payments: payments,
		metrics:  m,
		interval: interval,
		grace:    cfg.ReconcileGrace,
		logger:   logger,
	}
}

// Start runs one pass right away and then one per interval.
func (w *reconcileWorker) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		w.reconcile(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				w.reconcile(jobCtx)
			}
		}
	}()
}

func (w *reconcileWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *reconcileWorker) reconcile(ctx context.Context) {
	payments, err := w.payments.FindUncredited(ctx, w.grace)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Err(err).Str("func", "reconcileWorker.reconcile").Msg("failed to look up uncredited payments")
		}
		return
	}

	for _, p := range payments {
		event := w.logger.Warn().
			Str("func", "reconcileWorker.reconcile").
			Str("payment_id", p.ID).
			Str("user_id", p.UserID).
			Int64("points", p.Points)
		if p.ApprovedAt != nil {
			event = event.Time("approved_at", *p.ApprovedAt)
		}
		event.Msg("approved payment was never credited")
	}
	w.metrics.SetUncreditedPayments(len(payments))
}
