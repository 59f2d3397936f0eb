package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// ReconcilerFacade exposes the subset of application functionality required
// by the worker.
type ReconcilerFacade interface {
	PaymentsForReconciliation(ctx context.Context, limit int) ([]model.Payment, error)
	ApplyPayment(ctx context.Context, payment model.Payment) error
}

// Reconciler periodically picks up succeeded payments whose side effects
// (order status, receipt) were lost to a crash and re-applies them
// concurrently.
type Reconciler struct {
	facade       ReconcilerFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Payment
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs reconciler worker pool.
func NewReconciler(facade ReconcilerFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Reconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Payment, batchSize*workers),
	}
}

// Start launches background reconciliation.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context) {
	payments, err := r.facade.PaymentsForReconciliation(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("fetch payments for reconciliation failed", slog.String("error", err.Error()))
		return
	}
	for _, payment := range payments {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- payment:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case payment, ok := <-r.jobs:
			if !ok {
				return
			}
			if err := r.facade.ApplyPayment(ctx, payment); err != nil {
				r.logger.Error("apply payment failed",
					slog.String("payment_id", payment.ID),
					slog.String("order_id", payment.OrderID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
