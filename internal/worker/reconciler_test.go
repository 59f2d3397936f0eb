package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/zinsou/pharmapay/internal/domain/model"
	testhelpers "github.com/zinsou/pharmapay/internal/test"
)

func TestNewReconcilerDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rec := NewReconciler(&testhelpers.ReconcilerFacadeStub{}, time.Second, 0, 0, logger)
	if rec.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", rec.batchSize)
	}
	if rec.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", rec.workers)
	}
}

func TestReconcilerAppliesPayments(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.ReconcilerFacadeStub{Batches: [][]model.Payment{
		{{ID: "p1", OrderID: "O1", Status: model.PaymentStatusSucceeded}},
	}}
	rec := NewReconciler(facade, 10*time.Millisecond, 1, 2, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		applied := len(facade.Applied) > 0
		facade.Unlock()
		if applied {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for reconciliation")
		case <-time.After(10 * time.Millisecond):
		}
	}

	rec.Stop()
	facade.Lock()
	defer facade.Unlock()
	if facade.Applied[0].ID != "p1" {
		t.Fatalf("expected p1 applied, got %+v", facade.Applied)
	}
}

func TestReconcilerContinuesAfterApplyError(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	applied := make(chan string, 2)
	facade := &testhelpers.ReconcilerFacadeStub{
		Batches: [][]model.Payment{
			{{ID: "p1", OrderID: "O1"}},
			{{ID: "p2", OrderID: "O2"}},
		},
		ApplyFn: func(_ context.Context, payment model.Payment) error {
			applied <- payment.ID
			if payment.ID == "p1" {
				return errors.New("boom")
			}
			return nil
		},
	}
	rec := NewReconciler(facade, 5*time.Millisecond, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)
	defer rec.Stop()

	seen := make(map[string]bool)
	deadline := time.After(time.Second)
	for len(seen) < 2 {
		select {
		case id := <-applied:
			seen[id] = true
		case <-deadline:
			t.Fatalf("timeout, applied so far: %v", seen)
		}
	}
}

func TestReconcilerStopIsIdempotent(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rec := NewReconciler(&testhelpers.ReconcilerFacadeStub{}, 10*time.Millisecond, 1, 1, logger)

	rec.Start(context.Background())
	rec.Stop()
	rec.Stop()
}
