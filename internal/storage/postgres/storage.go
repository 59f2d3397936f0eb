package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/zinsou/pharmapay/internal/domain/errors"
	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/domain/repository"
)

// reconcileBackoff keeps a selected payment out of subsequent reconciliation
// batches long enough for the current pass to apply it.
const reconcileBackoff = time.Minute

// pgxPool is the pool slice Storage needs, satisfied by *pgxpool.Pool and by
// pgxmock in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

type receiptRepository struct {
	storage *Storage
}

type auditRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Receipts() repository.ReceiptRepository {
	return &receiptRepository{storage: s}
}

func (s *Storage) Audits() repository.AuditRepository {
	return &auditRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            status TEXT NOT NULL,
            cost DOUBLE PRECISION NOT NULL,
            currency TEXT NOT NULL,
            items JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id TEXT PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            amount DOUBLE PRECISION NOT NULL,
            currency TEXT NOT NULL,
            gateway TEXT NOT NULL,
            transaction_id TEXT NOT NULL,
            status TEXT NOT NULL,
            receipt_id TEXT,
            receipt_number TEXT,
            reconcile_after TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (gateway, transaction_id)
        )`,
		`CREATE TABLE IF NOT EXISTS receipts (
            id TEXT PRIMARY KEY,
            payment_id TEXT UNIQUE NOT NULL REFERENCES payments(id),
            order_id TEXT NOT NULL,
            details JSONB NOT NULL,
            document BYTEA NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS receipt_counters (
            year INT PRIMARY KEY,
            last_number INT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
            id TEXT PRIMARY KEY,
            payment_id TEXT NOT NULL DEFAULT '',
            order_id TEXT NOT NULL DEFAULT '',
            action TEXT NOT NULL,
            gateway_response JSONB,
            error_details TEXT NOT NULL DEFAULT '',
            user_id TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_order_succeeded
            ON payments(order_id) WHERE status = 'succeeded'`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_payment ON audit_logs(payment_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_order ON audit_logs(order_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	const query = `SELECT id, status, cost, currency, items, created_at, updated_at FROM orders WHERE id=$1`
	var (
		o     model.Order
		items []byte
	)
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&o.ID, &o.Status, &o.Cost, &o.Currency, &items, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order items: %w", err)
		}
	}
	return &o, nil
}

func (r *orderRepository) ClaimForPayment(ctx context.Context, orderID string) (bool, error) {
	const query = `UPDATE orders SET status='payment_in_flight', updated_at=NOW()
                   WHERE id=$1 AND status='awaiting_payment'`
	tag, err := r.storage.pool.Exec(ctx, query, orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepository) ReleaseClaim(ctx context.Context, orderID string) error {
	const query = `UPDATE orders SET status='awaiting_payment', updated_at=NOW()
                   WHERE id=$1 AND status='payment_in_flight'`
	_, err := r.storage.pool.Exec(ctx, query, orderID)
	return err
}

func (r *orderRepository) MarkPaid(ctx context.Context, orderID string) error {
	const query = `UPDATE orders SET status='paid', updated_at=NOW()
                   WHERE id=$1 AND status IN ('awaiting_payment', 'payment_in_flight')`
	_, err := r.storage.pool.Exec(ctx, query, orderID)
	return err
}

// --- PaymentRepository implementation ---

const paymentColumns = `id, order_id, amount, currency, gateway, transaction_id, status,
                        receipt_id, receipt_number, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Currency, &p.Gateway, &p.TransactionID,
		&p.Status, &p.ReceiptID, &p.ReceiptNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	const query = `INSERT INTO payments (id, order_id, amount, currency, gateway, transaction_id, status, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.storage.pool.Exec(ctx, query,
		payment.ID, payment.OrderID, payment.Amount, payment.Currency,
		payment.Gateway, payment.TransactionID, payment.Status,
		payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, paymentID string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	return scanPayment(r.storage.pool.QueryRow(ctx, query, paymentID))
}

func (r *paymentRepository) GetByTransaction(ctx context.Context, gateway model.Gateway, transactionID string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway=$1 AND transaction_id=$2`
	return scanPayment(r.storage.pool.QueryRow(ctx, query, gateway, transactionID))
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID string) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) HasSucceededForOrder(ctx context.Context, orderID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM payments WHERE order_id=$1 AND status='succeeded')`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, paymentID string, status model.PaymentStatus) error {
	const query = `UPDATE payments SET status=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, status, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) AttachReceipt(ctx context.Context, paymentID, receiptID, receiptNumber string) error {
	const query = `UPDATE payments SET receipt_id=$1, receipt_number=$2, updated_at=NOW() WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, receiptID, receiptNumber, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) SelectUnapplied(ctx context.Context, limit int) ([]model.Payment, error) {
	const selectQuery = `SELECT p.id, p.order_id, p.amount, p.currency, p.gateway, p.transaction_id, p.status,
                                p.receipt_id, p.receipt_number, p.created_at, p.updated_at
                         FROM payments p
                         JOIN orders o ON o.id = p.order_id
                         WHERE p.status = 'succeeded'
                           AND p.reconcile_after <= NOW()
                           AND (p.receipt_id IS NULL OR o.status IN ('awaiting_payment', 'payment_in_flight'))
                         ORDER BY p.created_at
                         LIMIT $1
                         FOR UPDATE OF p SKIP LOCKED`

	var payments []model.Payment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPayment(rows)
			if err != nil {
				return err
			}
			payments = append(payments, *p)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, p := range payments {
			if _, err := tx.Exec(ctx, `UPDATE payments SET reconcile_after=NOW() + $1::interval WHERE id=$2`,
				reconcileBackoff.String(), p.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// --- ReceiptRepository implementation ---

func (r *receiptRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	details, err := json.Marshal(receipt.Details)
	if err != nil {
		return fmt.Errorf("encode receipt details: %w", err)
	}

	const query = `INSERT INTO receipts (id, payment_id, order_id, details, document, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.storage.pool.Exec(ctx, query, receipt.ID, receipt.PaymentID, receipt.OrderID, details, receipt.Document, receipt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func scanReceipt(row pgx.Row) (*model.Receipt, error) {
	var (
		receipt model.Receipt
		details []byte
	)
	err := row.Scan(&receipt.ID, &receipt.PaymentID, &receipt.OrderID, &details, &receipt.Document, &receipt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(details, &receipt.Details); err != nil {
		return nil, fmt.Errorf("decode receipt details: %w", err)
	}
	return &receipt, nil
}

func (r *receiptRepository) GetByID(ctx context.Context, receiptID string) (*model.Receipt, error) {
	const query = `SELECT id, payment_id, order_id, details, document, created_at FROM receipts WHERE id=$1`
	return scanReceipt(r.storage.pool.QueryRow(ctx, query, receiptID))
}

func (r *receiptRepository) GetByPaymentID(ctx context.Context, paymentID string) (*model.Receipt, error) {
	const query = `SELECT id, payment_id, order_id, details, document, created_at FROM receipts WHERE payment_id=$1`
	return scanReceipt(r.storage.pool.QueryRow(ctx, query, paymentID))
}

// NextNumber allocates the next receipt sequence number for the year. The
// upsert increments under the row lock, so numbers are strictly increasing
// and never reused. A number consumed by a generation that later fails is
// not reclaimed.
func (r *receiptRepository) NextNumber(ctx context.Context, year int) (int, error) {
	const query = `INSERT INTO receipt_counters (year, last_number) VALUES ($1, 1)
                   ON CONFLICT (year) DO UPDATE SET last_number = receipt_counters.last_number + 1
                   RETURNING last_number`
	var number int
	if err := r.storage.pool.QueryRow(ctx, query, year).Scan(&number); err != nil {
		return 0, err
	}
	return number, nil
}

// --- AuditRepository implementation ---

func (r *auditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	var response []byte
	if entry.GatewayResponse != nil {
		encoded, err := json.Marshal(entry.GatewayResponse)
		if err != nil {
			return fmt.Errorf("encode gateway response: %w", err)
		}
		response = encoded
	}

	const query = `INSERT INTO audit_logs (id, payment_id, order_id, action, gateway_response, error_details, user_id, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.storage.pool.Exec(ctx, query,
		entry.ID, entry.PaymentID, entry.OrderID, entry.Action,
		response, entry.ErrorDetails, entry.UserID, entry.CreatedAt,
	)
	return err
}

func (r *auditRepository) List(ctx context.Context, paymentID, orderID string) ([]model.AuditEntry, error) {
	const query = `SELECT id, payment_id, order_id, action, gateway_response, error_details, user_id, created_at
                   FROM audit_logs
                   WHERE ($1 = '' OR payment_id = $1) AND ($2 = '' OR order_id = $2)
                   ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, paymentID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.AuditEntry
	for rows.Next() {
		var (
			entry    model.AuditEntry
			response []byte
		)
		if err := rows.Scan(&entry.ID, &entry.PaymentID, &entry.OrderID, &entry.Action,
			&response, &entry.ErrorDetails, &entry.UserID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(response) > 0 {
			if err := json.Unmarshal(response, &entry.GatewayResponse); err != nil {
				return nil, fmt.Errorf("decode gateway response: %w", err)
			}
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
