package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Проверка, что DealRepository удовлетворяет интерфейсу DealRepository.
var _ ports.DealRepository = (*DealRepository)(nil)

// uniqueViolation — SQLSTATE нарушения уникальности.
const uniqueViolation = "23505"

const selectDealColumns = `SELECT deal_id, from_currency, to_currency, deal_timestamp, deal_amount::text FROM fx_deals`

// DealRepository — реализация репозитория сделок на Postgres (pgxpool).
type DealRepository struct {
	pool *pgxpool.Pool
}

// NewDealRepository - конструктор DealRepository.
func NewDealRepository(pool *pgxpool.Pool) *DealRepository { return &DealRepository{pool: pool} }

// Exists — есть ли сделка с таким dealId.
func (r *DealRepository) Exists(ctx context.Context, dealID string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM fx_deals WHERE deal_id = $1)`, dealID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("select exists: %w", err)
	}
	return exists, nil
}

// Save — вставка без upsert: первичный ключ отвергает повторный dealId, это domain.ErrDealExists.
func (r *DealRepository) Save(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	if deal == nil || deal.DealID == "" {
		return nil, errors.New("deal is empty or deal_id is required")
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO fx_deals (deal_id, from_currency, to_currency, deal_timestamp, deal_amount)
		VALUES ($1, $2, $3, $4, $5::numeric)
	`, deal.DealID, deal.FromCurrency, deal.ToCurrency, deal.DealTimestamp, domain.FormatAmount(deal.DealAmount))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("insert deal %q: %w", deal.DealID, domain.ErrDealExists)
		}
		return nil, fmt.Errorf("insert deal: %w", err)
	}
	return deal.Clone(), nil
}

// GetByID — сделка по dealId. Если не нашли, возвращает (nil, nil).
func (r *DealRepository) GetByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	deal, err := scanDeal(r.pool.QueryRow(ctx, selectDealColumns+` WHERE deal_id = $1`, dealID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select deal: %w", err)
	}
	return deal, nil
}

// FindAll — все сделки в порядке записи.
func (r *DealRepository) FindAll(ctx context.Context) ([]*domain.Deal, error) {
	return r.query(ctx, selectDealColumns+` ORDER BY seq`)
}

// LastN — последние N записанных сделок (для прогрева кэша).
func (r *DealRepository) LastN(ctx context.Context, n int) ([]*domain.Deal, error) {
	if n <= 0 {
		return nil, nil
	}
	return r.query(ctx, selectDealColumns+` ORDER BY seq DESC LIMIT $1`, n)
}

// Count — число сделок.
func (r *DealRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM fx_deals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count deals: %w", err)
	}
	return n, nil
}

func (r *DealRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Deal, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select deals: %w", err)
	}
	defer rows.Close()

	deals := make([]*domain.Deal, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("deals rows: %w", err)
	}
	return deals, nil
}

// scanDeal — сумма читается текстом, чтобы сохранить масштаб (1000.50).
func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var (
		deal   domain.Deal
		amount string
	)
	if err := row.Scan(&deal.DealID, &deal.FromCurrency, &deal.ToCurrency, &deal.DealTimestamp, &amount); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	deal.DealAmount = parsed
	deal.DealTimestamp = deal.DealTimestamp.UTC()
	return &deal, nil
}
