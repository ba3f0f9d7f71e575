package cashcard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Laieb786/tutorial-spring-boot/cashcard/models"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var ErrNotFound = fmt.Errorf("not found")

// sortColumns whitelists the ORDER BY columns; the sort field never reaches
// SQL as raw caller input.
var sortColumns = map[models.SortField]string{
	models.SortByAmount: "amount",
	models.SortByID:     "card_id",
}

// Repository stores cash card records scoped by owner. It runs either
// in-memory (guarded by the mutex) or against Postgres when db is set.
// All lookups filter by owner in the store itself; a record owned by someone
// else is indistinguishable from one that does not exist.
type Repository struct {
	mu     sync.RWMutex
	cards  []*models.CashCard
	nextID int64

	db *sql.DB
}

// NewRepository constructs an in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		cards:  make([]*models.CashCard, 0),
		nextID: 1,
	}
}

// NewPGRepository constructs a db-backed repository.
func NewPGRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the card with the given id if it belongs to ownerID, and
// ErrNotFound otherwise.
func (r *Repository) Get(ctx context.Context, id int64, ownerID string) (*models.CashCard, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		for _, c := range r.cards {
			if c.ID == id && c.OwnerID == ownerID {
				card := *c
				return &card, nil
			}
		}
		return nil, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT card_id, amount, owner_id FROM cashcards.cards
		 WHERE card_id=$1 AND owner_id=$2
	`, id, ownerID)

	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return card, nil
}

// List returns one page of ownerID's cards in the requested order together
// with the owner's total card count. A page past the end of the data yields
// an empty slice and the correct total.
func (r *Repository) List(ctx context.Context, ownerID string, page models.PageRequest) ([]models.CashCard, int, error) {
	if r.db == nil {
		return r.listMem(ownerID, page)
	}
	return r.listPG(ctx, ownerID, page)
}

func (r *Repository) listMem(ownerID string, page models.PageRequest) ([]models.CashCard, int, error) {
	r.mu.RLock()
	matched := make([]models.CashCard, 0)
	for _, c := range r.cards {
		if c.OwnerID == ownerID {
			matched = append(matched, *c)
		}
	}
	r.mu.RUnlock()

	total := len(matched)

	sort.Slice(matched, func(i, j int) bool {
		return page.Less(matched[i], matched[j])
	})

	offset := page.Offset()
	if offset < 0 || offset >= total {
		return []models.CashCard{}, total, nil
	}
	end := offset + page.Size
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *Repository) listPG(ctx context.Context, ownerID string, page models.PageRequest) ([]models.CashCard, int, error) {
	// Repeatable read pins both statements to one snapshot; at read
	// committed the count and the rows could straddle a concurrent insert.
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	var total int
	err = tx.QueryRowContext(ctx, `
		SELECT count(*) FROM cashcards.cards WHERE owner_id=$1
	`, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	direction := "ASC"
	if page.Direction == models.Descending {
		direction = "DESC"
	}
	column, ok := sortColumns[page.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unknown sort field %q: %w", page.SortBy, models.ErrInvalidArgument)
	}

	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`
		SELECT card_id, amount, owner_id FROM cashcards.cards
		 WHERE owner_id=$1
		 ORDER BY %s %s, card_id ASC
		 LIMIT $2 OFFSET $3
	`, column, direction), ownerID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	cards := make([]models.CashCard, 0, page.Size)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, 0, err
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// Create allocates a fresh id and persists {id, amount, ownerID} as one
// atomic step; no concurrent call can observe the record without its id or
// receive the same id.
func (r *Repository) Create(ctx context.Context, amount decimal.Decimal, ownerID string) (*models.CashCard, error) {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		card := &models.CashCard{
			ID:      r.nextID,
			Amount:  amount,
			OwnerID: ownerID,
		}
		r.nextID++
		r.cards = append(r.cards, card)
		out := *card
		return &out, nil
	}

	// Id allocation and insert happen in a single statement; the sequence
	// behind card_id never hands out the same value twice.
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO cashcards.cards(amount, owner_id)
		VALUES ($1, $2)
		RETURNING card_id, amount, owner_id
	`, amount.StringFixed(2), ownerID)

	card, err := scanCard(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("card id collision: %w", err)
		}
		return nil, err
	}
	return card, nil
}

// Seed inserts records with explicit ids, advancing id allocation past them.
// It backs the demo fixtures and tests; regular creation goes through Create.
func (r *Repository) Seed(ctx context.Context, cards []models.CashCard) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i := range cards {
			card := cards[i]
			for _, existing := range r.cards {
				if existing.ID == card.ID {
					return fmt.Errorf("seed: duplicate card id %d", card.ID)
				}
			}
			r.cards = append(r.cards, &card)
			if card.ID >= r.nextID {
				r.nextID = card.ID + 1
			}
		}
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, card := range cards {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cashcards.cards(card_id, amount, owner_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (card_id) DO NOTHING
		`, card.ID, card.Amount.StringFixed(2), card.OwnerID)
		if err != nil {
			return err
		}
	}

	// Keep the sequence ahead of explicitly seeded ids.
	if _, err := tx.ExecContext(ctx, `
		SELECT setval('cashcards.cards_card_id_seq', (SELECT max(card_id) FROM cashcards.cards))
	`); err != nil {
		return err
	}

	return tx.Commit()
}

const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS cashcards;
CREATE TABLE IF NOT EXISTS cashcards.cards (
	card_id    BIGSERIAL PRIMARY KEY,
	amount     NUMERIC(14,2) NOT NULL,
	owner_id   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS cards_owner_idx ON cashcards.cards(owner_id);
`

// Migrate creates the schema for the db backend. No-op for the memory backend.
func (r *Repository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, schemaDDL)
	return err
}

// Ping returns store readiness.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.CashCard, error) {
	var card models.CashCard
	var amount string
	if err := row.Scan(&card.ID, &amount, &card.OwnerID); err != nil {
		return nil, err
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parsing stored amount: %w", err)
	}
	card.Amount = dec
	return &card, nil
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
