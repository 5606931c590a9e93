package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"flexcard/internal/card/models"
	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/sentinel"
	"flexcard/pkg/platform/tx"
)

// PostgresStore persists cards in PostgreSQL.
// Activation is a single conditional UPDATE so concurrent attempts on one
// card serialise on the row lock and at most one matches.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const cardColumns = `card_id, state, bound_username, bound_user_id, activated_at, batch_name, created_at`

func (s *PostgresStore) FindByID(ctx context.Context, cardID id.CardID) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_id = $1`
	card, err := scanCard(tx.Q(ctx, s.db).QueryRowContext(ctx, query, id.CanonicalCardID(cardID.String()).String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return card, nil
}

// CreateIfAbsent inserts card unless the id exists; an existing row is
// returned as-is, never reset.
func (s *PostgresStore) CreateIfAbsent(ctx context.Context, card *models.Card) (*models.Card, bool, error) {
	key := id.CanonicalCardID(card.ID.String())
	query := `
		INSERT INTO cards (card_id, state, batch_name, created_at)
		VALUES ($1, 'unactivated', $2, $3)
		ON CONFLICT (card_id) DO NOTHING
		RETURNING ` + cardColumns
	created, err := scanCard(tx.Q(ctx, s.db).QueryRowContext(ctx, query, key.String(), card.BatchName, card.CreatedAt))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("create card: %w", err)
	}
	existing, err := s.FindByID(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *PostgresStore) ActivateIfUnactivated(ctx context.Context, cardID id.CardID, username id.Username, userID id.UserID, at time.Time) (*models.Card, error) {
	key := id.CanonicalCardID(cardID.String())
	query := `
		UPDATE cards
		SET state = 'activated', bound_username = $2, bound_user_id = $3, activated_at = $4
		WHERE card_id = $1 AND state = 'unactivated'
		RETURNING ` + cardColumns
	card, err := scanCard(tx.Q(ctx, s.db).QueryRowContext(ctx, query,
		key.String(), username.String(), uuid.UUID(userID), at,
	))
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activate card: %w", err)
	}

	// No row matched: tell "unknown" apart from "lost the race / already bound".
	var exists bool
	if err := tx.Q(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cards WHERE card_id = $1)`, key.String(),
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("activate card existence check: %w", err)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return nil, sentinel.ErrAlreadyUsed
}

// ProvisionBatch inserts all cards in one transaction and returns the ids that
// were new. Ids already present are left untouched.
func (s *PostgresStore) ProvisionBatch(ctx context.Context, cards []*models.Card) ([]id.CardID, error) {
	if len(cards) == 0 {
		return nil, nil
	}
	ids := make([]string, len(cards))
	batches := make([]string, len(cards))
	createdAt := cards[0].CreatedAt
	for i, c := range cards {
		ids[i] = id.CanonicalCardID(c.ID.String()).String()
		batches[i] = c.BatchName
	}

	var created []id.CardID
	err := tx.RunInTx(ctx, s.db, func(ctx context.Context) error {
		rows, err := tx.Q(ctx, s.db).QueryContext(ctx, `
			INSERT INTO cards (card_id, state, batch_name, created_at)
			SELECT t.card_id, 'unactivated', t.batch_name, $3
			FROM unnest($1::text[], $2::text[]) AS t(card_id, batch_name)
			ON CONFLICT (card_id) DO NOTHING
			RETURNING card_id`,
			pq.Array(ids), pq.Array(batches), createdAt,
		)
		if err != nil {
			return fmt.Errorf("provision cards: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var cardID string
			if err := rows.Scan(&cardID); err != nil {
				return fmt.Errorf("scan provisioned card: %w", err)
			}
			created = append(created, id.CardID(cardID))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE bound_user_id = $1 AND state = 'activated'
		ORDER BY activated_at DESC, card_id`
	rows, err := tx.Q(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list cards by user: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cards by user: %w", err)
	}
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var (
		card        models.Card
		cardID      string
		state       string
		username    sql.NullString
		userID      uuid.NullUUID
		activatedAt sql.NullTime
	)
	if err := row.Scan(&cardID, &state, &username, &userID, &activatedAt, &card.BatchName, &card.CreatedAt); err != nil {
		return nil, err
	}
	card.ID = id.CardID(cardID)
	card.State = models.CardState(state)
	if username.Valid {
		card.BoundUsername = id.Username(username.String)
	}
	if userID.Valid {
		card.BoundUserID = id.UserID(userID.UUID)
	}
	if activatedAt.Valid {
		at := activatedAt.Time
		card.ActivatedAt = &at
	}
	return &card, nil
}
