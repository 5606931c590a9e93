package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"flexcard/internal/platform/postgres"
	"flexcard/internal/profile/models"
	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/sentinel"
)

// PostgresStore reads profiles and links from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const profileColumns = `username, user_id, display_name, title, company, bio, avatar_url, cover_url,
	email, phone, website, location, created_at`

const linkColumns = `link_id, username, platform, url, title, position, is_active, clicks`

// PutProfile upserts a profile. Used by seeding and tests.
func (s *PostgresStore) PutProfile(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (username, user_id, display_name, title, company, bio, avatar_url, cover_url,
			email, phone, website, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (username) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			title = EXCLUDED.title,
			company = EXCLUDED.company,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			cover_url = EXCLUDED.cover_url,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			updated_at = NOW()
	`
	_, err := s.db.ExecContext(ctx, query,
		id.CanonicalUsername(p.Username.String()).String(), uuid.UUID(p.UserID),
		p.DisplayName, p.Title, p.Company, p.Bio, p.AvatarURL, p.CoverURL,
		p.Email, p.Phone, p.Website, p.Location,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

// DeleteProfile removes a profile; its links cascade, cards stay bound.
func (s *PostgresStore) DeleteProfile(ctx context.Context, username id.Username) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE username = $1`,
		id.CanonicalUsername(username.String()).String())
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// PutLink upserts a link. Used by seeding and tests.
func (s *PostgresStore) PutLink(ctx context.Context, l *models.Link) error {
	query := `
		INSERT INTO links (link_id, username, platform, url, title, position, is_active, clicks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (link_id) DO UPDATE SET
			platform = EXCLUDED.platform,
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			position = EXCLUDED.position,
			is_active = EXCLUDED.is_active
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(l.ID), id.CanonicalUsername(l.Username.String()).String(), string(l.Platform),
		l.URL, l.Title, l.Position, l.IsActive, l.Clicks,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("put link: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username id.Username) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`
	return s.findOne(ctx, query, id.CanonicalUsername(username.String()).String())
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return s.findOne(ctx, query, uuid.UUID(userID))
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Profile, error) {
	var (
		p        models.Profile
		username string
		userID   uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&username, &userID, &p.DisplayName, &p.Title, &p.Company, &p.Bio, &p.AvatarURL, &p.CoverURL,
		&p.Email, &p.Phone, &p.Website, &p.Location, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	p.Username = id.Username(username)
	p.UserID = id.UserID(userID)
	return &p, nil
}

func (s *PostgresStore) ListActiveByUsername(ctx context.Context, username id.Username) ([]*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links
		WHERE username = $1 AND is_active
		ORDER BY position, link_id`
	return s.listLinks(ctx, query, id.CanonicalUsername(username.String()).String())
}

func (s *PostgresStore) ListByUsername(ctx context.Context, username id.Username) ([]*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links
		WHERE username = $1
		ORDER BY position, link_id`
	return s.listLinks(ctx, query, id.CanonicalUsername(username.String()).String())
}

func (s *PostgresStore) listLinks(ctx context.Context, query string, args ...any) ([]*models.Link, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	links := make([]*models.Link, 0)
	for rows.Next() {
		var (
			l        models.Link
			linkID   uuid.UUID
			username string
			platform string
		)
		if err := rows.Scan(&linkID, &username, &platform, &l.URL, &l.Title, &l.Position, &l.IsActive, &l.Clicks); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		l.ID = models.LinkID(linkID)
		l.Username = id.Username(username)
		l.Platform = id.Platform(platform)
		links = append(links, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// IncrementClicks is a conditional update: a link owned by someone else
// matches no row and reports ErrNotFound.
func (s *PostgresStore) IncrementClicks(ctx context.Context, username id.Username, linkID models.LinkID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE links SET clicks = clicks + 1 WHERE link_id = $1 AND username = $2`,
		uuid.UUID(linkID), id.CanonicalUsername(username.String()).String(),
	)
	if err != nil {
		return fmt.Errorf("increment link clicks: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment link clicks rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
