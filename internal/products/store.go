package products

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
)

// Schema is applied at startup. seo_tags is a native text array; pq handles
// the round trip.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL,
	price             DOUBLE PRECISION NOT NULL DEFAULT 0,
	quantity          INTEGER NOT NULL DEFAULT 1,
	image_url         TEXT NOT NULL DEFAULT '',
	seo_tags          TEXT[] NOT NULL DEFAULT '{}',
	reach_chance      DOUBLE PRECISION,
	recommended_price DOUBLE PRECISION,
	seo_tip           TEXT NOT NULL DEFAULT '',
	type              TEXT NOT NULL,
	artisan_id        TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_artisan ON products (artisan_id);
CREATE INDEX IF NOT EXISTS idx_products_created ON products (created_at DESC);

CREATE TABLE IF NOT EXISTS artisans (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT ''
);
`

// PostgresStore persists products in PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: log}
}

// EnsureSchema creates the products table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

const insertProductSQL = `
INSERT INTO products (
	id, title, description, price, quantity, image_url, seo_tags,
	reach_chance, recommended_price, seo_tip, type, artisan_id,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

// Create inserts a new product row.
func (s *PostgresStore) Create(ctx context.Context, p *models.Product) error {
	_, err := s.db.ExecContext(ctx, insertProductSQL,
		p.ID, p.Title, p.Description, p.Price, p.Quantity, p.ImageURL,
		pq.Array(p.SEOTags), p.ReachChance, p.RecommendedPrice, p.SEOTip,
		p.Type, p.ArtisanID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.logger.Debug("product inserted", map[string]interface{}{"productId": p.ID})
	return nil
}

const selectProductSQL = `
SELECT id, title, description, price, quantity, image_url, seo_tags,
	reach_chance, recommended_price, seo_tip, type, artisan_id,
	created_at, updated_at
FROM products`

// GetByID fetches a single product, or a typed not-found error.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, selectProductSQL+" WHERE id = $1", id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewProductNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns products ordered newest first.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		selectProductSQL+" ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var tags pq.StringArray
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Quantity, &p.ImageURL,
		&tags, &p.ReachChance, &p.RecommendedPrice, &p.SEOTip,
		&p.Type, &p.ArtisanID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.SEOTags = tags
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return &p, nil
}
