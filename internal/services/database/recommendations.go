package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"insurance-recommendation-engine/internal/models"
)

const recommendationLogSchema = `
	CREATE TABLE IF NOT EXISTS recommendation_log (
		id              BIGSERIAL PRIMARY KEY,
		request_id      TEXT NOT NULL,
		query           TEXT NOT NULL,
		rank            INTEGER NOT NULL,
		product_id      TEXT NOT NULL,
		relevance_score DOUBLE PRECISION NOT NULL,
		narrative_mode  TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (request_id, rank)
	)`

// RecommendationRepository records which products were served for each request.
type RecommendationRepository struct {
	db *DB
}

// NewRecommendationRepository creates a new recommendation log repository.
func NewRecommendationRepository(db *DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// EnsureSchema creates the recommendation_log table if it does not exist.
func (r *RecommendationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, recommendationLogSchema); err != nil {
		return fmt.Errorf("failed to create recommendation_log table: %w", err)
	}
	return nil
}

// Record stores every recommendation of an advice in one transaction.
func (r *RecommendationRepository) Record(ctx context.Context, advice *models.Advice) error {
	if len(advice.Recommendations) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		for i, rec := range advice.Recommendations {
			_, err := tx.Exec(ctx, `
				INSERT INTO recommendation_log (
					request_id, query, rank, product_id, relevance_score, narrative_mode, created_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (request_id, rank) DO NOTHING`,
				advice.RequestID,
				advice.Query,
				i+1,
				rec.ID,
				rec.RelevanceScore,
				advice.NarrativeMode,
				now,
			)
			if err != nil {
				return fmt.Errorf("failed to record recommendation %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// GetByRequestID retrieves the logged recommendations of one request in rank order.
func (r *RecommendationRepository) GetByRequestID(ctx context.Context, requestID string) ([]*models.RecommendationLogEntry, error) {
	query := `
		SELECT id, request_id, query, rank, product_id, relevance_score, narrative_mode, created_at
		FROM recommendation_log
		WHERE request_id = $1
		ORDER BY rank`

	rows, err := r.db.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendation log: %w", err)
	}
	defer rows.Close()

	var entries []*models.RecommendationLogEntry
	for rows.Next() {
		var e models.RecommendationLogEntry
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.Query, &e.Rank, &e.ProductID,
			&e.RelevanceScore, &e.NarrativeMode, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation log entry: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
