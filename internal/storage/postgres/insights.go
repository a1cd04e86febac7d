package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (p *PostgresStorage) UpsertInsight(ctx context.Context, insight *storage.Insight) error {
	if insight.ID == uuid.Nil {
		insight.ID = uuid.New()
	}
	insight.CreatedAt = time.Now().UTC()

	reasonsJSON, err := marshalJSON(nonNil(insight.Reasons))
	if err != nil {
		return err
	}
	actionsJSON, err := marshalJSON(nonNil(insight.NextActions))
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO insights (id, user_id, date, gap_summary, reasons, next_actions, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		ON CONFLICT (user_id, date) DO UPDATE SET
			gap_summary = EXCLUDED.gap_summary,
			reasons = EXCLUDED.reasons,
			next_actions = EXCLUDED.next_actions,
			created_at = EXCLUDED.created_at
		RETURNING id
	`

	return p.pool.QueryRow(ctx, query,
		insight.ID,
		insight.UserID,
		insight.Date,
		insight.GapSummary,
		reasonsJSON,
		actionsJSON,
		insight.CreatedAt,
	).Scan(&insight.ID)
}

func (p *PostgresStorage) GetInsight(ctx context.Context, userID, date string) (*storage.Insight, error) {
	const query = `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), gap_summary, reasons, next_actions, created_at
		FROM insights
		WHERE user_id = $1 AND date = $2::date
	`

	var insight storage.Insight
	var reasonsJSON, actionsJSON []byte
	err := p.pool.QueryRow(ctx, query, userID, date).Scan(
		&insight.ID,
		&insight.UserID,
		&insight.Date,
		&insight.GapSummary,
		&reasonsJSON,
		&actionsJSON,
		&insight.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if insight.Reasons, err = unmarshalStrings(reasonsJSON); err != nil {
		return nil, err
	}
	if insight.NextActions, err = unmarshalStrings(actionsJSON); err != nil {
		return nil, err
	}
	return &insight, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
