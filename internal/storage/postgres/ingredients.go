package postgres

import (
	"context"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
)

func (p *PostgresStorage) CreateIngredientCheck(ctx context.Context, check *storage.IngredientCheck) error {
	if check.ID == uuid.Nil {
		check.ID = uuid.New()
	}
	check.CreatedAt = time.Now().UTC()

	suggestions := check.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	suggestionsJSON, err := marshalJSON(suggestions)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO ingredient_checks (id, user_id, raw_input, verdict, reason, suggestions, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = p.pool.Exec(ctx, query,
		check.ID,
		check.UserID,
		check.RawInput,
		check.Verdict,
		check.Reason,
		suggestionsJSON,
		check.Details,
		check.CreatedAt,
	)
	return err
}

func (p *PostgresStorage) ListIngredientChecks(ctx context.Context, userID string, limit int) ([]storage.IngredientCheck, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, user_id, raw_input, verdict, reason, suggestions, details, created_at
		FROM ingredient_checks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]storage.IngredientCheck, 0, limit)
	for rows.Next() {
		var check storage.IngredientCheck
		var suggestionsJSON []byte
		if err := rows.Scan(
			&check.ID,
			&check.UserID,
			&check.RawInput,
			&check.Verdict,
			&check.Reason,
			&suggestionsJSON,
			&check.Details,
			&check.CreatedAt,
		); err != nil {
			return nil, err
		}
		if check.Suggestions, err = unmarshalStrings(suggestionsJSON); err != nil {
			return nil, err
		}
		result = append(result, check)
	}
	return result, rows.Err()
}

func (p *PostgresStorage) DeleteIngredientCheck(ctx context.Context, userID string, id uuid.UUID) error {
	return p.deleteOwned(ctx, "ingredient_checks", userID, id)
}
