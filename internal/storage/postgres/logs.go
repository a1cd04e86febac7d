package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
)

func (p *PostgresStorage) CreateFoodLog(ctx context.Context, log *storage.FoodLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now().UTC()

	items := log.Items
	if items == nil {
		items = []storage.FoodLogItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal food items: %w", err)
	}

	const query = `
		INSERT INTO food_logs (id, user_id, date, meal_type, raw_input, items_json,
		                       total_kcal_min, total_kcal_max, cautions, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = p.pool.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.Date,
		log.MealType,
		log.RawInput,
		itemsJSON,
		log.TotalKcalMin,
		log.TotalKcalMax,
		log.Cautions,
		log.CreatedAt,
	)
	return err
}

func (p *PostgresStorage) ListFoodLogs(ctx context.Context, userID, from, to string) ([]storage.FoodLog, error) {
	const query = `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), meal_type, raw_input, items_json,
		       total_kcal_min, total_kcal_max, cautions, created_at
		FROM food_logs
		WHERE user_id = $1
		  AND ($2 = '' OR date >= $2::date)
		  AND ($3 = '' OR date <= $3::date)
		ORDER BY date DESC, created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]storage.FoodLog, 0)
	for rows.Next() {
		var log storage.FoodLog
		var itemsJSON []byte
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Date,
			&log.MealType,
			&log.RawInput,
			&itemsJSON,
			&log.TotalKcalMin,
			&log.TotalKcalMax,
			&log.Cautions,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &log.Items); err != nil {
				return nil, fmt.Errorf("decode food items: %w", err)
			}
		}
		result = append(result, log)
	}
	return result, rows.Err()
}

func (p *PostgresStorage) DeleteFoodLog(ctx context.Context, userID string, id uuid.UUID) error {
	return p.deleteOwned(ctx, "food_logs", userID, id)
}

func (p *PostgresStorage) CreateWorkoutLog(ctx context.Context, log *storage.WorkoutLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO workout_logs (id, user_id, date, workout_type, duration_minutes, notes, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.Date,
		log.WorkoutType,
		log.DurationMinutes,
		log.Notes,
		log.CreatedAt,
	)
	return err
}

func (p *PostgresStorage) ListWorkoutLogs(ctx context.Context, userID, from, to string) ([]storage.WorkoutLog, error) {
	const query = `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), workout_type, duration_minutes, notes, created_at
		FROM workout_logs
		WHERE user_id = $1
		  AND ($2 = '' OR date >= $2::date)
		  AND ($3 = '' OR date <= $3::date)
		ORDER BY date DESC, created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]storage.WorkoutLog, 0)
	for rows.Next() {
		var log storage.WorkoutLog
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Date,
			&log.WorkoutType,
			&log.DurationMinutes,
			&log.Notes,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}

func (p *PostgresStorage) DeleteWorkoutLog(ctx context.Context, userID string, id uuid.UUID) error {
	return p.deleteOwned(ctx, "workout_logs", userID, id)
}

func (p *PostgresStorage) CreateBodyLog(ctx context.Context, log *storage.BodyLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO body_logs (id, user_id, date, weight_kg, notes, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.Date,
		log.WeightKG,
		log.Notes,
		log.CreatedAt,
	)
	return err
}

func (p *PostgresStorage) ListBodyLogs(ctx context.Context, userID, from, to string) ([]storage.BodyLog, error) {
	const query = `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), weight_kg, notes, created_at
		FROM body_logs
		WHERE user_id = $1
		  AND ($2 = '' OR date >= $2::date)
		  AND ($3 = '' OR date <= $3::date)
		ORDER BY date DESC, created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]storage.BodyLog, 0)
	for rows.Next() {
		var log storage.BodyLog
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Date,
			&log.WeightKG,
			&log.Notes,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}

func (p *PostgresStorage) DeleteBodyLog(ctx context.Context, userID string, id uuid.UUID) error {
	return p.deleteOwned(ctx, "body_logs", userID, id)
}

// deleteOwned removes a row by id only when it belongs to userID. table is never user input.
func (p *PostgresStorage) deleteOwned(ctx context.Context, table, userID string, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table)

	tag, err := p.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
