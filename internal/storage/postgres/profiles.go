package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/jackc/pgx/v5"
)

func (p *PostgresStorage) GetProfile(ctx context.Context, userID string) (*storage.Profile, error) {
	const query = `
		SELECT user_id, goal_type, height_cm, start_weight_kg, target_weight_kg,
		       activity_level, age, gender, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var prof storage.Profile
	err := p.pool.QueryRow(ctx, query, strings.TrimSpace(userID)).Scan(
		&prof.UserID,
		&prof.GoalType,
		&prof.HeightCM,
		&prof.StartWeightKG,
		&prof.TargetWeightKG,
		&prof.ActivityLevel,
		&prof.Age,
		&prof.Gender,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

func (p *PostgresStorage) UpsertProfile(ctx context.Context, profile *storage.Profile) error {
	const query = `
		INSERT INTO profiles (user_id, goal_type, height_cm, start_weight_kg, target_weight_kg,
		                      activity_level, age, gender, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			goal_type = EXCLUDED.goal_type,
			height_cm = EXCLUDED.height_cm,
			start_weight_kg = EXCLUDED.start_weight_kg,
			target_weight_kg = EXCLUDED.target_weight_kg,
			activity_level = EXCLUDED.activity_level,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	profile.UserID = strings.TrimSpace(profile.UserID)
	now := time.Now().UTC()

	return p.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.GoalType,
		profile.HeightCM,
		profile.StartWeightKG,
		profile.TargetWeightKG,
		profile.ActivityLevel,
		profile.Age,
		profile.Gender,
		now,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}
