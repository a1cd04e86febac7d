package postgres

import (
	"context"
	"time"

	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/google/uuid"
)

func (p *PostgresStorage) CreateChatLog(ctx context.Context, log *storage.ChatLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO chat_logs (id, user_id, message, response, context_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var contextJSON any
	if len(log.Context) > 0 {
		contextJSON = log.Context
	}

	_, err := p.pool.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.Message,
		log.Response,
		contextJSON,
		log.CreatedAt,
	)
	return err
}

// seq follows insertion order, so turns written within one clock tick keep their order.
const listChatLogsQuery = `
	SELECT id, user_id, message, response, context_json, created_at
	FROM chat_logs
	WHERE user_id = $1
	ORDER BY seq DESC
	LIMIT $2
`

func (p *PostgresStorage) ListChatLogs(ctx context.Context, userID string, limit int) ([]storage.ChatLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := p.pool.Query(ctx, listChatLogsQuery, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]storage.ChatLog, 0, limit)
	for rows.Next() {
		var log storage.ChatLog
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Message,
			&log.Response,
			&log.Context,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
