package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so callers can
// ensure a chat inside their own transaction.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetOrCreate returns the chat id for (job, freelancer), creating the chat
// if it does not exist yet.
func GetOrCreate(ctx context.Context, q Querier, jobID, clientID, freelancerID string) (string, error) {
	var chatID string
	err := q.QueryRow(ctx,
		`SELECT id FROM chats WHERE job_id = $1 AND freelancer_id = $2`,
		jobID, freelancerID,
	).Scan(&chatID)
	if err == nil {
		return chatID, nil
	}
	if err != pgx.ErrNoRows {
		return "", err
	}

	chatID = uuid.New().String()
	err = q.QueryRow(ctx, `
		INSERT INTO chats (id, job_id, client_id, freelancer_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (job_id, freelancer_id) DO UPDATE SET is_active = chats.is_active
		RETURNING id
	`, chatID, jobID, clientID, freelancerID).Scan(&chatID)
	if err != nil {
		return "", err
	}
	return chatID, nil
}
