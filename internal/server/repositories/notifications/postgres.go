package notifications

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/server/models"
)

const notificationColumns = `id, user_id, type, title, message, data, read, created_at`

// listLimit caps a single listing; clients poll and mark read, they never
// page through history.
const listLimit = 100

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *CreateNotification) (*models.Notification, error) {
	query := `INSERT INTO notifications (user_id, type, title, message, data)
	 VALUES ($1, $2, $3, $4, $5)
	 RETURNING ` + notificationColumns

	var data any
	if n.Data != nil {
		data = n.Data
	}

	created := &models.Notification{}
	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Type, n.Title, n.Message, data).
		Scan(&created.ID, &created.UserID, &created.Type, &created.Title,
			&created.Message, &created.Data, &created.Read, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + `
	 FROM notifications
	 WHERE user_id = $1 AND ($2 = FALSE OR read = FALSE)
	 ORDER BY created_at DESC
	 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, unreadOnly, listLimit)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.Data, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}
