package database

import (
	"context"
	"fmt"
	"time"

	"autorent/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now()

	query := `INSERT INTO notifications (id, user_id, title, message, type, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.Type, now)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	n.CreatedAt = now
	return nil
}

func (db *DB) ListUserNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	query := `SELECT id, user_id, title, message, type, created_at
              FROM notifications WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
