package database

import (
	"context"
	"encoding/json"
	"time"

	"portfolio/models"

	"go.uber.org/zap"
)

const (
	maxMessagesLimit = 200

	// MessagesChannel is the NOTIFY channel the messages insert trigger
	// publishes each new row on, encoded with row_to_json.
	MessagesChannel = "messages_inserted"
)

// RecentMessages returns the newest limit messages in ascending creation
// order. The query reads newest-first so LIMIT keeps the latest rows.
func (db *DB) RecentMessages(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	limit = validateLimit(limit, models.TranscriptSize, maxMessagesLimit)
	defer db.timed("RecentMessages", time.Now(), zap.Int("limit", limit))

	rows, err := db.Pool.Query(ctx, `
		SELECT id, created_at, username, message
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, wrap("query messages", err)
	}
	defer rows.Close()

	msgs := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.Username, &m.Message); err != nil {
			return nil, wrap("scan message row", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate messages", err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// InsertMessage stores a chat message. The caller is expected to have
// trimmed and truncated text.
func (db *DB) InsertMessage(ctx context.Context, username, text string) (*models.ChatMessage, error) {
	defer db.timed("InsertMessage", time.Now())

	var m models.ChatMessage
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO messages (username, message)
		VALUES ($1, $2)
		RETURNING id, created_at, username, message
	`, username, text).Scan(&m.ID, &m.CreatedAt, &m.Username, &m.Message)
	if err != nil {
		return nil, wrap("insert message", err)
	}
	return &m, nil
}

// ListenMessages blocks, calling fn for every message inserted while it
// runs. It holds a dedicated pool connection and returns nil once ctx is
// cancelled.
func (db *DB) ListenMessages(ctx context.Context, fn func(models.ChatMessage)) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return wrap("acquire listener connection", err)
	}
	defer func() {
		// A cancelled wait closes the connection; the pool drops it on release.
		_, _ = conn.Exec(context.Background(), "UNLISTEN *")
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+MessagesChannel); err != nil {
		return wrap("listen on "+MessagesChannel, err)
	}
	db.log.Debug("Listening for chat messages", zap.String("channel", MessagesChannel))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return wrap("wait for notification", err)
		}

		var m models.ChatMessage
		if err := json.Unmarshal([]byte(n.Payload), &m); err != nil {
			db.log.Warn("Dropping undecodable message notification",
				zap.Error(err), zap.String("payload", n.Payload))
			continue
		}
		fn(m)
	}
}
