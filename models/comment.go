package models

import "time"

// Comment представляет комментарий к посту.
// Автором может быть пользователь либо бот, поэтому оба ID опциональны,
// но хотя бы один из них всегда заполнен.
type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	UserID    *int      `json:"user_id,omitempty"`
	BotID     *int      `json:"bot_id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
