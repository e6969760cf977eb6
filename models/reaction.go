package models

import "time"

// Reaction представляет лайк или дизлайк поста.
// Уникальность пары (пост, актор) обеспечивается ограничениями БД:
// один пользователь или бот реагирует на пост не более одного раза.
type Reaction struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	UserID    *int      `json:"user_id,omitempty"`
	BotID     *int      `json:"bot_id,omitempty"`
	IsLike    bool      `json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
}
