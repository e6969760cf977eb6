package models

import (
	"time"

	"github.com/lib/pq"
)

// Допустимые типы медиа, прикрепляемых к посту.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post представляет публикацию пользователя.
// Для движка ботов пост неизменяем после создания: topic и keywords
// задаются один раз и используются для подбора релевантных ботов.
type Post struct {
	ID        int            `json:"id"`
	UserID    int            `json:"user_id"`
	Content   string         `json:"content"`
	Topic     string         `json:"topic"`
	Keywords  pq.StringArray `json:"keywords"`
	CreatedAt time.Time      `json:"created_at"`

	// Счётчики заполняются при выдаче ленты и в БД не хранятся.
	LikeCount    int     `json:"like_count"`
	DislikeCount int     `json:"dislike_count"`
	CommentCount int     `json:"comment_count"`
	Media        []Media `json:"media,omitempty"`
}

// Media хранит ссылку на загруженный файл, прикреплённый к посту.
type Media struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	MediaType string    `json:"media_type"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
