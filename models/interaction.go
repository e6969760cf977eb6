package models

import "time"

// Типы действий, фиксируемых в журнале взаимодействий.
// Отдельные константы не дают опечаткам проникнуть в таблицу.
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
	ActionComment = "comment"
)

// InteractionRecord фиксирует принятое решение по паре (бот, пост).
// Запись добавляется один раз и никогда не обновляется: её наличие
// гарантирует, что пара не будет обработана повторно.
type InteractionRecord struct {
	ID             int       `json:"id"`
	BotID          int       `json:"bot_id"`
	PostID         int       `json:"post_id"`
	ActionType     string    `json:"action_type"`
	RelevanceScore float64   `json:"relevance_score"`
	CreatedAt      time.Time `json:"created_at"`
}
