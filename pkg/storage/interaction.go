package storage

import "smp_go/models"

// HasInteraction проверяет, принималось ли уже решение по паре (бот, пост).
// Наличие записи в журнале — терминальное состояние пары: повторная обработка запрещена.
func (db *DB) HasInteraction(botID, postID int) (bool, error) {
	var exists bool
	err := db.Conn.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM bot_interactions WHERE bot_id = $1 AND post_id = $2)`,
		botID, postID,
	).Scan(&exists)
	return exists, err
}

// SaveInteraction добавляет запись журнала взаимодействий.
// ON CONFLICT DO NOTHING страхует от гонки двух параллельных обработок:
// повторная вставка той же пары не считается ошибкой.
func (db *DB) SaveInteraction(rec models.InteractionRecord) error {
	_, err := db.Conn.Exec(
		`INSERT INTO bot_interactions (bot_id, post_id, action_type, relevance_score)
                VALUES ($1, $2, $3, $4)
                ON CONFLICT DO NOTHING`,
		rec.BotID, rec.PostID, rec.ActionType, rec.RelevanceScore,
	)
	return err
}
