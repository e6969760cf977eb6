package storage

import "smp_go/models"

// TryCreateBotReaction атомарно добавляет реакцию бота на пост.
// ON CONFLICT DO NOTHING делает вставку идемпотентной: при гонке двух
// обработок пары выигрывает первая, вторая получает created = false
// и трактует это как "решение уже принято", а не как ошибку.
func (db *DB) TryCreateBotReaction(postID, botID int, isLike bool) (bool, error) {
	res, err := db.Conn.Exec(
		`INSERT INTO reactions (post_id, bot_id, is_like) VALUES ($1, $2, $3)
                ON CONFLICT DO NOTHING`,
		postID, botID, isLike,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetUserReaction создаёт реакцию пользователя или меняет её направление.
// Пользователь, в отличие от бота, может передумать, поэтому здесь upsert.
func (db *DB) SetUserReaction(postID, userID int, isLike bool) (*models.Reaction, error) {
	var reaction models.Reaction
	query := `
               INSERT INTO reactions (post_id, user_id, is_like)
               VALUES ($1, $2, $3)
               ON CONFLICT (post_id, user_id) WHERE user_id IS NOT NULL
               DO UPDATE SET is_like = EXCLUDED.is_like
               RETURNING id, post_id, user_id, is_like, created_at
       `
	err := db.Conn.QueryRow(query, postID, userID, isLike).Scan(
		&reaction.ID, &reaction.PostID, &reaction.UserID, &reaction.IsLike, &reaction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// DeleteUserReaction убирает реакцию пользователя с поста.
func (db *DB) DeleteUserReaction(postID, userID int) error {
	res, err := db.Conn.Exec(`DELETE FROM reactions WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasBotReaction проверяет, реагировал ли бот на пост.
func (db *DB) HasBotReaction(postID, botID int) (bool, error) {
	var exists bool
	err := db.Conn.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM reactions WHERE post_id = $1 AND bot_id = $2)`,
		postID, botID,
	).Scan(&exists)
	return exists, err
}
