package storage

import (
	"database/sql"
	"errors"
	"log"

	"smp_go/models"
)

// TryCreateBotComment атомарно добавляет комментарий бота к посту.
// Частичный уникальный индекс по (post_id, bot_id) пропускает не больше
// одного комментария бота на пост; повторная вставка возвращает created = false.
func (db *DB) TryCreateBotComment(postID, botID int, content string) (bool, error) {
	res, err := db.Conn.Exec(
		`INSERT INTO comments (post_id, bot_id, content) VALUES ($1, $2, $3)
                ON CONFLICT DO NOTHING`,
		postID, botID, content,
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

// CreateUserComment сохраняет комментарий пользователя.
// Пользовательские комментарии, в отличие от ботовских, не ограничены одним на пост.
func (db *DB) CreateUserComment(postID, userID int, content string) (*models.Comment, error) {
	var comment models.Comment
	query := `
               INSERT INTO comments (post_id, user_id, content)
               VALUES ($1, $2, $3)
               RETURNING id, post_id, user_id, content, created_at
       `
	err := db.Conn.QueryRow(query, postID, userID, content).Scan(
		&comment.ID, &comment.PostID, &comment.UserID, &comment.Content, &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListCommentsByPost возвращает комментарии поста от новых к старым.
func (db *DB) ListCommentsByPost(postID int) ([]models.Comment, error) {
	rows, err := db.Conn.Query(`
               SELECT id, post_id, user_id, bot_id, content, created_at
               FROM comments
               WHERE post_id = $1
               ORDER BY created_at DESC
       `, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.BotID, &c.Content, &c.CreatedAt); err != nil {
			log.Printf("[DB WARN] Не удалось прочитать комментарий: %v", err)
			continue
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func (db *DB) GetCommentByID(id int) (*models.Comment, error) {
	var c models.Comment
	err := db.Conn.QueryRow(`
               SELECT id, post_id, user_id, bot_id, content, created_at
               FROM comments
               WHERE id = $1
       `, id).Scan(&c.ID, &c.PostID, &c.UserID, &c.BotID, &c.Content, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *DB) DeleteComment(id int) error {
	res, err := db.Conn.Exec(`DELETE FROM comments WHERE id = $1`, id)
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
