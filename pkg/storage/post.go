package storage

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"smp_go/models"

	"github.com/lib/pq"
)

func (db *DB) CreatePost(post models.Post) (*models.Post, error) {
	query := `
               INSERT INTO posts (user_id, content, topic, keywords)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at
       `
	err := db.Conn.QueryRow(query, post.UserID, post.Content, post.Topic, pq.Array(post.Keywords)).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (db *DB) GetPostByID(id int) (*models.Post, error) {
	var post models.Post
	query := `
               SELECT id, user_id, content, topic, keywords, created_at
               FROM posts
               WHERE id = $1
       `
	err := db.Conn.QueryRow(query, id).Scan(
		&post.ID, &post.UserID, &post.Content, &post.Topic, &post.Keywords, &post.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// scanPosts разбирает строки выборки постов, пропуская проблемные записи.
func scanPosts(rows *sql.Rows) []models.Post {
	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Content, &post.Topic, &post.Keywords, &post.CreatedAt); err != nil {
			log.Printf("[DB WARN] Не удалось прочитать пост: %v", err)
			continue
		}
		posts = append(posts, post)
	}
	return posts
}

// ListPostsSince возвращает посты, созданные не раньше указанного момента.
// Используется оконной обработкой движка ботов.
func (db *DB) ListPostsSince(since time.Time) ([]models.Post, error) {
	query := `
               SELECT id, user_id, content, topic, keywords, created_at
               FROM posts
               WHERE created_at >= $1
               ORDER BY created_at
       `
	rows, err := db.Conn.Query(query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows), nil
}

// ListPosts возвращает ленту постов от новых к старым.
func (db *DB) ListPosts(offset, limit int) ([]models.Post, error) {
	query := `
               SELECT id, user_id, content, topic, keywords, created_at
               FROM posts
               ORDER BY created_at DESC
               OFFSET $1 LIMIT $2
       `
	rows, err := db.Conn.Query(query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows), nil
}

// ListPostsFiltered возвращает посты для публичного API с фильтрами по датам и теме.
// Нулевые значения фильтров означают их отсутствие.
func (db *DB) ListPostsFiltered(from, to *time.Time, topic string, offset, limit int) ([]models.Post, error) {
	query := `
               SELECT id, user_id, content, topic, keywords, created_at
               FROM posts
               WHERE ($1::timestamptz IS NULL OR created_at >= $1)
                 AND ($2::timestamptz IS NULL OR created_at <= $2)
                 AND ($3 = '' OR topic ILIKE '%' || $3 || '%')
               ORDER BY created_at DESC
               OFFSET $4 LIMIT $5
       `
	rows, err := db.Conn.Query(query, from, to, topic, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows), nil
}

// DeletePost удаляет пост вместе с реакциями, комментариями, медиа и записями журнала.
func (db *DB) DeletePost(id int) error {
	tx, err := db.Conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, query := range []string{
		`DELETE FROM bot_interactions WHERE post_id = $1`,
		`DELETE FROM comments WHERE post_id = $1`,
		`DELETE FROM reactions WHERE post_id = $1`,
		`DELETE FROM media WHERE post_id = $1`,
	} {
		if _, err := tx.Exec(query, id); err != nil {
			return err
		}
	}

	res, err := tx.Exec(`DELETE FROM posts WHERE id = $1`, id)
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
	return tx.Commit()
}

// CountReactions возвращает количество лайков и дизлайков поста.
func (db *DB) CountReactions(postID int) (likes, dislikes int, err error) {
	query := `
               SELECT
                       COUNT(*) FILTER (WHERE is_like),
                       COUNT(*) FILTER (WHERE NOT is_like)
               FROM reactions
               WHERE post_id = $1
       `
	err = db.Conn.QueryRow(query, postID).Scan(&likes, &dislikes)
	return likes, dislikes, err
}

// CountComments возвращает количество комментариев поста.
func (db *DB) CountComments(postID int) (int, error) {
	var count int
	err := db.Conn.QueryRow(`SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
	return count, err
}

// AddMedia прикрепляет загруженный файл к посту.
func (db *DB) AddMedia(media models.Media) (*models.Media, error) {
	query := `
               INSERT INTO media (post_id, media_type, url)
               VALUES ($1, $2, $3)
               RETURNING id, created_at
       `
	err := db.Conn.QueryRow(query, media.PostID, media.MediaType, media.URL).Scan(&media.ID, &media.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// GetMediaByPostID возвращает все медиафайлы поста.
func (db *DB) GetMediaByPostID(postID int) ([]models.Media, error) {
	rows, err := db.Conn.Query(
		`SELECT id, post_id, media_type, url, created_at FROM media WHERE post_id = $1 ORDER BY id`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		var m models.Media
		if err := rows.Scan(&m.ID, &m.PostID, &m.MediaType, &m.URL, &m.CreatedAt); err != nil {
			log.Printf("[DB WARN] Не удалось прочитать медиа: %v", err)
			continue
		}
		items = append(items, m)
	}
	return items, nil
}
