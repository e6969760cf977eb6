package storage

import (
	"database/sql"
	"fmt"
	"log"

	"smp_go/models"

	"github.com/lib/pq"
)

// CreateBot сохраняет бота вместе с профилем в одной транзакции.
// Без транзакции сбой между вставками оставил бы бота без профиля,
// а движок решений рассчитывает, что профиль есть всегда.
func (db *DB) CreateBot(bot models.Bot, profile models.BotProfile) (*models.Bot, error) {
	tx, err := db.Conn.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRow(
		`INSERT INTO bots (name, is_active) VALUES ($1, $2) RETURNING id, created_at`,
		bot.Name, bot.IsActive,
	).Scan(&bot.ID, &bot.CreatedAt)
	if err != nil {
		return nil, err
	}

	profile.BotID = bot.ID
	err = tx.QueryRow(`
               INSERT INTO bot_profiles
                       (bot_id, age_group, profession, region, interests, emotional_bias,
                        like_probability, dislike_probability, comment_probability,
                        min_response_delay, max_response_delay)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
               RETURNING id
       `,
		profile.BotID, profile.AgeGroup, profile.Profession, profile.Region,
		pq.Array(profile.Interests), profile.EmotionalBias,
		profile.LikeProbability, profile.DislikeProbability, profile.CommentProbability,
		profile.MinResponseDelay, profile.MaxResponseDelay,
	).Scan(&profile.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	bot.Profile = &profile
	return &bot, nil
}

// scanBotRows разбирает строки выборки ботов с профилями.
// Проблемные записи пропускаются, чтобы одна битая строка не ломала весь список.
func scanBotRows(rows *sql.Rows) []models.Bot {
	var bots []models.Bot
	for rows.Next() {
		var bot models.Bot
		profile := models.BotProfile{}
		if err := rows.Scan(
			&bot.ID,
			&bot.Name,
			&bot.IsActive,
			&bot.CreatedAt,
			&profile.ID,
			&profile.BotID,
			&profile.AgeGroup,
			&profile.Profession,
			&profile.Region,
			&profile.Interests,
			&profile.EmotionalBias,
			&profile.LikeProbability,
			&profile.DislikeProbability,
			&profile.CommentProbability,
			&profile.MinResponseDelay,
			&profile.MaxResponseDelay,
		); err != nil {
			log.Printf("[DB WARN] Не удалось прочитать бота: %v", err)
			continue
		}
		bot.Profile = &profile
		bots = append(bots, bot)
	}
	return bots
}

const botSelectColumns = `
               b.id, b.name, b.is_active, b.created_at,
               p.id, p.bot_id, p.age_group, p.profession, p.region, p.interests, p.emotional_bias,
               p.like_probability, p.dislike_probability, p.comment_probability,
               p.min_response_delay, p.max_response_delay
`

// ListActiveBots возвращает активных ботов вместе с профилями.
// Именно этот список обходит движок решений при обработке постов.
func (db *DB) ListActiveBots() ([]models.Bot, error) {
	query := `
               SELECT ` + botSelectColumns + `
               FROM bots b
               JOIN bot_profiles p ON p.bot_id = b.id
               WHERE b.is_active = true
               ORDER BY b.id
       `
	rows, err := db.Conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBotRows(rows), nil
}

func (db *DB) ListBots(offset, limit int) ([]models.Bot, error) {
	query := `
               SELECT ` + botSelectColumns + `
               FROM bots b
               JOIN bot_profiles p ON p.bot_id = b.id
               ORDER BY b.id
               OFFSET $1 LIMIT $2
       `
	rows, err := db.Conn.Query(query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBotRows(rows), nil
}

func (db *DB) GetBotByID(id int) (*models.Bot, error) {
	query := `
               SELECT ` + botSelectColumns + `
               FROM bots b
               JOIN bot_profiles p ON p.bot_id = b.id
               WHERE b.id = $1
       `
	rows, err := db.Conn.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bots := scanBotRows(rows)
	if len(bots) == 0 {
		return nil, ErrNotFound
	}
	return &bots[0], nil
}

// SetBotActive переключает флаг активности бота.
func (db *DB) SetBotActive(id int, active bool) error {
	res, err := db.Conn.Exec(`UPDATE bots SET is_active = $1 WHERE id = $2`, active, id)
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

// SetAllBotsActive массово включает или выключает всех ботов и возвращает их количество.
func (db *DB) SetAllBotsActive(active bool) (int, error) {
	res, err := db.Conn.Exec(`UPDATE bots SET is_active = $1`, active)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// DeleteBotCascade удаляет бота и всю его историю одной транзакцией:
// журнал взаимодействий, комментарии, реакции и профиль.
// Явное каскадное удаление в хранилище не оставляет осиротевших записей
// и не полагается на побочные эффекты схемы.
func (db *DB) DeleteBotCascade(id int) error {
	tx, err := db.Conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, query := range []string{
		`DELETE FROM bot_interactions WHERE bot_id = $1`,
		`DELETE FROM comments WHERE bot_id = $1`,
		`DELETE FROM reactions WHERE bot_id = $1`,
		`DELETE FROM bot_profiles WHERE bot_id = $1`,
	} {
		if _, err := tx.Exec(query, id); err != nil {
			return fmt.Errorf("каскадное удаление бота %d: %w", id, err)
		}
	}

	res, err := tx.Exec(`DELETE FROM bots WHERE id = $1`, id)
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

// BotNameExists проверяет занятость имени перед созданием бота,
// чтобы вернуть понятную ошибку вместо нарушения ограничения БД.
func (db *DB) BotNameExists(name string) (bool, error) {
	var exists bool
	err := db.Conn.QueryRow(`SELECT EXISTS(SELECT 1 FROM bots WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}
