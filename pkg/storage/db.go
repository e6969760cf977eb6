package storage

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
)

// DB оборачивает подключение к Postgres.
// Все методы работают через обычный database/sql без ORM.
type DB struct {
	Conn *sql.DB
}

func NewDB(conn *sql.DB) *DB {
	return &DB{Conn: conn}
}

// ErrNotFound сообщает, что запрошенная запись отсутствует.
// Такое выделение ошибки позволяет обработчикам отвечать 404 и не шуметь в логах.
var ErrNotFound = errors.New("record not found")
