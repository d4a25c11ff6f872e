package db

import (
	"database/sql"
	"errors"

	"github.com/leejgdh/youtube-dj/internal/auth"
	"github.com/leejgdh/youtube-dj/internal/db/models"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("not found")

type Database struct {
	db *sql.DB
}

func NewSQLite(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	d := &Database{db: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'admin',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS banned_songs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		youtube_url TEXT UNIQUE NOT NULL,
		video_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		banned_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		banned_by TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_banned_songs_video_id ON banned_songs(video_id);
	`
	_, err := d.db.Exec(schema)
	return err
}

// EnsureAdmin makes the configured account an admin with the configured
// password. A changed password is rehashed; other admin accounts are kept.
func (d *Database) EnsureAdmin(username, password string) error {
	u, err := d.GetUserByUsername(username)
	if errors.Is(err, ErrNotFound) {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		_, err = d.db.Exec(
			"INSERT INTO users (username, password, role) VALUES (?, ?, 'admin')",
			username, hash,
		)
		return err
	}
	if err != nil {
		return err
	}

	if auth.CheckPassword(password, u.Password) && u.Role == "admin" {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		"UPDATE users SET password = ?, role = 'admin', updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		hash, u.ID,
	)
	return err
}

func (d *Database) GetUserByUsername(username string) (*models.User, error) {
	return d.scanUser(d.db.QueryRow(
		"SELECT id, username, password, role, created_at, updated_at FROM users WHERE username = ?",
		username,
	))
}

func (d *Database) GetUserByID(id int64) (*models.User, error) {
	return d.scanUser(d.db.QueryRow(
		"SELECT id, username, password, role, created_at, updated_at FROM users WHERE id = ?",
		id,
	))
}

func (d *Database) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Ping is used by the health endpoint.
func (d *Database) Ping() error {
	return d.db.Ping()
}
