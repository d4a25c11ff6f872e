package db

import (
	"database/sql"
	"errors"

	"github.com/leejgdh/youtube-dj/internal/db/models"
	"github.com/mattn/go-sqlite3"
)

var ErrAlreadyBanned = errors.New("song already banned")

const bannedColumns = "id, youtube_url, video_id, title, author, banned_at, banned_by"

// BanSong stores a ban record and returns it with its id and timestamp.
func (d *Database) BanSong(b models.BannedSong) (*models.BannedSong, error) {
	result, err := d.db.Exec(
		"INSERT INTO banned_songs (youtube_url, video_id, title, author, banned_by) VALUES (?, ?, ?, ?, ?)",
		b.YoutubeURL, b.VideoID, b.Title, b.Author, b.BannedBy,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrAlreadyBanned
		}
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return d.GetBannedSong(id)
}

func (d *Database) GetBannedSong(id int64) (*models.BannedSong, error) {
	var b models.BannedSong
	err := d.db.QueryRow("SELECT "+bannedColumns+" FROM banned_songs WHERE id = ?", id).
		Scan(&b.ID, &b.YoutubeURL, &b.VideoID, &b.Title, &b.Author, &b.BannedAt, &b.BannedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBannedSongs returns the ban list, newest first.
func (d *Database) ListBannedSongs() ([]models.BannedSong, error) {
	rows, err := d.db.Query("SELECT " + bannedColumns + " FROM banned_songs ORDER BY banned_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := []models.BannedSong{}
	for rows.Next() {
		var b models.BannedSong
		if err := rows.Scan(&b.ID, &b.YoutubeURL, &b.VideoID, &b.Title, &b.Author, &b.BannedAt, &b.BannedBy); err != nil {
			return nil, err
		}
		songs = append(songs, b)
	}
	return songs, rows.Err()
}

func (d *Database) UnbanSong(id int64) error {
	result, err := d.db.Exec("DELETE FROM banned_songs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsBanned reports whether a link or its video id is on the ban list.
// Either argument may be empty.
func (d *Database) IsBanned(youtubeURL, videoID string) (bool, error) {
	if youtubeURL == "" && videoID == "" {
		return false, nil
	}
	var count int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM banned_songs WHERE (? != '' AND youtube_url = ?) OR (? != '' AND video_id = ?)",
		youtubeURL, youtubeURL, videoID, videoID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
