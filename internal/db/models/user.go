package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"` // admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BannedSong is a ban list record. Requests matching its URL or video id are refused.
type BannedSong struct {
	ID         int64     `json:"id"`
	YoutubeURL string    `json:"youtubeUrl"`
	VideoID    string    `json:"videoId"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	BannedAt   time.Time `json:"bannedAt"`
	BannedBy   string    `json:"bannedBy"`
}
