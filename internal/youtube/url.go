package youtube

import (
	"errors"
	"regexp"
)

var ErrInvalidURL = errors.New("not a youtube url")

var (
	urlPattern     = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)`)
	videoIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|shorts/|watch\?v=|&v=)([^#&?]*).*`)
)

// IsValidURL reports whether raw looks like a YouTube watch/share/embed link.
func IsValidURL(raw string) bool {
	return urlPattern.MatchString(raw)
}

// ExtractVideoID returns the 11 character video id of a YouTube link.
func ExtractVideoID(raw string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(raw)
	if len(m) < 3 || len(m[2]) != 11 {
		return "", false
	}
	return m[2], true
}

// ThumbnailURL is the high resolution still for a video id.
func ThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
}

// WatchURL is the canonical watch link for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
