package queue

import (
	"fmt"

	"go.uber.org/zap"
)

// BanMatch identifies a banned song by video id and/or URL.
type BanMatch struct {
	YoutubeURL string `json:"youtubeUrl"`
	VideoID    string `json:"videoId"`
	Title      string `json:"title,omitempty"`
	Author     string `json:"author,omitempty"`
}

func (m BanMatch) empty() bool {
	return m.YoutubeURL == "" && m.VideoID == ""
}

func (m BanMatch) matches(e SongEntry) bool {
	return (m.VideoID != "" && e.VideoID == m.VideoID) ||
		(m.YoutubeURL != "" && e.YoutubeURL == m.YoutubeURL)
}

func (m BanMatch) label() string {
	switch {
	case m.Title != "":
		return m.Title
	case m.VideoID != "":
		return m.VideoID
	default:
		return m.YoutubeURL
	}
}

// PurgeBanned removes every occurrence of a banned song from the playlist,
// the pending list and the history. A banned current song is replaced by the
// front of the playlist without being archived. The result event goes to target.
func (e *Engine) PurgeBanned(m BanMatch, target Target) []Event {
	if m.empty() {
		return nil
	}
	s := e.store

	var removedQueue, removedPending, removedHistory int
	s.playlist, removedQueue = filterOut(s.playlist, m)
	s.pending, removedPending = filterOut(s.pending, m)
	removedHistory = e.purgeHistory(m)

	currentHit := s.current != nil && m.matches(*s.current)
	if currentHit {
		e.advanceOrStop()
	}

	var events []Event
	if removedQueue > 0 || currentHit {
		events = append(events, e.playlistChange())
	}
	if removedPending > 0 {
		events = append(events, e.pendingUpdated(Broadcast))
	}

	removed := removedQueue + removedPending + removedHistory
	if currentHit {
		removed++
	}
	if removed > 0 {
		s.touch()
	}
	e.log.Info("banned song purged", zap.String("video_id", m.VideoID), zap.String("url", m.YoutubeURL),
		zap.Int("removed", removed), zap.Bool("was_current", currentHit))

	return append(events, Event{
		Name: EventSongBanResult,
		Payload: BanResult{
			Success:  true,
			Message:  fmt.Sprintf("%q is now banned, %d entries removed", m.label(), removed),
			Removed:  removed,
			Current:  boolToInt(currentHit),
			Playlist: removedQueue,
			Pending:  removedPending,
			History:  removedHistory,
		},
		Target: target,
	})
}

func (e *Engine) purgeHistory(m BanMatch) int {
	s := e.store
	kept := make([]SongEntry, 0, len(s.history))
	cursor := s.historyIndex
	for i, h := range s.history {
		if m.matches(h) {
			if i < s.historyIndex {
				cursor--
			}
			continue
		}
		kept = append(kept, h)
	}
	removed := len(s.history) - len(kept)
	s.history = kept
	if cursor < 0 || cursor >= len(kept) {
		cursor = 0
	}
	s.historyIndex = cursor
	return removed
}

func filterOut(list []SongEntry, m BanMatch) ([]SongEntry, int) {
	kept := make([]SongEntry, 0, len(list))
	for _, e := range list {
		if !m.matches(e) {
			kept = append(kept, e)
		}
	}
	return kept, len(list) - len(kept)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
