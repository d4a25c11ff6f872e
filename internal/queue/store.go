package queue

import "time"

// AdminMode mirrors the moderation switch in snapshots.
type AdminMode struct {
	ApprovalRequired bool `json:"approvalRequired"`
}

// State is a point-in-time copy of the queue, safe to marshal and hand to other goroutines.
type State struct {
	Playlist         []SongEntry `json:"playlist"`
	CurrentSong      *SongEntry  `json:"currentSong"`
	IsPlaying        bool        `json:"isPlaying"`
	PlayHistory      []SongEntry `json:"playHistory"`
	HistoryPlayIndex int         `json:"historyPlayIndex"`
	AdminMode        AdminMode   `json:"adminMode"`
	PendingRequests  []SongEntry `json:"pendingRequests"`
	LastUpdated      int64       `json:"lastUpdated"`
}

// Store holds the live queue state. It has no locking: it must be owned by a
// single goroutine (the realtime hub) and never shared.
type Store struct {
	playlist         []SongEntry
	current          *SongEntry
	isPlaying        bool
	history          []SongEntry
	historyIndex     int
	historyLimit     int
	approvalRequired bool
	pending          []SongEntry
	lastUpdated      time.Time

	now func() time.Time
}

// NewStore creates an empty store. historyLimit <= 0 keeps play history unbounded.
func NewStore(historyLimit int) *Store {
	return &Store{
		playlist:     []SongEntry{},
		history:      []SongEntry{},
		pending:      []SongEntry{},
		historyLimit: historyLimit,
		now:          time.Now,
		lastUpdated:  time.Now(),
	}
}

func (s *Store) touch() {
	s.lastUpdated = s.now()
}

// Admit places an entry as the current song when nothing is playing, or at the
// back of the playlist otherwise. An id already in current/playlist is refused.
func (s *Store) Admit(e SongEntry) bool {
	if s.inQueue(e.ID) {
		return false
	}
	if s.current == nil {
		s.setCurrent(e)
		s.isPlaying = true
		s.touch()
		return true
	}
	s.AppendToPlaylist(e)
	return true
}

// AppendToPlaylist adds an entry at the back of the playlist.
func (s *Store) AppendToPlaylist(e SongEntry) {
	s.playlist = append(s.playlist, e)
	s.touch()
}

// RemoveFromPlaylist deletes the entry with the given id and reports whether it was found.
func (s *Store) RemoveFromPlaylist(id string) bool {
	for i, e := range s.playlist {
		if e.ID == id {
			s.playlist = append(s.playlist[:i:i], s.playlist[i+1:]...)
			s.touch()
			return true
		}
	}
	return false
}

// ReorderPlaylist replaces the playlist with the caller's list as-is.
func (s *Store) ReorderPlaylist(order []SongEntry) {
	s.playlist = append([]SongEntry{}, order...)
	s.touch()
}

// RecordHistory appends an entry unless its video is already in the history.
func (s *Store) RecordHistory(e SongEntry) bool {
	key := e.videoKey()
	for _, h := range s.history {
		if h.videoKey() == key {
			return false
		}
	}
	s.history = append(s.history, e)
	if s.historyLimit > 0 && len(s.history) > s.historyLimit {
		drop := len(s.history) - s.historyLimit
		s.history = append([]SongEntry{}, s.history[drop:]...)
		s.historyIndex -= drop
		if s.historyIndex < 0 {
			s.historyIndex = 0
		}
	}
	if s.historyIndex >= len(s.history) {
		s.historyIndex = 0
	}
	s.touch()
	return true
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	st := State{
		Playlist:         copyEntries(s.playlist),
		IsPlaying:        s.isPlaying,
		PlayHistory:      copyEntries(s.history),
		HistoryPlayIndex: s.historyIndex,
		AdminMode:        AdminMode{ApprovalRequired: s.approvalRequired},
		PendingRequests:  copyEntries(s.pending),
		LastUpdated:      s.lastUpdated.UnixMilli(),
	}
	st.CurrentSong = s.currentCopy()
	return st
}

func (s *Store) setCurrent(e SongEntry) {
	s.current = &e
}

func (s *Store) currentCopy() *SongEntry {
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

func (s *Store) inQueue(id string) bool {
	if s.current != nil && s.current.ID == id {
		return true
	}
	return indexOf(s.playlist, id) >= 0
}

func (s *Store) popFront() (SongEntry, bool) {
	if len(s.playlist) == 0 {
		return SongEntry{}, false
	}
	e := s.playlist[0]
	s.playlist = append([]SongEntry{}, s.playlist[1:]...)
	return e, true
}

// nextFromHistory returns the entry under the history cursor and advances it.
func (s *Store) nextFromHistory() (SongEntry, bool) {
	if len(s.history) == 0 {
		s.historyIndex = 0
		return SongEntry{}, false
	}
	if s.historyIndex >= len(s.history) {
		s.historyIndex = 0
	}
	e := s.history[s.historyIndex]
	s.historyIndex = (s.historyIndex + 1) % len(s.history)
	return e, true
}

func (s *Store) addPending(e SongEntry) bool {
	if indexOf(s.pending, e.ID) >= 0 || s.inQueue(e.ID) {
		return false
	}
	s.pending = append(s.pending, e)
	s.touch()
	return true
}

func (s *Store) takePending(id string) (SongEntry, bool) {
	i := indexOf(s.pending, id)
	if i < 0 {
		return SongEntry{}, false
	}
	e := s.pending[i]
	s.pending = append(s.pending[:i:i], s.pending[i+1:]...)
	s.touch()
	return e, true
}

func (s *Store) drainPending() []SongEntry {
	drained := s.pending
	s.pending = []SongEntry{}
	s.touch()
	return drained
}

func indexOf(list []SongEntry, id string) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func copyEntries(list []SongEntry) []SongEntry {
	out := make([]SongEntry, len(list))
	copy(out, list)
	return out
}
