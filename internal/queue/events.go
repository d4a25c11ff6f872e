package queue

// Client → server event names.
const (
	EventRequestSong          = "request-song"
	EventPlayNextSong         = "play-next-song"
	EventUpdatePlayState      = "update-play-state"
	EventSkipToSong           = "skip-to-song"
	EventAdminSkipCurrent     = "admin-skip-current"
	EventGetAdminMode         = "get-admin-mode"
	EventInitAdminMode        = "init-admin-mode"
	EventSetAdminMode         = "set-admin-mode"
	EventGetPendingRequests   = "get-pending-requests"
	EventApproveRequest       = "approve-request"
	EventRejectRequest        = "reject-request"
	EventClearPendingRequests = "clear-pending-requests"
	EventRemoveFromPlaylist   = "remove-from-playlist"
	EventReorderPlaylist      = "reorder-playlist"
	EventSongBanned           = "song-banned"
)

// Server → client event names.
const (
	EventServerState            = "server-state"
	EventNewSongRequest         = "new-song-request"
	EventNextSongPlaying        = "next-song-playing"
	EventPlaylistEnded          = "playlist-ended"
	EventSongSkipped            = "song-skipped"
	EventPlayStateChanged       = "play-state-changed"
	EventAdminModeUpdated       = "admin-mode-updated"
	EventPendingRequestsUpdated = "pending-requests-updated"
	EventPlaylistOnlyUpdated    = "playlist-only-updated"
	EventPlaylistUpdated        = "playlist-updated"
	EventSongBanResult          = "song-ban-result"
	EventSongRequestRejected    = "song-request-rejected"
)

// Target selects which connections receive an event.
type Target int

const (
	// Broadcast delivers to every connected client, the originator included.
	Broadcast Target = iota
	// Sender delivers to the originating client only.
	Sender
	// Others delivers to every client except the originator.
	Others
)

func (t Target) String() string {
	switch t {
	case Sender:
		return "sender"
	case Others:
		return "others"
	default:
		return "broadcast"
	}
}

// Event is an outbound notification produced by an engine operation.
type Event struct {
	Name    string
	Payload any
	Target  Target
}

// NowPlaying is the payload of next-song-playing and song-skipped.
type NowPlaying struct {
	CurrentSong      *SongEntry  `json:"currentSong"`
	Playlist         []SongEntry `json:"playlist"`
	IsHistoryPlaying bool        `json:"isHistoryPlaying,omitempty"`
}

// PlaylistChange is the payload of playlist-updated.
type PlaylistChange struct {
	Playlist    []SongEntry `json:"playlist"`
	CurrentSong *SongEntry  `json:"currentSong"`
}

// BanResult is the payload of song-ban-result.
type BanResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Removed int    `json:"removed"`

	// per-list breakdown of Removed; Current is 1 when the playing song was banned
	Current  int `json:"current"`
	Playlist int `json:"playlist"`
	Pending  int `json:"pending"`
	History  int `json:"history"`
}

// RequestRejection is the payload of song-request-rejected.
type RequestRejection struct {
	YoutubeURL string `json:"youtubeUrl"`
	Reason     string `json:"reason"`
}
