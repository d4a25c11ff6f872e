// Package queue holds the shared playlist state and the operations clients
// use to mutate it. Every Engine method returns the events that describe the
// mutation; delivering them is the caller's job.
package queue

import "go.uber.org/zap"

// Engine combines the queue store with the moderation gate and the playback
// sequencer. Like Store it is not safe for concurrent use.
type Engine struct {
	store *Store
	log   *zap.Logger
}

// NewEngine creates an engine over a fresh store.
func NewEngine(log *zap.Logger, historyLimit int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		store: NewStore(historyLimit),
		log:   log,
	}
}

// Snapshot returns a copy of the full state.
func (e *Engine) Snapshot() State {
	return e.store.Snapshot()
}

// ServerState produces the snapshot sent to a newly connected client.
func (e *Engine) ServerState() []Event {
	return []Event{{Name: EventServerState, Payload: e.store.Snapshot(), Target: Sender}}
}

// RemoveFromPlaylist drops a queued entry. Unknown ids are ignored.
func (e *Engine) RemoveFromPlaylist(id string) []Event {
	if !e.store.RemoveFromPlaylist(id) {
		e.log.Debug("remove on unknown id", zap.String("id", id))
		return nil
	}
	return []Event{e.playlistOnly()}
}

// ReorderPlaylist replaces the playlist with the admin's ordering.
func (e *Engine) ReorderPlaylist(order []SongEntry) []Event {
	e.store.ReorderPlaylist(order)
	return []Event{e.playlistOnly()}
}

func (e *Engine) playlistOnly() Event {
	return Event{Name: EventPlaylistOnlyUpdated, Payload: copyEntries(e.store.playlist), Target: Broadcast}
}

func (e *Engine) playlistChange() Event {
	return Event{
		Name: EventPlaylistUpdated,
		Payload: PlaylistChange{
			Playlist:    copyEntries(e.store.playlist),
			CurrentSong: e.store.currentCopy(),
		},
		Target: Broadcast,
	}
}

func (e *Engine) pendingUpdated(target Target) Event {
	return Event{Name: EventPendingRequestsUpdated, Payload: copyEntries(e.store.pending), Target: target}
}
