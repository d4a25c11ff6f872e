package queue

import "go.uber.org/zap"

// PlayNext archives the current song and picks the next one: the front of the
// playlist first, then the play history round-robin, otherwise playback stops.
func (e *Engine) PlayNext() []Event {
	s := e.store
	if s.current != nil {
		s.RecordHistory(*s.current)
	}

	if next, ok := s.popFront(); ok {
		s.setCurrent(next)
		s.isPlaying = true
		s.touch()
		e.log.Info("next song", zap.String("id", next.ID), zap.String("title", next.Title))
		return []Event{e.nowPlaying(EventNextSongPlaying, false)}
	}

	if next, ok := s.nextFromHistory(); ok {
		s.setCurrent(next)
		s.isPlaying = true
		s.touch()
		e.log.Info("replaying from history", zap.String("id", next.ID), zap.Int("cursor", s.historyIndex))
		return []Event{e.nowPlaying(EventNextSongPlaying, true)}
	}

	s.current = nil
	s.isPlaying = false
	s.touch()
	e.log.Info("playlist ended")
	return []Event{{Name: EventPlaylistEnded, Target: Broadcast}}
}

// SkipTo jumps to the playlist entry at index. Entries before it are dropped
// without being archived. Out-of-range indexes are ignored.
func (e *Engine) SkipTo(index int) []Event {
	s := e.store
	if index < 0 || index >= len(s.playlist) {
		e.log.Debug("skip index out of range", zap.Int("index", index), zap.Int("len", len(s.playlist)))
		return nil
	}
	selected := s.playlist[index]
	s.playlist = append([]SongEntry{}, s.playlist[index+1:]...)
	s.setCurrent(selected)
	s.isPlaying = true
	s.touch()
	e.log.Info("skipped to song", zap.String("id", selected.ID), zap.Int("index", index))
	return []Event{e.nowPlaying(EventSongSkipped, false)}
}

// AdminSkipCurrent archives the current song and plays the front of the
// playlist. Unlike PlayNext it never falls back to history.
func (e *Engine) AdminSkipCurrent() []Event {
	s := e.store
	if s.current != nil {
		s.RecordHistory(*s.current)
	}
	e.advanceOrStop()
	return []Event{e.playlistChange()}
}

// SetPlayState records play/pause and tells every other client.
func (e *Engine) SetPlayState(playing bool) []Event {
	e.store.isPlaying = playing
	e.store.touch()
	return []Event{{Name: EventPlayStateChanged, Payload: playing, Target: Others}}
}

func (e *Engine) advanceOrStop() {
	s := e.store
	if next, ok := s.popFront(); ok {
		s.setCurrent(next)
		s.isPlaying = true
	} else {
		s.current = nil
		s.isPlaying = false
	}
	s.touch()
}

func (e *Engine) nowPlaying(name string, fromHistory bool) Event {
	return Event{
		Name: name,
		Payload: NowPlaying{
			CurrentSong:      e.store.currentCopy(),
			Playlist:         copyEntries(e.store.playlist),
			IsHistoryPlaying: fromHistory,
		},
		Target: Broadcast,
	}
}
