package queue

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func (s *EngineTestSuite) SetupTest() {
	s.engine = NewEngine(zap.NewNop(), 0)
}

func (s *EngineTestSuite) entry(title string) SongEntry {
	e, err := NewEntry(SongRequest{
		YoutubeURL: "https://www.youtube.com/watch?v=" + title,
		VideoID:    title,
		Title:      title,
		Nickname:   "tester",
	}, time.Now())
	s.Require().NoError(err)
	return e
}

func titles(list []SongEntry) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Title
	}
	return out
}

func eventNames(events []Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Name
	}
	return out
}

func (s *EngineTestSuite) TestSubmitFreeModeScenario() {
	song1 := s.entry("Song1")
	song1.Nickname = "alice"
	events := s.engine.Submit(song1)
	s.Equal([]string{EventNewSongRequest}, eventNames(events))
	s.Equal(Broadcast, events[0].Target)

	st := s.engine.Snapshot()
	s.Require().NotNil(st.CurrentSong)
	s.Equal("Song1", st.CurrentSong.Title)
	s.True(st.IsPlaying)
	s.Empty(st.Playlist)

	song2 := s.entry("Song2")
	song2.Nickname = "bob"
	s.engine.Submit(song2)
	st = s.engine.Snapshot()
	s.Equal("Song1", st.CurrentSong.Title)
	s.Equal([]string{"Song2"}, titles(st.Playlist))

	events = s.engine.PlayNext()
	s.Equal([]string{EventNextSongPlaying}, eventNames(events))
	st = s.engine.Snapshot()
	s.Equal("Song2", st.CurrentSong.Title)
	s.Empty(st.Playlist)
	s.Equal([]string{"Song1"}, titles(st.PlayHistory))
}

func (s *EngineTestSuite) TestDuplicateIDAdmittedOnce() {
	a := s.entry("A")
	s.engine.Submit(a)
	s.Nil(s.engine.Submit(a))

	b := s.entry("B")
	s.engine.Submit(b)
	s.Nil(s.engine.Submit(b))

	st := s.engine.Snapshot()
	s.Equal("A", st.CurrentSong.Title)
	s.Equal([]string{"B"}, titles(st.Playlist))
}

func (s *EngineTestSuite) TestApproveTwiceAdmitsOnce() {
	s.engine.SetApprovalMode(true)
	a := s.entry("A")
	s.engine.Submit(a)

	s.Equal([]string{EventNewSongRequest, EventPendingRequestsUpdated}, eventNames(s.engine.Approve(a.ID)))
	s.Nil(s.engine.Approve(a.ID))

	st := s.engine.Snapshot()
	s.Equal("A", st.CurrentSong.Title)
	s.Empty(st.Playlist)
	s.Empty(st.PendingRequests)
}

func (s *EngineTestSuite) TestHistoryNeverDuplicatesVideo() {
	for i := 0; i < 3; i++ {
		e := s.entry("same")
		s.engine.Submit(e)
	}
	for i := 0; i < 6; i++ {
		s.engine.PlayNext()
	}
	st := s.engine.Snapshot()
	seen := map[string]bool{}
	for _, h := range st.PlayHistory {
		s.False(seen[h.VideoID], "duplicate video %s in history", h.VideoID)
		seen[h.VideoID] = true
	}
	s.Len(st.PlayHistory, 1)
}

func (s *EngineTestSuite) TestPlayNextPrefersPlaylistOverHistory() {
	s.engine.Submit(s.entry("H1"))
	s.engine.PlayNext() // H1 archived, nothing queued → replays H1 from history
	s.Len(s.engine.Snapshot().PlayHistory, 1)

	s.engine.Submit(s.entry("Q1"))
	s.engine.Submit(s.entry("Q2"))

	events := s.engine.PlayNext()
	payload := events[0].Payload.(NowPlaying)
	s.False(payload.IsHistoryPlaying)
	s.Equal("Q1", payload.CurrentSong.Title)

	events = s.engine.PlayNext()
	payload = events[0].Payload.(NowPlaying)
	s.False(payload.IsHistoryPlaying)
	s.Equal("Q2", payload.CurrentSong.Title)
}

func (s *EngineTestSuite) TestHistoryRoundRobin() {
	for _, t := range []string{"A", "B", "C"} {
		s.True(s.engine.store.RecordHistory(s.entry(t)))
	}

	var visited []string
	for i := 0; i < 3; i++ {
		events := s.engine.PlayNext()
		s.Require().Len(events, 1)
		payload := events[0].Payload.(NowPlaying)
		s.True(payload.IsHistoryPlaying)
		visited = append(visited, payload.CurrentSong.Title)
	}
	s.Equal([]string{"A", "B", "C"}, visited)

	events := s.engine.PlayNext()
	s.Equal("A", events[0].Payload.(NowPlaying).CurrentSong.Title)
	s.Len(s.engine.Snapshot().PlayHistory, 3)
}

func (s *EngineTestSuite) TestPlayNextEndsWhenNothingLeft() {
	events := s.engine.PlayNext()
	s.Equal([]string{EventPlaylistEnded}, eventNames(events))
	st := s.engine.Snapshot()
	s.Nil(st.CurrentSong)
	s.False(st.IsPlaying)
}

func (s *EngineTestSuite) TestApprovalGating() {
	s.engine.SetApprovalMode(true)
	a := s.entry("A")
	events := s.engine.Submit(a)
	s.Equal([]string{EventPendingRequestsUpdated}, eventNames(events))

	st := s.engine.Snapshot()
	s.Nil(st.CurrentSong)
	s.Empty(st.Playlist)
	s.Equal([]string{"A"}, titles(st.PendingRequests))

	s.engine.Approve(a.ID)
	st = s.engine.Snapshot()
	s.Equal("A", st.CurrentSong.Title)
	s.Empty(st.PendingRequests)
}

func (s *EngineTestSuite) TestRejectAndClear() {
	s.engine.SetApprovalMode(true)
	a, b, c := s.entry("A"), s.entry("B"), s.entry("C")
	s.engine.Submit(a)
	s.engine.Submit(b)
	s.engine.Submit(c)

	s.Equal([]string{EventPendingRequestsUpdated}, eventNames(s.engine.Reject(b.ID)))
	s.Nil(s.engine.Reject(b.ID))
	s.Equal([]string{"A", "C"}, titles(s.engine.Snapshot().PendingRequests))

	events := s.engine.ClearPending()
	s.Equal([]string{EventPendingRequestsUpdated}, eventNames(events))
	s.Empty(events[0].Payload.([]SongEntry))
	st := s.engine.Snapshot()
	s.Empty(st.PendingRequests)
	s.Nil(st.CurrentSong)
}

func (s *EngineTestSuite) TestModeSwitchAutoAdmitsInOrder() {
	s.engine.SetApprovalMode(true)
	s.engine.Submit(s.entry("A"))
	s.engine.Submit(s.entry("B"))

	events := s.engine.SetApprovalMode(false)
	s.Equal([]string{
		EventAdminModeUpdated,
		EventNewSongRequest,
		EventNewSongRequest,
		EventPendingRequestsUpdated,
	}, eventNames(events))
	s.Equal("A", events[1].Payload.(SongEntry).Title)
	s.Equal("B", events[2].Payload.(SongEntry).Title)

	st := s.engine.Snapshot()
	s.Equal("A", st.CurrentSong.Title)
	s.Equal([]string{"B"}, titles(st.Playlist))
	s.Empty(st.PendingRequests)
	s.False(st.AdminMode.ApprovalRequired)
}

func (s *EngineTestSuite) TestModeQueriesTargetSender() {
	events := s.engine.ApprovalMode()
	s.Equal(Sender, events[0].Target)
	s.Equal(false, events[0].Payload)

	events = s.engine.PendingRequests()
	s.Equal(Sender, events[0].Target)
	s.Equal(EventPendingRequestsUpdated, events[0].Name)
}

func (s *EngineTestSuite) TestSkipToDiscardsWithoutArchiving() {
	s.engine.Submit(s.entry("Current"))
	for _, t := range []string{"X", "Y", "Z", "W"} {
		s.engine.Submit(s.entry(t))
	}

	events := s.engine.SkipTo(2)
	s.Equal([]string{EventSongSkipped}, eventNames(events))

	st := s.engine.Snapshot()
	s.Equal("Z", st.CurrentSong.Title)
	s.Equal([]string{"W"}, titles(st.Playlist))
	s.True(st.IsPlaying)
	for _, h := range st.PlayHistory {
		s.NotContains([]string{"X", "Y"}, h.Title)
	}
}

func (s *EngineTestSuite) TestSkipToOutOfRangeIgnored() {
	s.engine.Submit(s.entry("A"))
	s.engine.Submit(s.entry("B"))
	before := s.engine.Snapshot()

	s.Nil(s.engine.SkipTo(-1))
	s.Nil(s.engine.SkipTo(1))
	s.Equal(titles(before.Playlist), titles(s.engine.Snapshot().Playlist))
}

func (s *EngineTestSuite) TestAdminSkipCurrentDoesNotUseHistory() {
	s.engine.Submit(s.entry("A"))
	s.engine.Submit(s.entry("B"))

	events := s.engine.AdminSkipCurrent()
	s.Equal([]string{EventPlaylistUpdated}, eventNames(events))
	change := events[0].Payload.(PlaylistChange)
	s.Equal("B", change.CurrentSong.Title)
	s.Empty(change.Playlist)

	events = s.engine.AdminSkipCurrent()
	change = events[0].Payload.(PlaylistChange)
	s.Nil(change.CurrentSong)

	st := s.engine.Snapshot()
	s.False(st.IsPlaying)
	s.Equal([]string{"A", "B"}, titles(st.PlayHistory))
}

func (s *EngineTestSuite) TestSetPlayStateTargetsOthers() {
	events := s.engine.SetPlayState(false)
	s.Equal(Others, events[0].Target)
	s.Equal(false, events[0].Payload)
	s.False(s.engine.Snapshot().IsPlaying)
}

func (s *EngineTestSuite) TestRemoveAndReorder() {
	s.engine.Submit(s.entry("Current"))
	a, b, c := s.entry("A"), s.entry("B"), s.entry("C")
	s.engine.Submit(a)
	s.engine.Submit(b)
	s.engine.Submit(c)

	events := s.engine.RemoveFromPlaylist(b.ID)
	s.Equal([]string{EventPlaylistOnlyUpdated}, eventNames(events))
	s.Nil(s.engine.RemoveFromPlaylist(b.ID))

	events = s.engine.ReorderPlaylist([]SongEntry{c, a})
	s.Equal([]string{"C", "A"}, titles(events[0].Payload.([]SongEntry)))

	st := s.engine.Snapshot()
	s.Equal("Current", st.CurrentSong.Title)
	s.Equal([]string{"C", "A"}, titles(st.Playlist))
}

func (s *EngineTestSuite) TestPurgeBanned() {
	s.engine.store.RecordHistory(s.entry("bad"))
	s.engine.Submit(s.entry("bad"))
	s.engine.Submit(s.entry("ok1"))
	s.engine.Submit(s.entry("bad"))
	s.engine.SetApprovalMode(true)
	s.engine.Submit(s.entry("bad"))
	s.engine.Submit(s.entry("ok2"))

	events := s.engine.PurgeBanned(BanMatch{VideoID: "bad", Title: "Bad Song"}, Sender)
	s.Equal([]string{EventPlaylistUpdated, EventPendingRequestsUpdated, EventSongBanResult}, eventNames(events))
	s.Equal(Sender, events[2].Target)
	result := events[2].Payload.(BanResult)
	s.True(result.Success)
	s.Equal(4, result.Removed)
	s.Equal(1, result.Current)
	s.Equal(1, result.Playlist)
	s.Equal(1, result.Pending)
	s.Equal(1, result.History)
	s.Equal(`"Bad Song" is now banned, 4 entries removed`, result.Message)

	st := s.engine.Snapshot()
	s.Equal("ok1", st.CurrentSong.Title)
	s.Empty(st.Playlist)
	s.Equal([]string{"ok2"}, titles(st.PendingRequests))
	s.Empty(st.PlayHistory)
}

func (s *EngineTestSuite) TestPurgeBannedHistoryKeepsCursorInRange() {
	for _, t := range []string{"A", "B", "C"} {
		s.engine.store.RecordHistory(s.entry(t))
	}
	s.engine.PlayNext() // A, cursor → 1
	s.engine.PlayNext() // B, cursor → 2

	s.engine.PurgeBanned(BanMatch{VideoID: "C"}, Broadcast)
	st := s.engine.Snapshot()
	s.Equal([]string{"A", "B"}, titles(st.PlayHistory))
	s.GreaterOrEqual(st.HistoryPlayIndex, 0)
	s.Less(st.HistoryPlayIndex, len(st.PlayHistory))
}

func (s *EngineTestSuite) TestPurgeBannedEmptyMatchIgnored() {
	s.Nil(s.engine.PurgeBanned(BanMatch{Title: "no id"}, Sender))
}

func (s *EngineTestSuite) TestHistoryLimit() {
	e := NewEngine(zap.NewNop(), 2)
	for i := 0; i < 4; i++ {
		entry, err := NewEntry(SongRequest{VideoID: fmt.Sprintf("v%d", i), Title: fmt.Sprintf("T%d", i), Nickname: "n"}, time.Now())
		s.Require().NoError(err)
		e.store.RecordHistory(entry)
	}
	st := e.Snapshot()
	s.Equal([]string{"T2", "T3"}, titles(st.PlayHistory))
	s.Less(st.HistoryPlayIndex, 2)
}

func (s *EngineTestSuite) TestAdmitAppendsBehindCurrent() {
	a, b := s.entry("A"), s.entry("B")
	s.True(s.engine.store.Admit(a))
	s.True(s.engine.store.Admit(b))
	s.False(s.engine.store.Admit(b))

	s.engine.store.AppendToPlaylist(s.entry("C"))
	st := s.engine.Snapshot()
	s.Equal("A", st.CurrentSong.Title)
	s.Equal([]string{"B", "C"}, titles(st.Playlist))
}

func (s *EngineTestSuite) TestSnapshotIsACopy() {
	s.engine.Submit(s.entry("A"))
	s.engine.Submit(s.entry("B"))
	st := s.engine.Snapshot()
	st.Playlist[0].Title = "mutated"
	st.CurrentSong.Title = "mutated"

	fresh := s.engine.Snapshot()
	s.Equal("A", fresh.CurrentSong.Title)
	s.Equal("B", fresh.Playlist[0].Title)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
