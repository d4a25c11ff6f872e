package realtime

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/leejgdh/youtube-dj/internal/queue"
	"go.uber.org/zap"
)

// dispatch maps a client frame onto the engine. Payloads of the wrong shape
// are dropped without a reply.
func (h *Hub) dispatch(msg inbound) []queue.Event {
	e := h.engine

	switch msg.event {
	case queue.EventRequestSong:
		return h.requestSong(msg)
	case queue.EventPlayNextSong:
		return e.PlayNext()
	case queue.EventUpdatePlayState:
		if v, ok := decode[bool](msg.data); ok {
			return e.SetPlayState(v)
		}
	case queue.EventSkipToSong:
		if v, ok := decode[int](msg.data); ok {
			return e.SkipTo(v)
		}
	case queue.EventAdminSkipCurrent:
		return e.AdminSkipCurrent()
	case queue.EventGetAdminMode:
		return e.ApprovalMode()
	case queue.EventInitAdminMode, queue.EventSetAdminMode:
		if v, ok := decode[bool](msg.data); ok {
			return e.SetApprovalMode(v)
		}
	case queue.EventGetPendingRequests:
		return e.PendingRequests()
	case queue.EventApproveRequest:
		if v, ok := decode[string](msg.data); ok {
			return e.Approve(v)
		}
	case queue.EventRejectRequest:
		if v, ok := decode[string](msg.data); ok {
			return e.Reject(v)
		}
	case queue.EventClearPendingRequests:
		return e.ClearPending()
	case queue.EventRemoveFromPlaylist:
		if v, ok := decode[string](msg.data); ok {
			return e.RemoveFromPlaylist(v)
		}
	case queue.EventReorderPlaylist:
		if v, ok := decode[[]queue.SongEntry](msg.data); ok && v != nil {
			return e.ReorderPlaylist(v)
		}
	case queue.EventSongBanned:
		if v, ok := decode[queue.BanMatch](msg.data); ok {
			return e.PurgeBanned(v, queue.Sender)
		}
	default:
		h.log.Debug("unknown event", zap.String("event", msg.event), zap.String("client", msg.client.id))
		return nil
	}

	h.log.Debug("malformed payload ignored", zap.String("event", msg.event), zap.String("client", msg.client.id))
	return nil
}

func (h *Hub) requestSong(msg inbound) []queue.Event {
	if msg.request == nil {
		return nil
	}
	if msg.rejected {
		return []queue.Event{{
			Name: queue.EventSongRequestRejected,
			Payload: queue.RequestRejection{
				YoutubeURL: msg.request.YoutubeURL,
				Reason:     "This song has been banned by an admin.",
			},
			Target: queue.Sender,
		}}
	}
	entry, err := queue.NewEntry(*msg.request, time.Now())
	if err != nil {
		h.log.Debug("invalid song request", zap.String("client", msg.client.id), zap.Error(err))
		return nil
	}
	return h.engine.Submit(entry)
}

func decode[T any](data json.RawMessage) (T, bool) {
	var v T
	if len(data) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}
