package queue

import "go.uber.org/zap"

// Submit routes a new request through the moderation gate: held for approval
// in approval mode, admitted straight away in free mode.
func (e *Engine) Submit(entry SongEntry) []Event {
	if e.store.approvalRequired {
		if !e.store.addPending(entry) {
			e.log.Debug("duplicate pending request", zap.String("id", entry.ID))
			return nil
		}
		e.log.Info("request held for approval",
			zap.String("id", entry.ID), zap.String("title", entry.Title), zap.String("nickname", entry.Nickname))
		return []Event{e.pendingUpdated(Broadcast)}
	}
	return e.admit(entry)
}

// Approve admits a pending request. Unknown ids are treated as already resolved.
func (e *Engine) Approve(id string) []Event {
	entry, ok := e.store.takePending(id)
	if !ok {
		e.log.Debug("approve on unknown id", zap.String("id", id))
		return nil
	}
	events := e.admit(entry)
	return append(events, e.pendingUpdated(Broadcast))
}

// Reject drops a pending request without admitting it.
func (e *Engine) Reject(id string) []Event {
	if _, ok := e.store.takePending(id); !ok {
		e.log.Debug("reject on unknown id", zap.String("id", id))
		return nil
	}
	return []Event{e.pendingUpdated(Broadcast)}
}

// ClearPending drops every pending request.
func (e *Engine) ClearPending() []Event {
	e.store.drainPending()
	return []Event{e.pendingUpdated(Broadcast)}
}

// SetApprovalMode switches between free and approval mode. Leaving approval
// mode admits every pending request in arrival order.
func (e *Engine) SetApprovalMode(required bool) []Event {
	wasRequired := e.store.approvalRequired
	e.store.approvalRequired = required
	e.store.touch()

	events := []Event{{Name: EventAdminModeUpdated, Payload: required, Target: Broadcast}}
	if wasRequired && !required {
		drained := e.store.drainPending()
		for _, entry := range drained {
			events = append(events, e.admit(entry)...)
		}
		events = append(events, e.pendingUpdated(Broadcast))
		e.log.Info("approval mode off, pending requests admitted", zap.Int("count", len(drained)))
	}
	return events
}

// ApprovalMode answers a mode query for the asking client only.
func (e *Engine) ApprovalMode() []Event {
	return []Event{{Name: EventAdminModeUpdated, Payload: e.store.approvalRequired, Target: Sender}}
}

// PendingRequests answers a pending-list query for the asking client only.
func (e *Engine) PendingRequests() []Event {
	return []Event{e.pendingUpdated(Sender)}
}

func (e *Engine) admit(entry SongEntry) []Event {
	if !e.store.Admit(entry) {
		e.log.Debug("entry already queued", zap.String("id", entry.ID))
		return nil
	}
	e.log.Info("request admitted",
		zap.String("id", entry.ID), zap.String("title", entry.Title), zap.String("nickname", entry.Nickname))
	return []Event{{Name: EventNewSongRequest, Payload: entry, Target: Broadcast}}
}
