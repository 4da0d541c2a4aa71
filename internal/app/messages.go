package app

import (
	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/core"
	"github.com/modaverse/presence/internal/domain"
)

// SendMessage routes a chat message to everyone in the room, sender
// included. An unauthenticated sender is dropped silently; a room with no
// members is a legal no-op.
func (h *Hub) SendMessage(sid core.SessionID, cid domain.CommunityID, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.registry.Lookup(sid)
	if !ok {
		log.Debug().Str("module", "app.messages").Str("sid", string(sid)).Msg("message before authenticate, dropped")
		return
	}

	msg := domain.NewMessage(cid, *id, domain.KindMessage, content)
	h.routeMessage(msg)
}

// SharePage notifies every other member that the sender navigated to a page,
// then routes the chat-visible record to the whole room. The sharer gets
// only the record, never the navigation notice.
func (h *Hub) SharePage(sid core.SessionID, cid domain.CommunityID, pageURL, pageTitle string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.registry.Lookup(sid)
	if !ok {
		log.Debug().Str("module", "app.messages").Str("sid", string(sid)).Msg("share before authenticate, dropped")
		return
	}

	if frame, ok := encode(EvtPageShare, PageShareEvent{
		CommunityID: cid,
		PageURL:     pageURL,
		PageTitle:   pageTitle,
		UserName:    id.Name,
	}); ok {
		h.broadcastExcept(cid, sid, frame)
	}

	msg := domain.NewMessage(cid, *id, domain.KindPageShare, "Shared: "+pageTitle)
	msg.PageURL = pageURL
	msg.PageTitle = pageTitle
	h.routeMessage(msg)
}

// routeMessage fans out to membersOf at this instant. No buffering, no
// queue, no redelivery. Callers hold h.mu.
func (h *Hub) routeMessage(msg *domain.Message) {
	frame, ok := encode(EvtMessage, MessageEvent{
		ID:          msg.ID,
		CommunityID: msg.CommunityID,
		UserID:      msg.Sender.UserID,
		UserName:    msg.Sender.Name,
		Content:     msg.Content,
		Timestamp:   msg.Timestamp,
		Kind:        msg.Kind,
		PageURL:     msg.PageURL,
		PageTitle:   msg.PageTitle,
	})
	if !ok {
		return
	}
	h.broadcast(msg.CommunityID, frame)
	log.Debug().Str("module", "app.messages").Str("community", string(msg.CommunityID)).Str("kind", string(msg.Kind)).Str("msg_id", msg.ID).Msg("message routed")
}
