package app

import (
	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/core"
	"github.com/modaverse/presence/internal/domain"
)

// broadcastMembership pushes the full member list to every session in the
// room, including the one that triggered the change. Callers hold h.mu.
func (h *Hub) broadcastMembership(cid domain.CommunityID, members []core.MemberSnapshot) {
	frame, ok := encode(EvtCommunityMembers, CommunityMembersEvent{CommunityID: cid, Members: members})
	if !ok {
		return
	}
	h.broadcast(cid, frame)
}

// broadcast sends a frame to every session currently in the room. A failed
// TrySend means the peer is too slow or gone; the frame is dropped for that
// peer only, per the at-most-once contract.
func (h *Hub) broadcast(cid domain.CommunityID, frame core.Frame) {
	for _, sid := range h.rosters.SessionsOf(cid) {
		h.sendTo(sid, frame)
	}
}

// broadcastExcept sends a frame to everyone in the room but skip.
func (h *Hub) broadcastExcept(cid domain.CommunityID, skip core.SessionID, frame core.Frame) {
	for _, sid := range h.rosters.SessionsOf(cid) {
		if sid == skip {
			continue
		}
		h.sendTo(sid, frame)
	}
}

func (h *Hub) sendTo(sid core.SessionID, frame core.Frame) {
	conn, ok := h.registry.Conn(sid)
	if !ok {
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.presence").Str("sid", string(sid)).Msg("frame dropped")
	}
}
