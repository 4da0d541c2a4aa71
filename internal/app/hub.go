// Package app orchestrates the connection lifecycle: connect, authenticate,
// join/leave, disconnect. It owns the shared tables and serializes every
// state transition.
package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/core"
	"github.com/modaverse/presence/internal/domain"
)

// Hub owns the Connection Registry and the Room Membership Table. One mutex
// guards them together: each inbound event runs as a single non-interleaved
// transition, which is what gives every room a total broadcast order.
// Broadcasting under the lock is safe because SignalConnection.TrySend never
// blocks.
type Hub struct {
	mu       sync.Mutex
	registry *core.Registry
	rosters  *core.RosterTable
}

func NewHub() *Hub {
	return &Hub{
		registry: core.NewRegistry(),
		rosters:  core.NewRosterTable(),
	}
}

// Connect registers a fresh, unauthenticated session.
func (h *Hub) Connect(sid core.SessionID, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registry.Register(sid, conn)
}

// Authenticate attaches the upstream-verified identity to the session.
// Re-authentication simply overwrites.
func (h *Hub) Authenticate(sid core.SessionID, id *domain.Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.registry.Authenticate(sid, id) {
		log.Warn().Str("module", "app.hub").Str("sid", string(sid)).Msg("authenticate for unknown session")
	}
}

// Join adds the session to a community and announces it: a user_joined
// notice to the others first, then the full roster to the whole room.
// Unauthenticated sessions are dropped silently.
func (h *Hub) Join(sid core.SessionID, cid domain.CommunityID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.registry.Lookup(sid)
	if !ok {
		log.Debug().Str("module", "app.hub").Str("sid", string(sid)).Str("community", string(cid)).Msg("join before authenticate, dropped")
		return
	}

	snap := core.MemberSnapshot{ID: id.UserID, Name: id.Name, Avatar: id.Avatar}
	members := h.rosters.Join(cid, sid, snap)

	if frame, ok := encode(EvtUserJoined, UserJoinedEvent{UserName: id.Name, CommunityID: cid}); ok {
		h.broadcastExcept(cid, sid, frame)
	}
	h.broadcastMembership(cid, members)
}

// Leave removes the session from a community and re-broadcasts the roster to
// whoever remains. Leaving a room never joined is a no-op.
func (h *Hub) Leave(sid core.SessionID, cid domain.CommunityID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.registry.Lookup(sid); !ok {
		return
	}
	members, removed := h.rosters.Leave(cid, sid)
	if !removed {
		return
	}
	h.broadcastMembership(cid, members)
}

// Disconnect runs the full cleanup for a session, graceful close and abrupt
// transport failure alike: every room it belonged to loses the entry and
// gets its roster re-broadcast, then the registry record goes away.
func (h *Hub) Disconnect(sid core.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	updates := h.rosters.RemoveSessionFromAllRooms(sid)
	for _, u := range updates {
		h.broadcastMembership(u.CommunityID, u.Members)
	}
	h.registry.Remove(sid)
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Int("rooms", len(updates)).Msg("session disconnected")
}

// Communities lists every non-empty room with its member count.
func (h *Hub) Communities() []core.RoomInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rosters.List()
}

// Members returns the roster snapshot for one community.
func (h *Hub) Members(cid domain.CommunityID) []core.MemberSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rosters.MembersOf(cid)
}

// Shutdown closes every live connection. The readPump of each will run the
// normal disconnect path as it unwinds.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	sids := h.registry.Sessions()
	conns := make([]core.SignalConnection, 0, len(sids))
	for _, sid := range sids {
		if conn, ok := h.registry.Conn(sid); ok {
			conns = append(conns, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	log.Info().Str("module", "app.hub").Int("sessions", len(conns)).Msg("shutdown, connections closed")
}
