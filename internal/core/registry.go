package core

import (
	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/domain"
)

type connEntry struct {
	conn     SignalConnection
	identity *domain.Identity
}

// Registry maps live sessions to their transport endpoint and, once the
// authenticate event arrives, their identity.
//
// Not self-locking: every call is serialized by the app.Hub mutex, which
// guards all three shared tables together so that cross-table transitions
// stay atomic.
type Registry struct {
	sessions map[SessionID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[SessionID]*connEntry)}
}

// Register creates an unauthenticated record for sid. Idempotent: a repeat
// call keeps the existing identity and only refreshes the transport.
func (r *Registry) Register(sid SessionID, conn SignalConnection) {
	if e, ok := r.sessions[sid]; ok {
		e.conn = conn
		return
	}
	r.sessions[sid] = &connEntry{conn: conn}
	log.Debug().Str("module", "core.registry").Str("sid", string(sid)).Msg("session registered")
}

// Authenticate attaches an identity to sid, overwriting any previous one
// (re-auth is tolerated). Returns false when the session is unknown.
func (r *Registry) Authenticate(sid SessionID, id *domain.Identity) bool {
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.identity = id
	log.Info().Str("module", "core.registry").Str("sid", string(sid)).Str("user", string(id.UserID)).Msg("session authenticated")
	return true
}

// Lookup resolves "who is this session". Unknown or unauthenticated sessions
// yield absent; callers drop the event instead of failing.
func (r *Registry) Lookup(sid SessionID) (*domain.Identity, bool) {
	e, ok := r.sessions[sid]
	if !ok || e.identity == nil {
		return nil, false
	}
	return e.identity, true
}

// Conn returns the transport endpoint for sid.
func (r *Registry) Conn(sid SessionID) (SignalConnection, bool) {
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// Remove deletes the record. Called exactly once per disconnect.
func (r *Registry) Remove(sid SessionID) {
	delete(r.sessions, sid)
	log.Debug().Str("module", "core.registry").Str("sid", string(sid)).Msg("session removed")
}

// Sessions returns the ids of every live session, in no particular order.
func (r *Registry) Sessions() []SessionID {
	out := make([]SessionID, 0, len(r.sessions))
	for sid := range r.sessions {
		out = append(out, sid)
	}
	return out
}

func (r *Registry) Len() int { return len(r.sessions) }
