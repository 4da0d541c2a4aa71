package core

// Frame is a single encoded outbound event.
type Frame []byte

// SessionID identifies one live transport connection. A reconnect gets a
// brand-new id; ids are never reused for session resumption.
type SessionID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
