package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageKind string

const (
	KindMessage   MessageKind = "message"
	KindPageShare MessageKind = "page_share"
)

// Message is transient: built on receipt, fanned out once, then discarded.
// There is no storage layer behind it.
type Message struct {
	ID          string
	CommunityID CommunityID
	Sender      Identity
	Content     string
	PageURL     string
	PageTitle   string
	Timestamp   time.Time
	Kind        MessageKind
}

// NewMessage stamps a fresh id and a server-side timestamp. Client-supplied
// timestamps are never trusted.
func NewMessage(cid CommunityID, sender Identity, kind MessageKind, content string) *Message {
	return &Message{
		ID:          uuid.NewString(),
		CommunityID: cid,
		Sender:      sender,
		Content:     content,
		Timestamp:   time.Now().UTC(),
		Kind:        kind,
	}
}
