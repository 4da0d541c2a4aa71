package app

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/core"
	"github.com/modaverse/presence/internal/domain"
)

// Outbound event names.
const (
	EvtUserJoined       = "user_joined"
	EvtCommunityMembers = "community_members"
	EvtMessage          = "message"
	EvtPageShare        = "page_share"
)

// Envelope is the wire shape of every frame: the event name plus its data.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// UserJoinedEvent is the lightweight join notice sent to a room before the
// full roster push, joiner excluded.
type UserJoinedEvent struct {
	UserName    string             `json:"userName"`
	CommunityID domain.CommunityID `json:"communityId"`
}

// CommunityMembersEvent carries the full roster, not a diff. Full-list
// replacement keeps client state a correct snapshot after every push even
// under reordered delivery.
type CommunityMembersEvent struct {
	CommunityID domain.CommunityID    `json:"communityId"`
	Members     []core.MemberSnapshot `json:"members"`
}

// MessageEvent is the chat-visible record. Kind distinguishes free text from
// page shares; PageURL/PageTitle are set only for the latter.
type MessageEvent struct {
	ID          string             `json:"id"`
	CommunityID domain.CommunityID `json:"communityId"`
	UserID      domain.UserID      `json:"userId"`
	UserName    string             `json:"userName"`
	Content     string             `json:"content"`
	Timestamp   time.Time          `json:"timestamp"`
	Kind        domain.MessageKind `json:"type"`
	PageURL     string             `json:"pageUrl,omitempty"`
	PageTitle   string             `json:"pageTitle,omitempty"`
}

// PageShareEvent tells everyone else in the room that someone navigated to a
// page, distinct from the chat record so the sharer is not double-counted.
type PageShareEvent struct {
	CommunityID domain.CommunityID `json:"communityId"`
	PageURL     string             `json:"pageUrl"`
	PageTitle   string             `json:"pageTitle"`
	UserName    string             `json:"userName"`
}

func encode(event string, data any) (core.Frame, bool) {
	b, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("module", "app.events").Str("event", event).Msg("encode frame")
		return nil, false
	}
	return b, true
}
