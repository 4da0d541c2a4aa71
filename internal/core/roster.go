package core

import (
	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/domain"
)

// MemberSnapshot is the identity view captured at join time. It is what
// presence pushes carry; transport fields never leak into it.
type MemberSnapshot struct {
	ID     domain.UserID `json:"id"`
	Name   string        `json:"name"`
	Avatar *string       `json:"avatar"`
}

type rosterEntry struct {
	sid    SessionID
	member MemberSnapshot
}

// RoomUpdate pairs a room with its member list after a removal, so the
// caller can re-broadcast each affected roster.
type RoomUpdate struct {
	CommunityID domain.CommunityID
	Members     []MemberSnapshot
}

// RoomInfo is a read-only view for APIs.
type RoomInfo struct {
	CommunityID domain.CommunityID `json:"communityId"`
	MemberCount int                `json:"memberCount"`
}

// RosterTable tracks which sessions joined which community, with the
// identity snapshot taken at join time. Entries keep insertion order so a
// roster lists first-joined first, stable across repeated snapshots.
//
// Not self-locking: serialized by the app.Hub mutex (see registry.go).
type RosterTable struct {
	rooms  map[domain.CommunityID][]rosterEntry
	joined map[SessionID]map[domain.CommunityID]struct{}
}

func NewRosterTable() *RosterTable {
	return &RosterTable{
		rooms:  make(map[domain.CommunityID][]rosterEntry),
		joined: make(map[SessionID]map[domain.CommunityID]struct{}),
	}
}

// Join inserts or overwrites the (cid, sid) entry. An overwrite keeps the
// original position, so re-joining never reorders the roster. Returns the
// updated member list.
func (t *RosterTable) Join(cid domain.CommunityID, sid SessionID, member MemberSnapshot) []MemberSnapshot {
	entries := t.rooms[cid]
	replaced := false
	for i := range entries {
		if entries[i].sid == sid {
			entries[i].member = member
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, rosterEntry{sid: sid, member: member})
	}
	t.rooms[cid] = entries

	rooms, ok := t.joined[sid]
	if !ok {
		rooms = make(map[domain.CommunityID]struct{})
		t.joined[sid] = rooms
	}
	rooms[cid] = struct{}{}

	log.Info().Str("module", "core.roster").Str("sid", string(sid)).Str("community", string(cid)).Int("members", len(entries)).Msg("member joined")
	return t.MembersOf(cid)
}

// Leave removes the (cid, sid) entry if present. Returns the updated member
// list and whether anything was removed; leaving a room the session never
// joined is a no-op.
func (t *RosterTable) Leave(cid domain.CommunityID, sid SessionID) ([]MemberSnapshot, bool) {
	entries, ok := t.rooms[cid]
	if !ok {
		return nil, false
	}
	idx := -1
	for i := range entries {
		if entries[i].sid == sid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return t.MembersOf(cid), false
	}
	entries = append(entries[:idx], entries[idx+1:]...)
	if len(entries) == 0 {
		delete(t.rooms, cid)
	} else {
		t.rooms[cid] = entries
	}

	if rooms, ok := t.joined[sid]; ok {
		delete(rooms, cid)
		if len(rooms) == 0 {
			delete(t.joined, sid)
		}
	}

	log.Info().Str("module", "core.roster").Str("sid", string(sid)).Str("community", string(cid)).Int("members", len(entries)).Msg("member left")
	return t.MembersOf(cid), true
}

// RemoveSessionFromAllRooms drops sid from every room it joined and reports
// each affected room with its remaining members. Used on disconnect.
func (t *RosterTable) RemoveSessionFromAllRooms(sid SessionID) []RoomUpdate {
	rooms, ok := t.joined[sid]
	if !ok {
		return nil
	}
	updates := make([]RoomUpdate, 0, len(rooms))
	for cid := range rooms {
		members, removed := t.Leave(cid, sid)
		if removed {
			updates = append(updates, RoomUpdate{CommunityID: cid, Members: members})
		}
	}
	return updates
}

// MembersOf returns the roster in insertion order (first joined, first
// listed). Unknown room yields an empty list, never nil, so presence pushes
// always carry a JSON array.
func (t *RosterTable) MembersOf(cid domain.CommunityID) []MemberSnapshot {
	entries := t.rooms[cid]
	out := make([]MemberSnapshot, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].member)
	}
	return out
}

// SessionsOf returns the session ids currently in cid, insertion order.
func (t *RosterTable) SessionsOf(cid domain.CommunityID) []SessionID {
	entries := t.rooms[cid]
	out := make([]SessionID, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].sid)
	}
	return out
}

// RoomsOf returns the communities sid has joined.
func (t *RosterTable) RoomsOf(sid SessionID) []domain.CommunityID {
	rooms := t.joined[sid]
	out := make([]domain.CommunityID, 0, len(rooms))
	for cid := range rooms {
		out = append(out, cid)
	}
	return out
}

// List reports every non-empty room with its member count.
func (t *RosterTable) List() []RoomInfo {
	out := make([]RoomInfo, 0, len(t.rooms))
	for cid, entries := range t.rooms {
		out = append(out, RoomInfo{CommunityID: cid, MemberCount: len(entries)})
	}
	return out
}
