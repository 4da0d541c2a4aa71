package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modaverse/presence/internal/domain"
)

func snap(id, name string) MemberSnapshot {
	return MemberSnapshot{ID: domain.UserID(id), Name: name}
}

func TestRoster_Members_Keep_Insertion_Order(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()
	room := domain.CommunityID("room1")

	tbl.Join(room, "s1", snap("u1", "Alice"))
	tbl.Join(room, "s2", snap("u2", "Bob"))
	tbl.Join(room, "s3", snap("u3", "Carol"))

	members := tbl.MembersOf(room)
	req.Len(members, 3)
	req.Equal("Alice", members[0].Name)
	req.Equal("Bob", members[1].Name)
	req.Equal("Carol", members[2].Name)

	// Repeated snapshots are stable absent membership changes
	req.Equal(members, tbl.MembersOf(room))
}

func TestRoster_Join_Twice_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()
	room := domain.CommunityID("room1")

	tbl.Join(room, "s1", snap("u1", "Alice"))
	tbl.Join(room, "s2", snap("u2", "Bob"))

	// When the first member joins again with a newer snapshot
	members := tbl.Join(room, "s1", snap("u1", "Alicia"))

	// Then no duplicate entry exists and the position is kept
	req.Len(members, 2)
	req.Equal("Alicia", members[0].Name)
	req.Equal("Bob", members[1].Name)
}

func TestRoster_No_Duplicate_Session_Ids(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()
	room := domain.CommunityID("room1")

	for i := 0; i < 5; i++ {
		tbl.Join(room, "s1", snap("u1", "Alice"))
	}

	req.Len(tbl.SessionsOf(room), 1)
}

func TestRoster_Same_User_Two_Sessions_Listed_Twice(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()
	room := domain.CommunityID("room1")

	// Given one user on two devices
	tbl.Join(room, "phone", snap("u1", "Alice"))
	tbl.Join(room, "laptop", snap("u1", "Alice"))

	members := tbl.MembersOf(room)
	req.Len(members, 2)
	req.Equal(domain.UserID("u1"), members[0].ID)
	req.Equal(domain.UserID("u1"), members[1].ID)
}

func TestRoster_Leave_Removes_Entry(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()
	room := domain.CommunityID("room1")
	tbl.Join(room, "s1", snap("u1", "Alice"))
	tbl.Join(room, "s2", snap("u2", "Bob"))

	members, removed := tbl.Leave(room, "s1")

	req.True(removed)
	req.Len(members, 1)
	req.Equal("Bob", members[0].Name)
	req.Empty(tbl.RoomsOf("s1"))
}

func TestRoster_Leave_Unknown_Room_Is_Noop(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()

	members, removed := tbl.Leave(domain.CommunityID("nowhere"), "s1")
	req.False(removed)
	req.Empty(members)
}

func TestRoster_Leave_Not_A_Member_Is_Noop(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()
	room := domain.CommunityID("room1")
	tbl.Join(room, "s1", snap("u1", "Alice"))

	members, removed := tbl.Leave(room, "stranger")
	req.False(removed)
	req.Len(members, 1)
}

func TestRoster_RemoveSessionFromAllRooms(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()
	r1 := domain.CommunityID("room1")
	r2 := domain.CommunityID("room2")

	// Given a session in two rooms, with company in one of them
	tbl.Join(r1, "s1", snap("u1", "Alice"))
	tbl.Join(r2, "s1", snap("u1", "Alice"))
	tbl.Join(r1, "s2", snap("u2", "Bob"))

	// When the session disconnects
	updates := tbl.RemoveSessionFromAllRooms("s1")

	// Then both rooms report their remaining members
	req.Len(updates, 2)
	byRoom := make(map[domain.CommunityID][]MemberSnapshot)
	for _, u := range updates {
		byRoom[u.CommunityID] = u.Members
	}
	req.Len(byRoom[r1], 1)
	req.Equal("Bob", byRoom[r1][0].Name)
	req.Empty(byRoom[r2])

	// And the session is gone everywhere
	req.Empty(tbl.RoomsOf("s1"))
	req.Len(tbl.SessionsOf(r1), 1)
	req.Empty(tbl.SessionsOf(r2))
}

func TestRoster_RemoveSession_Not_Joined_Anywhere(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()

	req.Empty(tbl.RemoveSessionFromAllRooms("ghost"))
}

func TestRoster_MembersOf_Unknown_Room_Is_Empty_Not_Nil(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()

	members := tbl.MembersOf(domain.CommunityID("nowhere"))
	req.NotNil(members)
	req.Empty(members)
}

func TestRoster_List_Reports_Counts(t *testing.T) {
	req := require.New(t)
	tbl := NewRosterTable()
	tbl.Join("room1", "s1", snap("u1", "Alice"))
	tbl.Join("room1", "s2", snap("u2", "Bob"))
	tbl.Join("room2", "s1", snap("u1", "Alice"))

	infos := tbl.List()
	req.Len(infos, 2)
	counts := make(map[domain.CommunityID]int)
	for _, info := range infos {
		counts[info.CommunityID] = info.MemberCount
	}
	req.Equal(2, counts["room1"])
	req.Equal(1, counts["room2"])

	// Emptied rooms drop off the list
	tbl.Leave("room2", "s1")
	req.Len(tbl.List(), 1)
}
