package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIdentity(t *testing.T) {
	req := require.New(t)

	id, err := NewIdentity("u1", "Alice", nil)
	req.NoError(err)
	req.Equal(UserID("u1"), id.UserID)
	req.Equal("Alice", id.Name)
	req.Nil(id.Avatar)

	_, err = NewIdentity("", "Alice", nil)
	req.ErrorIs(err, ErrUserIDEmpty)

	_, err = NewIdentity("u1", "", nil)
	req.ErrorIs(err, ErrDisplayNameEmpty)

	_, err = NewIdentity("u1", strings.Repeat("a", MaxDisplayNameLen+1), nil)
	req.ErrorIs(err, ErrDisplayNameTooLong)

	_, err = NewIdentity(strings.Repeat("x", MaxUserIDLen+1), "Alice", nil)
	req.ErrorIs(err, ErrUserIDTooLong)

	// Multi-byte names count runes, not bytes
	_, err = NewIdentity("u1", strings.Repeat("é", MaxDisplayNameLen), nil)
	req.NoError(err)
}

func TestNewMessage_Stamps_Id_And_Timestamp(t *testing.T) {
	req := require.New(t)
	sender := Identity{UserID: "u1", Name: "Alice"}

	m1 := NewMessage("room1", sender, KindMessage, "hi")
	m2 := NewMessage("room1", sender, KindMessage, "hi")

	req.NotEmpty(m1.ID)
	req.NotEqual(m1.ID, m2.ID)
	req.False(m1.Timestamp.IsZero())
	req.Equal(KindMessage, m1.Kind)
	req.Equal(CommunityID("room1"), m1.CommunityID)
}
