package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair(7, 3)
	assert.Equal(t, 3, a)
	assert.Equal(t, 7, b)

	a, b = CanonicalPair(3, 7)
	assert.Equal(t, 3, a)
	assert.Equal(t, 7, b)
}

func TestReadFlagsFollowActor(t *testing.T) {
	u1Read, u2Read := ReadFlagsFor(3, 3, 7)
	assert.True(t, u1Read)
	assert.False(t, u2Read)

	u1Read, u2Read = ReadFlagsFor(7, 3, 7)
	assert.False(t, u1Read)
	assert.True(t, u2Read)
}

func TestChatSenderReceiverView(t *testing.T) {
	chat := Chat{User1ID: 3, User2ID: 7, InitiatorID: 7, User1Read: false, User2Read: true}

	assert.Equal(t, 7, chat.SenderID())
	assert.Equal(t, 3, chat.ReceiverID())
	assert.True(t, chat.SenderRead())
	assert.False(t, chat.ReceiverRead())
	assert.Equal(t, 3, chat.OtherParty(7))
	assert.True(t, chat.IsParticipant(3))
	assert.False(t, chat.IsParticipant(9))
}

func TestPostStatusIcons(t *testing.T) {
	cases := map[string]string{
		"public":  "fa fa-globe",
		"private": "fa fa-key",
		"friends": "fa fa-group",
	}
	for raw, icon := range cases {
		status, err := ParsePostStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, icon, status.Icon())
	}

	_, err := ParsePostStatus("everyone")
	assert.Error(t, err)
}

func TestFriendshipOther(t *testing.T) {
	edge := Friendship{RequesterID: 4, AddresseeID: 9}
	assert.Equal(t, 9, edge.Other(4))
	assert.Equal(t, 4, edge.Other(9))
	assert.True(t, edge.Involves(9))
	assert.False(t, edge.Involves(5))
}
