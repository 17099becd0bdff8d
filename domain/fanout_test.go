package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParticipantsPolicy_ExcludesSender(t *testing.T) {
	req := require.New(t)
	chat := Chat{PartyID: "1", Participants: []string{"2", "3", "2"}}

	got := ParticipantsPolicy{}.Recipients(chat, "2")
	req.Equal([]string{"3"}, got)
}

func TestElevatedRolePolicy_AddsElevatedUsersOnce(t *testing.T) {
	req := require.New(t)
	chat := Chat{PartyID: "1", Participants: []string{"2", "3"}}
	policy := ElevatedRolePolicy{AlwaysNotify: []string{"3", "9"}}

	got := policy.Recipients(chat, "2")
	req.Equal([]string{"3", "9"}, got)
}

func TestElevatedRolePolicy_SenderNeverNotified(t *testing.T) {
	req := require.New(t)
	chat := Chat{PartyID: "1", Participants: []string{"2"}}
	policy := ElevatedRolePolicy{AlwaysNotify: []string{"2", "9"}}

	req.Equal([]string{"9"}, policy.Recipients(chat, "2"))
}
