package domain

import "github.com/samber/lo"

// RecipientPolicy decides which users receive a notification when a message
// lands in a chat. Recipient selection is configuration, not hardcoded role
// checks, so page controllers can swap policies without touching the store.
type RecipientPolicy interface {
	Recipients(chat Chat, senderID string) []string
}

// ParticipantsPolicy notifies the current chat participants only.
type ParticipantsPolicy struct{}

func (ParticipantsPolicy) Recipients(chat Chat, senderID string) []string {
	return lo.Without(lo.Uniq(chat.Participants), senderID)
}

// ElevatedRolePolicy extends the participant set with a fixed group of
// always-notified users (hosts and admins here).
type ElevatedRolePolicy struct {
	AlwaysNotify []string
}

func (p ElevatedRolePolicy) Recipients(chat Chat, senderID string) []string {
	all := append(append([]string{}, chat.Participants...), p.AlwaysNotify...)
	return lo.Without(lo.Uniq(all), senderID)
}
