// Package projection builds read models for list rendering. It only
// consumes store reads; nothing here mutates state or talks to the UI.
package projection

import (
	"fmt"
	"time"

	"partyverse/domain"
)

// Entry is one row of the recent-chats list: party title, last message
// preview, unread badge and a human time bucket.
type Entry struct {
	PartyID    string
	PartyTitle string
	Preview    string
	Unread     int
	When       string
}

// ChatList assembles entries from store read callbacks, so it stays usable
// with any repository wiring and trivial to drive in tests.
type ChatList struct {
	Party    func(partyID string) (domain.Party, bool, error)
	Messages func(partyID string) ([]domain.Message, error)
	Unread   func(partyID, userID string) (int, error)
}

// Build renders one entry per chat, keeping the order of the input slice
// (the store already sorts by recent activity).
func (c ChatList) Build(userID string, chats []domain.Chat, now time.Time) ([]Entry, error) {
	entries := make([]Entry, 0, len(chats))
	for _, chat := range chats {
		entry := Entry{PartyID: chat.PartyID, PartyTitle: "Unknown Party"}

		if party, found, err := c.Party(chat.PartyID); err != nil {
			return nil, err
		} else if found {
			entry.PartyTitle = party.Title
		}

		messages, err := c.Messages(chat.PartyID)
		if err != nil {
			return nil, err
		}
		if len(messages) == 0 {
			entry.Preview = "No messages yet"
			entry.When = RelativeTime(now, chat.LastActivity)
		} else {
			last := messages[len(messages)-1]
			entry.Preview = fmt.Sprintf("%s: %s", last.SenderName, last.Text)
			entry.When = RelativeTime(now, last.Timestamp)
		}

		entry.Unread, err = c.Unread(chat.PartyID, userID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RelativeTime buckets a timestamp the way the web client chat list does:
// under an hour reads "Just now", same day shows the clock, the day after
// reads "Yesterday", anything older shows the date.
func RelativeTime(now time.Time, stamp string) string {
	at := domain.ParseStamp(stamp)
	if at.IsZero() {
		return ""
	}
	switch age := now.Sub(at); {
	case age < time.Hour:
		return "Just now"
	case age < 24*time.Hour:
		return at.Local().Format("15:04")
	case age < 48*time.Hour:
		return "Yesterday"
	default:
		return at.Local().Format("Jan 2, 2006")
	}
}

// Badge caps a count for display, "99+" style.
func Badge(count int) string {
	if count > 99 {
		return "99+"
	}
	return fmt.Sprintf("%d", count)
}
