package domain

import "time"

// stampLayout matches the ISO-8601 millisecond format the web
// client wrote to local storage. Persisted timestamps must stay comparable
// with records written by that client.
const stampLayout = "2006-01-02T15:04:05.000Z"

// Stamp renders a timestamp in the persisted ISO-8601 form (UTC, millisecond).
func Stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// ParseStamp reads a persisted timestamp. Unparseable values come back as the
// zero time so a corrupt record sorts last instead of failing a read path.
func ParseStamp(s string) time.Time {
	if t, err := time.Parse(stampLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}

// TimeID builds the time-based record id the web client uses
// (Date.now()). Not unique across same-millisecond creates, by design.
func TimeID(t time.Time) int64 {
	return t.UnixMilli()
}

// Chat is the conversation thread bound to one party.
type Chat struct {
	PartyID         string   `json:"partyId"`
	Participants    []string `json:"participants"`
	Created         string   `json:"created"`
	LastActivity    string   `json:"lastActivity"`
	LastMessageTime string   `json:"lastMessageTime,omitempty"`
}

func (c Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

func (c Chat) LastActivityAt() time.Time {
	return ParseStamp(c.LastActivity)
}

// Message is one chat utterance. Immutable once stored except for Read.
type Message struct {
	ID         int64  `json:"id"`
	PartyID    string `json:"partyId"`
	UserID     string `json:"userId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
	// Read approximates "some non-author reader has seen it". It is not
	// per-reader state; unread counts are computed relative to the asking
	// user on top of this flag.
	Read bool `json:"read"`
}

// Notification is a per-recipient pointer to a message event. The message
// text and sender name are snapshots taken at fan-out time.
type Notification struct {
	ID        int64  `json:"id"`
	PartyID   string `json:"partyId"`
	Message   string `json:"message"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}
