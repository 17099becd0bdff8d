//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"partyverse/domain"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

// DefaultNotificationLimit caps each user's notification list; the oldest
// entries are evicted on overflow.
const DefaultNotificationLimit = 50

const (
	keyChats           = "chats"
	keyMessages        = "messages"
	notificationPrefix = "notifications:"
)

type IChatRepository interface {
	GetOrCreateChat(partyID string) (domain.Chat, error)
	Chat(partyID string) (domain.Chat, bool, error)
	AddParticipant(partyID, userID string) error
	Messages(partyID string) ([]domain.Message, error)
	AddMessage(partyID string, message domain.Message) (domain.Message, error)
	MarkMessagesRead(partyID, readerID string) error
	UnreadCount(partyID, userID string) (int, error)
	UserRecentChats(userID string) ([]domain.Chat, error)
	AddNotification(recipientID, partyID string, message domain.Message) (domain.Notification, error)
	Notifications(userID string) ([]domain.Notification, error)
	UnreadNotificationCount(userID string) (int, error)
	MarkAllNotificationsRead(userID, partyID string) error
	DeleteChat(partyID string) error
	CleanupOrphanedNotifications() (int, error)
}

// ChatRepository persists the three chat tables in BadgerDB as whole JSON
// values, mirroring the local-storage layout of the web client:
//
//	chats                  -> object: partyId -> Chat
//	messages               -> array of Message, insertion order
//	notifications:<userId> -> array of Notification, newest first, capped
//
// Every operation reads the full table value, mutates it in memory and
// writes it back inside one transaction. With two concurrent writers the
// last write wins; the app assumes a single writer, and this limitation is
// deliberate, not to be papered over here.
type ChatRepository struct {
	db                *badger.DB
	log               *slog.Logger
	notificationLimit *int
}

func NewChatRepository(db *badger.DB, log *slog.Logger, notificationLimit *int) *ChatRepository {
	return &ChatRepository{db: db, log: log, notificationLimit: notificationLimit}
}

// GetOrCreateChat returns the party's chat, creating an empty one on first
// access. Idempotent: repeated calls keep the original created timestamp.
func (c ChatRepository) GetOrCreateChat(partyID string) (domain.Chat, error) {
	var chat domain.Chat
	err := c.db.Update(func(txn *badger.Txn) error {
		chats := c.loadChats(txn)
		if existing, ok := chats[partyID]; ok {
			chat = existing
			return nil
		}
		now := domain.Stamp(time.Now())
		chat = domain.Chat{
			PartyID:      partyID,
			Participants: []string{},
			Created:      now,
			LastActivity: now,
		}
		chats[partyID] = chat
		return c.saveChats(txn, chats)
	})
	return chat, err
}

// Chat returns the party's chat without creating it.
func (c ChatRepository) Chat(partyID string) (domain.Chat, bool, error) {
	var chat domain.Chat
	var found bool
	err := c.db.View(func(txn *badger.Txn) error {
		chat, found = c.loadChats(txn)[partyID]
		return nil
	})
	return chat, found, err
}

// AddParticipant appends userID to the chat's participant list and bumps
// lastActivity. No-op when the chat does not exist or the user is already in.
func (c ChatRepository) AddParticipant(partyID, userID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		chats := c.loadChats(txn)
		chat, ok := chats[partyID]
		if !ok || chat.HasParticipant(userID) {
			return nil
		}
		chat.Participants = append(chat.Participants, userID)
		chat.LastActivity = domain.Stamp(time.Now())
		chats[partyID] = chat
		return c.saveChats(txn, chats)
	})
}

// Messages returns the party's messages in storage insertion order.
func (c ChatRepository) Messages(partyID string) ([]domain.Message, error) {
	var out []domain.Message
	err := c.db.View(func(txn *badger.Txn) error {
		out = lo.Filter(c.loadMessages(txn), func(m domain.Message, _ int) bool {
			return m.PartyID == partyID
		})
		return nil
	})
	return out, err
}

// AddMessage normalizes the record, ensures the owning chat exists, bumps
// its activity timestamps and appends to the messages table, all in one
// transaction.
func (c ChatRepository) AddMessage(partyID string, message domain.Message) (domain.Message, error) {
	now := time.Now()
	message.PartyID = partyID
	if message.ID == 0 {
		message.ID = domain.TimeID(now)
	}
	if message.Timestamp == "" {
		message.Timestamp = domain.Stamp(now)
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		chats := c.loadChats(txn)
		chat, ok := chats[partyID]
		if !ok {
			chat = domain.Chat{
				PartyID:      partyID,
				Participants: []string{},
				Created:      message.Timestamp,
			}
		}
		chat.LastActivity = message.Timestamp
		chat.LastMessageTime = message.Timestamp
		chats[partyID] = chat
		if err := c.saveChats(txn, chats); err != nil {
			return err
		}

		messages := append(c.loadMessages(txn), message)
		return c.saveMessages(txn, messages)
	})
	return message, err
}

// MarkMessagesRead flags every message of the party not authored by the
// reader as read, whether or not it already was.
func (c ChatRepository) MarkMessagesRead(partyID, readerID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		messages := c.loadMessages(txn)
		for i, m := range messages {
			if m.PartyID == partyID && m.UserID != readerID {
				messages[i].Read = true
			}
		}
		return c.saveMessages(txn, messages)
	})
}

// UnreadCount counts the party's messages the given user has not read yet.
func (c ChatRepository) UnreadCount(partyID, userID string) (int, error) {
	var count int
	err := c.db.View(func(txn *badger.Txn) error {
		count = lo.CountBy(c.loadMessages(txn), func(m domain.Message) bool {
			return m.PartyID == partyID && m.UserID != userID && !m.Read
		})
		return nil
	})
	return count, err
}

// UserRecentChats lists the chats the user participates in, most recent
// activity first. The sort is stable, so equal timestamps keep table order.
func (c ChatRepository) UserRecentChats(userID string) ([]domain.Chat, error) {
	var out []domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		for _, chat := range c.loadChats(txn) {
			if chat.HasParticipant(userID) {
				out = append(out, chat)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Map iteration order is random; anchor it before the stable sort.
	sort.Slice(out, func(i, j int) bool { return out[i].PartyID < out[j].PartyID })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivityAt().After(out[j].LastActivityAt())
	})
	return out, nil
}

// AddNotification snapshots the message into the recipient's list, newest
// first, and truncates to the configured cap. Always succeeds for any
// recipient, known or not.
func (c ChatRepository) AddNotification(recipientID, partyID string, message domain.Message) (domain.Notification, error) {
	notification := domain.Notification{
		ID:        domain.TimeID(time.Now()),
		PartyID:   partyID,
		Message:   message.Text,
		Sender:    message.SenderName,
		Timestamp: message.Timestamp,
	}
	if notification.Timestamp == "" {
		notification.Timestamp = domain.Stamp(time.Now())
	}

	limit := DefaultNotificationLimit
	if c.notificationLimit != nil {
		limit = *c.notificationLimit
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		list := append([]domain.Notification{notification}, c.loadNotifications(txn, recipientID)...)
		if len(list) > limit {
			list = list[:limit]
		}
		return c.saveNotifications(txn, recipientID, list)
	})
	return notification, err
}

// Notifications returns the user's notification list, newest first.
func (c ChatRepository) Notifications(userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	err := c.db.View(func(txn *badger.Txn) error {
		out = c.loadNotifications(txn, userID)
		return nil
	})
	return out, err
}

func (c ChatRepository) UnreadNotificationCount(userID string) (int, error) {
	var count int
	err := c.db.View(func(txn *badger.Txn) error {
		count = lo.CountBy(c.loadNotifications(txn, userID), func(n domain.Notification) bool {
			return !n.Read
		})
		return nil
	})
	return count, err
}

// MarkAllNotificationsRead flags the user's notifications for one party.
func (c ChatRepository) MarkAllNotificationsRead(userID, partyID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		list := c.loadNotifications(txn, userID)
		for i, n := range list {
			if n.PartyID == partyID {
				list[i].Read = true
			}
		}
		return c.saveNotifications(txn, userID, list)
	})
}

// DeleteChat removes the chat record, its messages, and every user's
// notifications for the party. One transaction, so callers never observe a
// partially deleted chat.
func (c ChatRepository) DeleteChat(partyID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		chats := c.loadChats(txn)
		delete(chats, partyID)
		if err := c.saveChats(txn, chats); err != nil {
			return err
		}

		kept := lo.Filter(c.loadMessages(txn), func(m domain.Message, _ int) bool {
			return m.PartyID != partyID
		})
		if err := c.saveMessages(txn, kept); err != nil {
			return err
		}

		return c.eachNotificationUser(txn, func(userID string, list []domain.Notification) error {
			filtered := lo.Filter(list, func(n domain.Notification, _ int) bool {
				return n.PartyID != partyID
			})
			if len(filtered) == len(list) {
				return nil
			}
			return c.saveNotifications(txn, userID, filtered)
		})
	})
}

// CleanupOrphanedNotifications drops notifications whose party no longer has
// a chat record. A repair pass for the missing transactional guarantee
// between chat deletion and late notification writers; run it before list
// renders and after bulk deletes. Returns the number of removed entries.
func (c ChatRepository) CleanupOrphanedNotifications() (int, error) {
	var removed int
	err := c.db.Update(func(txn *badger.Txn) error {
		chats := c.loadChats(txn)
		return c.eachNotificationUser(txn, func(userID string, list []domain.Notification) error {
			filtered := lo.Filter(list, func(n domain.Notification, _ int) bool {
				_, ok := chats[n.PartyID]
				return ok
			})
			if len(filtered) == len(list) {
				return nil
			}
			removed += len(list) - len(filtered)
			return c.saveNotifications(txn, userID, filtered)
		})
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		c.log.Info("Removed orphaned notifications", "count", removed)
	}
	return removed, nil
}

// eachNotificationUser walks all per-user notification lists in key order.
func (c ChatRepository) eachNotificationUser(txn *badger.Txn, fn func(userID string, list []domain.Notification) error) error {
	prefix := []byte(notificationPrefix)
	var userIDs []string

	it := txn.NewIterator(badger.DefaultIteratorOptions)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := string(it.Item().KeyCopy(nil))
		userIDs = append(userIDs, strings.TrimPrefix(key, notificationPrefix))
	}
	it.Close()

	for _, userID := range userIDs {
		if err := fn(userID, c.loadNotifications(txn, userID)); err != nil {
			return err
		}
	}
	return nil
}

// loadChats reads the chats table. A missing or unparseable value degrades
// to an empty table; malformed storage must never surface as an error in
// page-controller code.
func (c ChatRepository) loadChats(txn *badger.Txn) map[string]domain.Chat {
	chats := map[string]domain.Chat{}
	c.loadTable(txn, keyChats, &chats)
	if chats == nil {
		// A stored JSON null unmarshals the map away.
		chats = map[string]domain.Chat{}
	}
	return chats
}

func (c ChatRepository) saveChats(txn *badger.Txn, chats map[string]domain.Chat) error {
	return c.saveTable(txn, keyChats, chats)
}

func (c ChatRepository) loadMessages(txn *badger.Txn) []domain.Message {
	var messages []domain.Message
	c.loadTable(txn, keyMessages, &messages)
	return messages
}

func (c ChatRepository) saveMessages(txn *badger.Txn, messages []domain.Message) error {
	return c.saveTable(txn, keyMessages, messages)
}

func (c ChatRepository) loadNotifications(txn *badger.Txn, userID string) []domain.Notification {
	var list []domain.Notification
	c.loadTable(txn, notificationPrefix+userID, &list)
	return list
}

func (c ChatRepository) saveNotifications(txn *badger.Txn, userID string, list []domain.Notification) error {
	return c.saveTable(txn, notificationPrefix+userID, list)
}

func (c ChatRepository) loadTable(txn *badger.Txn, key string, out any) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		c.log.Warn("Unreadable table value, treating as empty", "key", key, "error", err)
		return
	}
	if err := json.Unmarshal(value, out); err != nil {
		c.log.Warn("Corrupt table value, treating as empty", "key", key, "error", err)
	}
}

func (c ChatRepository) saveTable(txn *badger.Txn, key string, table any) error {
	value, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), value)
}
