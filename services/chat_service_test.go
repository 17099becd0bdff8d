package services

import (
	"log/slog"
	"testing"

	"partyverse/domain"
	"partyverse/errors"
	"partyverse/moderation"
	"partyverse/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type chatFixture struct {
	service *ChatService
	chats   *repositories.ChatRepository
	users   *repositories.UserRepository
}

func newChatFixture(t *testing.T) chatFixture {
	t.Helper()
	db := openTestDB(t)
	log := slog.Default()
	chats := repositories.NewChatRepository(db, log, nil)
	users := repositories.NewUserRepository(db, log)
	moderator, err := moderation.NewModerator([]string{"scam"}, '*')
	require.NoError(t, err)
	return chatFixture{
		service: NewChatService(chats, users, &moderator, log),
		chats:   chats,
		users:   users,
	}
}

func (f chatFixture) createUser(t *testing.T, name, email string, userType domain.UserType) domain.User {
	t.Helper()
	id, err := f.users.CreateUser(name, email, "hashed", userType)
	require.NoError(t, err)
	user, err := f.users.GetUserByID(id)
	require.NoError(t, err)
	return user
}

func TestChatService_PostMessage_FansOutToParticipantsAndElevated(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)

	sender := f.createUser(t, "Alice", "alice@partyverse.com", domain.TypeParticipant)
	member := f.createUser(t, "Bob", "bob@partyverse.com", domain.TypeParticipant)
	host := f.createUser(t, "John Host", "host@partyverse.com", domain.TypeHost)
	admin := f.createUser(t, "Test Admin", "admin@partyverse.com", domain.TypeAdmin)
	owner := f.createUser(t, "Sarah Owner", "owner@partyverse.com", domain.TypeOwner)

	_, err := f.chats.GetOrCreateChat("1")
	req.NoError(err)
	req.NoError(f.chats.AddParticipant("1", member.ID))

	message, err := f.service.PostMessage("1", sender, "See you tonight!")
	req.NoError(err)
	req.Equal("See you tonight!", message.Text)
	req.Equal(sender.ID, message.UserID)
	req.Equal("Alice", message.SenderName)

	// Elevated users were joined into the chat alongside sender and member.
	chat, found, err := f.chats.Chat("1")
	req.NoError(err)
	req.True(found)
	req.ElementsMatch([]string{member.ID, sender.ID, host.ID, admin.ID}, chat.Participants)

	for _, recipient := range []domain.User{member, host, admin} {
		notifications, err := f.chats.Notifications(recipient.ID)
		req.NoError(err)
		req.Len(notifications, 1, "expected a notification for %s", recipient.Name)
		req.Equal("1", notifications[0].PartyID)
		req.Equal("Alice", notifications[0].Sender)
		req.Equal("See you tonight!", notifications[0].Message)
		req.False(notifications[0].Read)
	}

	for _, silent := range []domain.User{sender, owner} {
		notifications, err := f.chats.Notifications(silent.ID)
		req.NoError(err)
		req.Empty(notifications, "expected no notification for %s", silent.Name)
	}
}

func TestChatService_PostMessage_CensorsBannedWords(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	sender := f.createUser(t, "Alice", "alice@partyverse.com", domain.TypeParticipant)

	message, err := f.service.PostMessage("1", sender, "this is a scam")
	req.NoError(err)
	req.Equal("this is a ****", message.Text)
}

func TestChatService_PostMessage_RejectsBlankText(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	sender := f.createUser(t, "Alice", "alice@partyverse.com", domain.TypeParticipant)

	_, err := f.service.PostMessage("1", sender, "   ")
	req.ErrorIs(err, errors.ErrEmptyMessage)
}

func TestChatService_OpenChat_MarksEverythingRead(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)

	sender := f.createUser(t, "Alice", "alice@partyverse.com", domain.TypeParticipant)
	reader := f.createUser(t, "Bob", "bob@partyverse.com", domain.TypeParticipant)

	_, err := f.chats.GetOrCreateChat("1")
	req.NoError(err)
	req.NoError(f.chats.AddParticipant("1", reader.ID))

	_, err = f.service.PostMessage("1", sender, "hello")
	req.NoError(err)

	unread, err := f.service.UnreadBadge("1", reader.ID)
	req.NoError(err)
	req.Equal(1, unread)
	count, err := f.service.InboxCount(reader.ID)
	req.NoError(err)
	req.Equal(1, count)

	messages, err := f.service.OpenChat("1", reader)
	req.NoError(err)
	req.Len(messages, 1)
	// Returned snapshot predates the mark-read pass.
	req.False(messages[0].Read)

	unread, err = f.service.UnreadBadge("1", reader.ID)
	req.NoError(err)
	req.Zero(unread)
	count, err = f.service.InboxCount(reader.ID)
	req.NoError(err)
	req.Zero(count)
}

func TestChatService_RecentChats_SweepsOrphans(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)

	sender := f.createUser(t, "Alice", "alice@partyverse.com", domain.TypeParticipant)
	reader := f.createUser(t, "Bob", "bob@partyverse.com", domain.TypeParticipant)

	_, err := f.chats.GetOrCreateChat("1")
	req.NoError(err)
	req.NoError(f.chats.AddParticipant("1", reader.ID))
	_, err = f.service.PostMessage("1", sender, "hello")
	req.NoError(err)

	// Drop the chat behind the service's back, leaving the notification behind.
	req.NoError(f.chats.DeleteChat("1"))
	_, err = f.chats.AddNotification(reader.ID, "1", domain.Message{
		ID: 1, PartyID: "1", SenderName: "Alice", Text: "ghost",
	})
	req.NoError(err)

	recent, err := f.service.RecentChats(reader.ID)
	req.NoError(err)
	req.Empty(recent)

	notifications, err := f.service.Inbox(reader.ID)
	req.NoError(err)
	req.Empty(lo.Filter(notifications, func(n domain.Notification, _ int) bool {
		return n.PartyID == "1"
	}))
}
