package services

import (
	"log/slog"
	"strings"

	"partyverse/domain"
	"partyverse/errors"
	"partyverse/moderation"
	"partyverse/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"
)

type IChatService interface {
	PostMessage(partyID string, sender domain.User, text string) (domain.Message, error)
	OpenChat(partyID string, user domain.User) ([]domain.Message, error)
	RecentChats(userID string) ([]domain.Chat, error)
	UnreadBadge(partyID, userID string) (int, error)
	InboxCount(userID string) (int, error)
	Inbox(userID string) ([]domain.Notification, error)
}

// ChatService drives the chat page flows: posting (censor, persist, fan
// out), opening a chat (mark everything read), and the badge counts.
type ChatService struct {
	chats     repositories.IChatRepository
	users     repositories.IUserRepository
	moderator *moderation.Moderator
	log       *slog.Logger
}

func NewChatService(chats repositories.IChatRepository, users repositories.IUserRepository,
	moderator *moderation.Moderator, log *slog.Logger) *ChatService {
	return &ChatService{chats: chats, users: users, moderator: moderator, log: log}
}

// PostMessage censors and persists the message, joins the sender (and every
// elevated-role user) into the chat, and fans notifications out to the
// recipient set the policy selects.
func (s *ChatService) PostMessage(partyID string, sender domain.User, text string) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}

	lang := whatlanggo.Detect(text).Lang.Iso6391()
	if s.moderator != nil {
		var found []string
		text, found = s.moderator.Censor(text)
		if len(found) > 0 {
			s.log.Warn("Censored message content",
				"party", partyID, "author", sender.ID, "lang", lang, "words", len(found))
		}
	}

	if _, err := s.chats.GetOrCreateChat(partyID); err != nil {
		return domain.Message{}, err
	}
	if err := s.chats.AddParticipant(partyID, sender.ID); err != nil {
		return domain.Message{}, err
	}

	message, err := s.chats.AddMessage(partyID, domain.Message{
		UserID:     sender.ID,
		SenderName: sender.Name,
		Text:       text,
	})
	if err != nil {
		return domain.Message{}, err
	}

	if err := s.fanOut(partyID, sender, message); err != nil {
		return domain.Message{}, err
	}

	s.log.Debug("Message posted", "party", partyID, "author", sender.ID, "lang", lang)
	return message, nil
}

// fanOut notifies chat participants plus all host/admin users, excluding
// the author. Elevated users are also joined into the chat so they keep
// seeing it in their recent list, so the thread stays visible to them.
func (s *ChatService) fanOut(partyID string, sender domain.User, message domain.Message) error {
	users, err := s.users.All()
	if err != nil {
		return err
	}
	elevated := lo.FilterMap(users, func(u domain.User, _ int) (string, bool) {
		return u.ID, u.Type.Elevated() && u.ID != sender.ID
	})
	for _, userID := range elevated {
		if err := s.chats.AddParticipant(partyID, userID); err != nil {
			return err
		}
	}

	chat, found, err := s.chats.Chat(partyID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	policy := domain.ElevatedRolePolicy{AlwaysNotify: elevated}
	for _, recipientID := range policy.Recipients(chat, sender.ID) {
		if _, err := s.chats.AddNotification(recipientID, partyID, message); err != nil {
			return err
		}
	}
	return nil
}

// OpenChat joins the user into the party chat, returns its messages and
// marks both the messages and the party's notifications as read. The
// returned messages carry their pre-open read flags, matching what the chat
// page renders.
func (s *ChatService) OpenChat(partyID string, user domain.User) ([]domain.Message, error) {
	if _, err := s.chats.GetOrCreateChat(partyID); err != nil {
		return nil, err
	}
	if err := s.chats.AddParticipant(partyID, user.ID); err != nil {
		return nil, err
	}
	messages, err := s.chats.Messages(partyID)
	if err != nil {
		return nil, err
	}
	if err := s.chats.MarkMessagesRead(partyID, user.ID); err != nil {
		return nil, err
	}
	if err := s.chats.MarkAllNotificationsRead(user.ID, partyID); err != nil {
		return nil, err
	}
	return messages, nil
}

// RecentChats lists the user's chats, most recent first, after sweeping
// orphaned notifications so stale entries never reach the page.
func (s *ChatService) RecentChats(userID string) ([]domain.Chat, error) {
	if _, err := s.chats.CleanupOrphanedNotifications(); err != nil {
		return nil, err
	}
	return s.chats.UserRecentChats(userID)
}

func (s *ChatService) UnreadBadge(partyID, userID string) (int, error) {
	return s.chats.UnreadCount(partyID, userID)
}

func (s *ChatService) InboxCount(userID string) (int, error) {
	return s.chats.UnreadNotificationCount(userID)
}

func (s *ChatService) Inbox(userID string) ([]domain.Notification, error) {
	return s.chats.Notifications(userID)
}
