package e2e

import (
	"testing"
	"time"

	"partyverse/domain"
	"partyverse/services"

	"github.com/stretchr/testify/suite"
)

type testPartyChatSuite struct {
	BaseSuite
}

func TestPartyChatSuite(t *testing.T) {
	suite.Run(t, &testPartyChatSuite{})
}

// TestFullPartyChatFlow walks the happy path end to end: seed demo data,
// sign up, create a party, chat in it, watch the notification fan-out and
// the badges, then delete the party and verify the cascade.
func (s *testPartyChatSuite) TestFullPartyChatFlow() {
	var (
		alice domain.User
		party domain.Party
	)

	s.Run("Step 0: Seed demo data", func() {
		s.Step("Seeding")
		s.Require().NoError(s.Seeder.Run())
		// Seeding twice must not duplicate anything.
		s.Require().NoError(s.Seeder.Run())

		parties, err := s.Party.All()
		s.Require().NoError(err)
		s.Require().Len(parties, 6)

		venues, err := s.Venue.All()
		s.Require().NoError(err)
		s.Require().Len(venues, 2)
	})

	s.Run("Step 1: Register and log in", func() {
		s.Step("Registration")
		var err error
		alice, err = s.Auth.Register("Alice", "alice@partyverse.com", "Str0ng-Password!", domain.TypeParticipant)
		s.Require().NoError(err)

		_, err = s.Auth.Login("alice@partyverse.com", "Str0ng-Password!")
		s.Require().NoError(err)

		current, err := s.Auth.CurrentUser()
		s.Require().NoError(err)
		s.Require().Equal(alice.ID, current.ID)
	})

	s.Run("Step 2: Demo host logs in and creates a party", func() {
		s.Step("Party creation")
		host, err := s.Auth.Login("host@partyverse.com", "host123")
		s.Require().NoError(err)
		s.Require().Equal(domain.TypeHost, host.Type)

		party, err = s.Party.Create(services.CreatePartyCommand{
			Title:       "Rooftop Rave",
			Description: "Synths until sunrise",
			Date:        "2024-09-01",
			Time:        "22:00",
			Location:    "Hanley, UK",
			Category:    "social",
			Price:       10,
			Capacity:    40,
		}, host)
		s.Require().NoError(err)
		s.Require().NotEmpty(party.ID)
	})

	s.Run("Step 3: Alice joins and messages the party chat", func() {
		s.Step("Chat flow")
		_, err := s.Party.Join(party.ID)
		s.Require().NoError(err)

		message, err := s.Chat.PostMessage(party.ID, alice, "Is this a scam or the real deal?")
		s.Require().NoError(err)
		s.Require().Equal("Is this a **** or the real deal?", message.Text)
	})

	s.Run("Step 4: Elevated users were notified, Alice was not", func() {
		s.Step("Fan-out")
		host, err := s.Users.GetUserByEmail("host@partyverse.com")
		s.Require().NoError(err)
		admin, err := s.Users.GetUserByEmail("admin@partyverse.com")
		s.Require().NoError(err)

		for _, u := range []domain.User{host, admin} {
			count, err := s.Chat.InboxCount(u.ID)
			s.Require().NoError(err)
			s.Require().Equal(1, count, "expected one unread notification for %s", u.Name)
		}

		count, err := s.Chat.InboxCount(alice.ID)
		s.Require().NoError(err)
		s.Require().Zero(count)
	})

	s.Run("Step 5: Host opens the chat, badges clear", func() {
		s.Step("Read receipts")
		host, err := s.Users.GetUserByEmail("host@partyverse.com")
		s.Require().NoError(err)

		messages, err := s.Chat.OpenChat(party.ID, host)
		s.Require().NoError(err)
		s.Require().Len(messages, 1)

		unread, err := s.Chat.UnreadBadge(party.ID, host.ID)
		s.Require().NoError(err)
		s.Require().Zero(unread)

		count, err := s.Chat.InboxCount(host.ID)
		s.Require().NoError(err)
		s.Require().Zero(count)
	})

	s.Run("Step 6: Chat list projection renders the conversation", func() {
		s.Step("Chat list")
		recent, err := s.Chat.RecentChats(alice.ID)
		s.Require().NoError(err)
		s.Require().Len(recent, 1)

		entries, err := s.ChatList.Build(alice.ID, recent, time.Now())
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Require().Equal("Rooftop Rave", entries[0].PartyTitle)
		s.Require().Contains(entries[0].Preview, "Alice:")
	})

	s.Run("Step 7: Deleting the party cascades through the chat store", func() {
		s.Step("Delete cascade")
		s.Require().NoError(s.Party.Delete(party.ID))

		_, found, err := s.Party.PartyByID(party.ID)
		s.Require().NoError(err)
		s.Require().False(found)

		recent, err := s.Chat.RecentChats(alice.ID)
		s.Require().NoError(err)
		s.Require().Empty(recent)

		admin, err := s.Users.GetUserByEmail("admin@partyverse.com")
		s.Require().NoError(err)
		count, err := s.Chat.InboxCount(admin.ID)
		s.Require().NoError(err)
		s.Require().Zero(count)
	})
}
