package e2e

import (
	"fmt"
	"log/slog"
	"time"

	"partyverse/auth"
	"partyverse/moderation"
	"partyverse/projection"
	"partyverse/repositories"
	"partyverse/seed"
	"partyverse/services"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// BaseSuite boots the whole application against throwaway storage. Every
// suite gets a fresh Badger store and Bluge index, so scenarios can seed,
// mutate and delete without ordering constraints between suites.
type BaseSuite struct {
	suite.Suite
	Config Config

	Auth    *services.AuthService
	Chat    *services.ChatService
	Party   *services.PartyService
	Venue   *services.VenueService
	Profile *services.ProfileService
	Seeder  *seed.Seeder

	Chats    *repositories.ChatRepository
	Users    *repositories.UserRepository
	ChatList projection.ChatList
}

func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	log := slog.Default()
	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(s.T().TempDir()))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = blugeWriter.Close() })

	moderator, err := moderation.NewModerator([]string{"scam"}, '*')
	s.Require().NoError(err)

	users := repositories.NewUserRepository(db, log)
	sessions := repositories.NewSessionRepository(db, log)
	parties := repositories.NewPartyRepository(db, blugeWriter, log)
	venues := repositories.NewVenueRepository(db, log)
	chats := repositories.NewChatRepository(db, log, &s.Config.NotificationLimit)
	signer := auth.NewTokenSigner(s.Config.SessionSecret, time.Hour)

	s.Auth = services.NewAuthService(users, sessions, signer)
	s.Chat = services.NewChatService(chats, users, &moderator, log)
	s.Party = services.NewPartyService(parties, chats, log)
	s.Venue = services.NewVenueService(venues, log)
	s.Profile = services.NewProfileService(users, sessions)
	s.Seeder = seed.NewSeeder(users, parties, venues, log)
	s.Chats = chats
	s.Users = users
	s.ChatList = projection.ChatList{Party: parties.PartyByID, Messages: chats.Messages, Unread: chats.UnreadCount}
}

// Step prints a colorized header so scenario phases stand out in logs.
func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}
