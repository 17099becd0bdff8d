// Package seed loads the demo accounts, parties and venues a fresh
// install starts with. Seeding is idempotent: records already present
// are left untouched.
package seed

import (
	stderrors "errors"
	"log/slog"

	"partyverse/auth"
	"partyverse/domain"
	"partyverse/errors"
	"partyverse/repositories"
)

type demoUser struct {
	name     string
	email    string
	password string
	userType domain.UserType
}

var demoUsers = []demoUser{
	{"Test Admin", "admin@partyverse.com", "admin123", domain.TypeAdmin},
	{"John Host", "host@partyverse.com", "host123", domain.TypeHost},
	{"Sarah Owner", "owner@partyverse.com", "owner123", domain.TypeOwner},
}

var demoParties = []domain.Party{
	{
		ID:          "1",
		Title:       "Funky Friday",
		Description: "Dance the night away with amazing music and great vibes!",
		Date:        "2024-07-15",
		Time:        "20:00",
		Location:    "Stoke-on-Trent, UK",
		Category:    "social",
		Price:       20,
		Capacity:    50,
		Host:        "DJ Mike",
		Attendees:   23,
	},
	{
		ID:          "2",
		Title:       "Wild Night",
		Description: "Epic party vibes with live DJ and dancing!",
		Date:        "2024-07-20",
		Time:        "21:00",
		Location:    "Hanley, UK",
		Category:    "social",
		Price:       25,
		Capacity:    80,
		Host:        "Party Crew",
		Attendees:   45,
	},
	{
		ID:          "3",
		Title:       "Parteyy!",
		Description: "Join the celebration with friends and music!",
		Date:        "2024-07-25",
		Time:        "19:30",
		Location:    "Newcastle-under-Lyme, UK",
		Category:    "social",
		Price:       15,
		Capacity:    40,
		Host:        "Sarah & Friends",
		Attendees:   28,
	},
	{
		ID:          "4",
		Title:       "Birthday Bash",
		Description: "Celebrating Sarah's 25th birthday with live music and dancing!",
		Date:        "2024-07-20",
		Time:        "19:30",
		Location:    "456 Party Lane, Orlando",
		Category:    "birthday",
		Price:       15,
		Capacity:    30,
		Host:        "Sarah Johnson",
		Attendees:   18,
	},
	{
		ID:          "5",
		Title:       "Corporate Networking Event",
		Description: "Professional networking event for tech industry professionals.",
		Date:        "2024-07-25",
		Time:        "17:00",
		Location:    "789 Business Ave, Tampa",
		Category:    "corporate",
		Price:       0,
		Capacity:    100,
		Host:        "TechCorp Events",
		Attendees:   67,
	},
	{
		ID:          "6",
		Title:       "Wedding Reception",
		Description: "Join us to celebrate the union of Mike and Lisa!",
		Date:        "2024-08-01",
		Time:        "16:00",
		Location:    "321 Garden Way, Jacksonville",
		Category:    "wedding",
		Price:       50,
		Capacity:    150,
		Host:        "Mike & Lisa",
		Attendees:   89,
	},
}

var demoVenues = []domain.Venue{
	{
		ID:           "1",
		Name:         "Sunset Beach House",
		Description:  "Beautiful beachfront property perfect for parties",
		Address:      "123 Beach Street, Miami",
		Capacity:     50,
		PricePerHour: 200,
		Amenities:    []string{"parking", "kitchen", "outdoor-space"},
		Owner:        "Beach Properties LLC",
	},
	{
		ID:           "2",
		Name:         "Downtown Event Center",
		Description:  "Modern event space in the heart of downtown",
		Address:      "456 Business Blvd, Orlando",
		Capacity:     100,
		PricePerHour: 300,
		Amenities:    []string{"parking", "kitchen", "sound-system", "dance-floor"},
		Owner:        "Event Spaces Inc",
	},
}

type Seeder struct {
	users   repositories.IUserRepository
	parties repositories.IPartyRepository
	venues  repositories.IVenueRepository
	log     *slog.Logger
}

func NewSeeder(users repositories.IUserRepository, parties repositories.IPartyRepository,
	venues repositories.IVenueRepository, log *slog.Logger) *Seeder {
	return &Seeder{users: users, parties: parties, venues: venues, log: log}
}

// Run inserts the demo data set. Passwords are hashed at seed time so the
// stored records never carry plain text.
func (s *Seeder) Run() error {
	for _, u := range demoUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		_, err = s.users.CreateUser(u.name, u.email, hash, u.userType)
		if stderrors.Is(err, errors.ErrUserAlreadyExists) {
			s.log.Debug("Demo user already present", "email", u.email)
			continue
		}
		if err != nil {
			return err
		}
		s.log.Info("Seeded demo user", "email", u.email, "type", u.userType)
	}
	for _, party := range demoParties {
		if _, found, err := s.parties.PartyByID(party.ID); err != nil {
			return err
		} else if found {
			continue
		}
		if err := s.parties.Store(party); err != nil {
			return err
		}
		s.log.Info("Seeded demo party", "id", party.ID, "title", party.Title)
	}
	existing, err := s.venues.All()
	if err != nil {
		return err
	}
	present := map[string]bool{}
	for _, v := range existing {
		present[v.ID] = true
	}
	for _, venue := range demoVenues {
		if present[venue.ID] {
			continue
		}
		if err := s.venues.Store(venue); err != nil {
			return err
		}
		s.log.Info("Seeded demo venue", "id", venue.ID, "name", venue.Name)
	}
	return nil
}
