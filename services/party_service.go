package services

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"partyverse/domain"
	"partyverse/errors"
	"partyverse/repositories"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DefaultSearchLimit bounds full-text party search results.
const DefaultSearchLimit = 25

type CreatePartyCommand struct {
	Title       string  `validate:"required,min=2,max=120"`
	Description string  `validate:"max=2000"`
	Date        string  `validate:"required,datetime=2006-01-02"`
	Time        string  `validate:"required"`
	Location    string  `validate:"required"`
	Category    string  `validate:"required"`
	Price       float64 `validate:"gte=0"`
	Capacity    int     `validate:"required,gt=0"`
}

type IPartyService interface {
	Create(cmd CreatePartyCommand, host domain.User) (domain.Party, error)
	Delete(partyID string) error
	Join(partyID string) (domain.Party, error)
	PartyByID(partyID string) (domain.Party, bool, error)
	All() ([]domain.Party, error)
	HostedBy(host domain.User) ([]domain.Party, error)
	Recommendations(limit int) ([]domain.Party, error)
	Search(ctx context.Context, query string) ([]domain.Party, error)
}

// PartyService owns the party directory and keeps the chat store consistent
// with it: deleting a party cascades into its chat, messages and
// notifications.
type PartyService struct {
	parties repositories.IPartyRepository
	chats   repositories.IChatRepository
	log     *slog.Logger
}

func NewPartyService(parties repositories.IPartyRepository, chats repositories.IChatRepository,
	log *slog.Logger) *PartyService {
	return &PartyService{parties: parties, chats: chats, log: log}
}

func (s *PartyService) Create(cmd CreatePartyCommand, host domain.User) (domain.Party, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.Party{}, err
	}
	party := domain.Party{
		ID:          strconv.FormatInt(domain.TimeID(time.Now()), 10),
		Title:       cmd.Title,
		Description: cmd.Description,
		Date:        cmd.Date,
		Time:        cmd.Time,
		Location:    cmd.Location,
		Category:    cmd.Category,
		Price:       cmd.Price,
		Capacity:    cmd.Capacity,
		Host:        host.Name,
		HostID:      host.ID,
		Attendees:   0,
	}
	if err := s.parties.Store(party); err != nil {
		return domain.Party{}, err
	}
	s.log.Info("Party created", "id", party.ID, "title", party.Title, "host", host.ID)
	return party, nil
}

// Delete removes the party and its whole chat footprint, then sweeps
// notification orphans left by any writer that raced the cascade.
func (s *PartyService) Delete(partyID string) error {
	if err := s.parties.Delete(partyID); err != nil {
		return err
	}
	if err := s.chats.DeleteChat(partyID); err != nil {
		return err
	}
	_, err := s.chats.CleanupOrphanedNotifications()
	return err
}

// Join bumps the attendee count, refusing once capacity is reached.
func (s *PartyService) Join(partyID string) (domain.Party, error) {
	party, found, err := s.parties.PartyByID(partyID)
	if err != nil {
		return domain.Party{}, err
	}
	if !found {
		return domain.Party{}, errors.ErrPartyNotFound
	}
	if party.Full() {
		return domain.Party{}, errors.ErrPartyFull
	}
	party.Attendees++
	if err := s.parties.Store(party); err != nil {
		return domain.Party{}, err
	}
	return party, nil
}

func (s *PartyService) PartyByID(partyID string) (domain.Party, bool, error) {
	return s.parties.PartyByID(partyID)
}

func (s *PartyService) All() ([]domain.Party, error) {
	return s.parties.All()
}

func (s *PartyService) HostedBy(host domain.User) ([]domain.Party, error) {
	return s.parties.HostedBy(host.ID, host.Name)
}

// Recommendations returns the most recently dated parties, the ordering the
// web client landing page used.
func (s *PartyService) Recommendations(limit int) ([]domain.Party, error) {
	parties, err := s.parties.All()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(parties, func(i, j int) bool {
		return parties[i].Date > parties[j].Date
	})
	if limit > 0 && len(parties) > limit {
		parties = parties[:limit]
	}
	return parties, nil
}

func (s *PartyService) Search(ctx context.Context, query string) ([]domain.Party, error) {
	return s.parties.Search(ctx, query, DefaultSearchLimit)
}
