package services

import (
	"log/slog"
	"strconv"
	"time"

	"partyverse/domain"
	"partyverse/errors"
	"partyverse/repositories"
)

type CreateVenueCommand struct {
	Name         string   `validate:"required,min=2,max=120"`
	Description  string   `validate:"max=2000"`
	Address      string   `validate:"required"`
	Capacity     int      `validate:"required,gt=0"`
	PricePerHour float64  `validate:"gte=0"`
	Amenities    []string `validate:"dive,required"`
}

type IVenueService interface {
	Create(cmd CreateVenueCommand, owner domain.User) (domain.Venue, error)
	Delete(venueID string) error
	All() ([]domain.Venue, error)
	OwnedBy(owner domain.User) ([]domain.Venue, error)
}

type VenueService struct {
	venues repositories.IVenueRepository
	log    *slog.Logger
}

func NewVenueService(venues repositories.IVenueRepository, log *slog.Logger) *VenueService {
	return &VenueService{venues: venues, log: log}
}

func (s *VenueService) Create(cmd CreateVenueCommand, owner domain.User) (domain.Venue, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.Venue{}, err
	}
	venue := domain.Venue{
		ID:           strconv.FormatInt(domain.TimeID(time.Now()), 10),
		Name:         cmd.Name,
		Description:  cmd.Description,
		Address:      cmd.Address,
		Capacity:     cmd.Capacity,
		PricePerHour: cmd.PricePerHour,
		Amenities:    cmd.Amenities,
		Owner:        owner.Name,
		OwnerID:      owner.ID,
	}
	if err := s.venues.Store(venue); err != nil {
		return domain.Venue{}, err
	}
	s.log.Info("Venue listed", "id", venue.ID, "name", venue.Name, "owner", owner.ID)
	return venue, nil
}

func (s *VenueService) Delete(venueID string) error {
	venues, err := s.venues.All()
	if err != nil {
		return err
	}
	for _, v := range venues {
		if v.ID == venueID {
			return s.venues.Delete(venueID)
		}
	}
	return errors.ErrVenueNotFound
}

func (s *VenueService) All() ([]domain.Venue, error) {
	return s.venues.All()
}

func (s *VenueService) OwnedBy(owner domain.User) ([]domain.Venue, error) {
	return s.venues.OwnedBy(owner.ID, owner.Name)
}
