//go:generate go run go.uber.org/mock/mockgen -source=venue.go -destination=../mocks/mock_venue_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"partyverse/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const venuePrefix = "venue:"

type IVenueRepository interface {
	Store(venue domain.Venue) error
	All() ([]domain.Venue, error)
	OwnedBy(userID, ownerName string) ([]domain.Venue, error)
	Delete(id string) error
}

// VenueRepository keeps one Badger record per venue under "venue:{id}".
type VenueRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewVenueRepository(db *badger.DB, log *slog.Logger) *VenueRepository {
	return &VenueRepository{db: db, log: log}
}

func (v VenueRepository) Store(venue domain.Venue) error {
	data, err := json.Marshal(venue)
	if err != nil {
		return fmt.Errorf("marshal venue: %w", err)
	}
	return v.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(venuePrefix+venue.ID), data)
	})
}

func (v VenueRepository) All() ([]domain.Venue, error) {
	var venues []domain.Venue
	err := v.db.View(func(txn *badger.Txn) error {
		prefix := []byte(venuePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(value []byte) error {
				var venue domain.Venue
				if err := json.Unmarshal(value, &venue); err != nil {
					v.log.Warn("Corrupt venue record, skipping", "key", string(item.Key()), "error", err)
					return nil
				}
				venues = append(venues, venue)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return venues, err
}

func (v VenueRepository) OwnedBy(userID, ownerName string) ([]domain.Venue, error) {
	venues, err := v.All()
	if err != nil {
		return nil, err
	}
	return lo.Filter(venues, func(venue domain.Venue, _ int) bool {
		return venue.OwnerID == userID || venue.Owner == ownerName
	}), nil
}

func (v VenueRepository) Delete(id string) error {
	return v.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(venuePrefix + id))
	})
}
