package repositories

import (
	"log/slog"
	"testing"

	"partyverse/domain"

	"github.com/stretchr/testify/require"
)

func TestVenueRepository_Store_All_Delete(t *testing.T) {
	req := require.New(t)
	repo := NewVenueRepository(openTestDB(t), slog.Default())

	venue := domain.Venue{
		ID:           "1",
		Name:         "Sunset Beach House",
		Address:      "123 Beach Street, Miami",
		Capacity:     50,
		PricePerHour: 200,
		Amenities:    []string{"parking", "kitchen"},
		Owner:        "Beach Properties LLC",
	}
	req.NoError(repo.Store(venue))

	all, err := repo.All()
	req.NoError(err)
	req.Len(all, 1)
	req.Equal(venue, all[0])

	req.NoError(repo.Delete("1"))
	all, err = repo.All()
	req.NoError(err)
	req.Empty(all)
}

func TestVenueRepository_OwnedBy(t *testing.T) {
	req := require.New(t)
	repo := NewVenueRepository(openTestDB(t), slog.Default())

	req.NoError(repo.Store(domain.Venue{ID: "1", Name: "Mine", OwnerID: "user-1", Owner: "Sarah Owner"}))
	req.NoError(repo.Store(domain.Venue{ID: "2", Name: "Also mine", Owner: "Sarah Owner"}))
	req.NoError(repo.Store(domain.Venue{ID: "3", Name: "Other", OwnerID: "user-2", Owner: "Someone"}))

	owned, err := repo.OwnedBy("user-1", "Sarah Owner")
	req.NoError(err)
	req.Len(owned, 2)
}
