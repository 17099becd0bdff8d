//go:generate go run go.uber.org/mock/mockgen -source=party.go -destination=../mocks/mock_party_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"partyverse/domain"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const partyPrefix = "party:"

type IPartyRepository interface {
	Store(party domain.Party) error
	PartyByID(id string) (domain.Party, bool, error)
	All() ([]domain.Party, error)
	HostedBy(userID, hostName string) ([]domain.Party, error)
	Delete(id string) error
	Search(ctx context.Context, query string, limit int) ([]domain.Party, error)
}

// PartyRepository keeps one Badger record per party under "party:{id}" and
// mirrors title/description/location into a Bluge index for the search box.
type PartyRepository struct {
	db     *badger.DB
	writer *bluge.Writer
	log    *slog.Logger
}

func NewPartyRepository(db *badger.DB, writer *bluge.Writer, log *slog.Logger) *PartyRepository {
	return &PartyRepository{db: db, writer: writer, log: log}
}

// Store persists the party and updates its search document. Upserts: storing
// an existing id overwrites both the record and the index entry.
func (p PartyRepository) Store(party domain.Party) error {
	data, err := json.Marshal(party)
	if err != nil {
		return fmt.Errorf("marshal party: %w", err)
	}
	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(partyPrefix+party.ID), data)
	})
	if err != nil {
		return err
	}

	doc := bluge.NewDocument(party.ID).
		AddField(bluge.NewTextField("title", party.Title)).
		AddField(bluge.NewTextField("description", party.Description)).
		AddField(bluge.NewTextField("location", party.Location))
	return p.writer.Update(doc.ID(), doc)
}

func (p PartyRepository) PartyByID(id string) (domain.Party, bool, error) {
	var party domain.Party
	var found bool
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(partyPrefix + id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(value, &party); err != nil {
			p.log.Warn("Corrupt party record, skipping", "id", id, "error", err)
			return nil
		}
		found = true
		return nil
	})
	return party, found, err
}

// All returns every stored party in key order. Corrupt records are logged
// and skipped rather than failing the whole listing.
func (p PartyRepository) All() ([]domain.Party, error) {
	var parties []domain.Party
	err := p.db.View(func(txn *badger.Txn) error {
		prefix := []byte(partyPrefix)
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(value []byte) error {
				var party domain.Party
				if err := json.Unmarshal(value, &party); err != nil {
					p.log.Warn("Corrupt party record, skipping", "key", string(item.Key()), "error", err)
					return nil
				}
				parties = append(parties, party)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return parties, err
}

// HostedBy filters to parties created by the user, matching by stored host
// id or by display name the way the web client host page does.
func (p PartyRepository) HostedBy(userID, hostName string) ([]domain.Party, error) {
	parties, err := p.All()
	if err != nil {
		return nil, err
	}
	return lo.Filter(parties, func(party domain.Party, _ int) bool {
		return party.HostID == userID || party.Host == hostName
	}), nil
}

func (p PartyRepository) Delete(id string) error {
	err := p.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(partyPrefix + id))
	})
	if err != nil {
		return err
	}
	return p.writer.Delete(bluge.Identifier(id))
}

// Search runs a match query over title, description and location and
// resolves the hits back to Badger records. Hits whose record vanished
// between index and store are dropped silently.
func (p PartyRepository) Search(ctx context.Context, query string, limit int) ([]domain.Party, error) {
	reader, err := p.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer reader.Close()

	q := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(query).SetField("title")).
		AddShould(bluge.NewMatchQuery(query).SetField("description")).
		AddShould(bluge.NewMatchQuery(query).SetField("location"))
	request := bluge.NewTopNSearch(limit, q)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search parties: %w", err)
	}

	var parties []domain.Party
	match, err := iterator.Next()
	for err == nil && match != nil {
		var id string
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				id = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		if id != "" {
			party, found, getErr := p.PartyByID(id)
			if getErr != nil {
				return nil, getErr
			}
			if found {
				parties = append(parties, party)
			}
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return parties, nil
}
