package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"partyverse/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "/tmp/partyverse/badger", "Path to badger DB")
	table := flag.String("table", "chats", "Table to dump: chats, messages or notifications")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	switch *table {
	case "chats":
		err = dumpChats(db)
	case "messages":
		err = dumpMessages(db)
	case "notifications":
		err = dumpNotifications(db)
	default:
		err = fmt.Errorf("unknown table %q", *table)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newTable(headers []string) *tablewriter.Table {
	t := tablewriter.NewWriter(os.Stdout)
	t.SetHeader(headers)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(true)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetCenterSeparator("")
	t.SetColumnSeparator("")
	t.SetRowSeparator("")
	t.SetHeaderLine(false)
	t.SetBorder(false)
	t.SetTablePadding("\t")
	return t
}

func dumpChats(db *badger.DB) error {
	var chats map[string]domain.Chat
	if err := readJSON(db, "chats", &chats); err != nil {
		return err
	}
	t := newTable([]string{"Party ID", "Participants", "Created", "Last Activity", "Last Message"})
	for id, chat := range chats {
		t.Append([]string{
			id,
			strings.Join(chat.Participants, ", "),
			chat.Created,
			chat.LastActivity,
			chat.LastMessageTime,
		})
	}
	t.Render()
	return nil
}

func dumpMessages(db *badger.DB) error {
	var messages []domain.Message
	if err := readJSON(db, "messages", &messages); err != nil {
		return err
	}
	t := newTable([]string{"ID", "Party ID", "Sender", "Text", "Timestamp", "Read"})
	for _, m := range messages {
		t.Append([]string{
			strconv.FormatInt(m.ID, 10),
			m.PartyID,
			m.SenderName,
			m.Text,
			m.Timestamp,
			strconv.FormatBool(m.Read),
		})
	}
	t.Render()
	return nil
}

func dumpNotifications(db *badger.DB) error {
	t := newTable([]string{"User ID", "ID", "Party ID", "Sender", "Message", "Timestamp", "Read"})
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("notifications:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			userID := strings.TrimPrefix(string(item.Key()), "notifications:")
			err := item.Value(func(v []byte) error {
				var list []domain.Notification
				if err := json.Unmarshal(v, &list); err != nil {
					// Log and keep scanning instead of aborting the dump
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}
				for _, n := range list {
					t.Append([]string{
						userID,
						strconv.FormatInt(n.ID, 10),
						n.PartyID,
						n.Sender,
						n.Message,
						n.Timestamp,
						strconv.FormatBool(n.Read),
					})
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	t.Render()
	return nil
}

func readJSON(db *badger.DB, key string, out any) error {
	return db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, out)
		})
	})
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
