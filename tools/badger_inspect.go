package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"puppet-lab/codec"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	// "msgid:" index entries hold keys, not payloads, and are skipped
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, contact:, room:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Timestamp", "Entity ID", "Conversation", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if strings.HasPrefix(key, "msgid:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				var s structpb.Struct
				if err := proto.Unmarshal(v, &s); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
					return nil
				}
				table.Append(describe(key, &s))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	table.Render()
}

func describe(key string, s *structpb.Struct) []string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		m, err := codec.MessageFromStruct(s)
		if err != nil {
			return []string{key, "MESSAGE", "-", "-", "-", err.Error()}
		}
		date := "-"
		if !m.Timestamp.IsZero() {
			date = m.Timestamp.Format(time.RFC3339)
		}
		return []string{key, m.Type.String(), date, m.ID, m.ThreadID(), truncate(m.Text, 60)}
	case strings.HasPrefix(key, "contact:"):
		c, err := codec.ContactFromStruct(s)
		if err != nil {
			return []string{key, "CONTACT", "-", "-", "-", err.Error()}
		}
		return []string{key, "CONTACT", "-", c.ID, "-", c.Name}
	case strings.HasPrefix(key, "room:"):
		r, err := codec.RoomFromStruct(s)
		if err != nil {
			return []string{key, "ROOM", "-", "-", "-", err.Error()}
		}
		return []string{key, "ROOM", "-", r.ID, "-", fmt.Sprintf("%s (%d members)", r.Topic, len(r.MemberIDs))}
	default:
		return []string{key, "UNKNOWN", "-", "-", "-", "-"}
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.ERROR)
	return badger.Open(opts)
}
