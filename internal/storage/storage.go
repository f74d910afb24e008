package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	gamePrefix = "game:"
	keyStats   = "stats"
)

// ErrNotFound reports a missing record.
var ErrNotFound = errors.New("record not found")

// GameRecord is a persisted game: the position it started from, the moves
// played, and how it ended. StartFEN plus Moves is enough to replay it.
type GameRecord struct {
	ID       string    `json:"id"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"` // long algebraic, in order
	PGN      string    `json:"pgn"`
	Result   string    `json:"result"` // "1-0", "0-1", "1/2-1/2", "*"
	SavedAt  time.Time `json:"saved_at"`
}

// Stats aggregates results across saved games.
type Stats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`
}

// Store wraps BadgerDB for persistent game storage.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at the given directory. An empty dir
// uses the platform data directory.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		dir, err = DatabaseDir()
		if err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // quiet

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame writes a game record, keyed by its ID, and folds its result
// into the aggregate stats.
func (s *Store) SaveGame(rec GameRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("game record needs an ID")
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}
	stats.GamesPlayed++
	switch rec.Result {
	case "1-0":
		stats.WhiteWins++
	case "0-1":
		stats.BlackWins++
	case "1/2-1/2":
		stats.Draws++
	}
	statsData, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(gamePrefix+rec.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	})
}

// LoadGame reads a game record by ID.
func (s *Store) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gamePrefix + id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("game %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, err
}

// ListGames returns the IDs of all saved games.
func (s *Store) ListGames() ([]string, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), gamePrefix))
		}
		return nil
	})

	return ids, err
}

// DeleteGame removes a saved game. Deleting a missing ID is not an error.
func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(gamePrefix + id))
	})
}

// LoadStats reads the aggregate stats, returning zeroes when none exist.
func (s *Store) LoadStats() (Stats, error) {
	var stats Stats

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
	})

	return stats, err
}
