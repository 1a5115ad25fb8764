package engine

import (
	"context"
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/cmoore/talon/pkg/board"
	"github.com/dgraph-io/badger/v4"
)

// Book is the narrow contract an opening book is accessed through. Building
// and editing a book's contents is a separate concern; the engine only
// ever reads from one.
type Book interface {
	// Find returns a list -- potentially empty -- of moves given a FEN
	// position. Once an empty list is returned for a position, the book
	// should not be consulted again for the rest of the game.
	Find(ctx context.Context, fen string) ([]board.Move, error)
}

// NoBook never has a recommendation.
var NoBook Book = noBook{}

type noBook struct{}

func (noBook) Find(context.Context, string) ([]board.Move, error) { return nil, nil }

// BadgerBook is a Book backed by an embedded key-value store: the cropped
// FEN (board/turn/castling/en-passant fields only, dropping the move
// counters) maps to a whitespace-separated list of coordinate moves. Entries
// are populated externally by a separate book-building tool; BadgerBook
// only ever reads.
type BadgerBook struct {
	db *badger.DB
}

// OpenBadgerBook opens (creating if absent) a book store at dir.
func OpenBadgerBook(dir string) (*BadgerBook, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerBook{db: db}, nil
}

// Close releases the underlying store.
func (b *BadgerBook) Close() error {
	return b.db.Close()
}

func (b *BadgerBook) Find(ctx context.Context, fen string) ([]board.Move, error) {
	var moves []board.Move

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(fen))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			for _, str := range strings.Fields(string(val)) {
				m, err := board.ParseMove(str)
				if err != nil {
					continue // skip: malformed entry
				}
				moves = append(moves, m)
			}
			return nil
		})
	})
	return moves, err
}

// bookKey crops a FEN to its position-determining fields (board, turn,
// castling rights, en-passant target), dropping the halfmove clock and
// move number so transpositions share one book entry, then hashes the
// cropped string down to a fixed-width 8-byte key.
func bookKey(fen string) []byte {
	parts := strings.Fields(fen)
	cropped := fen
	if len(parts) >= 4 {
		cropped = strings.Join(parts[:4], " ")
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, xxhash.Sum64String(cropped))
	return key
}
