package inmemdb

import (
	"context"
	"sync"

	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/core/user"
)

type (
	DB struct {
		listing *listingTable
		user    *userTable
	}

	listingTable struct {
		sync.RWMutex
		table map[string]listing.Listing
	}

	userTable struct {
		sync.RWMutex
		table map[string]user.User // by email
	}
)

func Open() *DB {
	return &DB{
		listing: &listingTable{table: make(map[string]listing.Listing)},
		user:    &userTable{table: make(map[string]user.User)},
	}
}

func (db *DB) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (db *DB) Close(ctx context.Context) error {
	return nil
}

// Reset empties every table.
func (db *DB) Reset() {
	db.listing.Lock()
	db.listing.table = make(map[string]listing.Listing)
	db.listing.Unlock()

	db.user.Lock()
	db.user.table = make(map[string]user.User)
	db.user.Unlock()
}
