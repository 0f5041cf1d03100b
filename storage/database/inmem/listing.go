package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core/listing"
)

type listingRepository struct {
	db *DB
}

var _ listing.Repository = (*listingRepository)(nil)

func NewListingRepository(db *DB) listing.Repository {
	return &listingRepository{db: db}
}

func (repo *listingRepository) Ping(ctx context.Context) error {
	return repo.db.Ping(ctx)
}

func (repo *listingRepository) HasAny(ctx context.Context) (bool, error) {
	repo.db.listing.RLock()
	defer repo.db.listing.RUnlock()
	return len(repo.db.listing.table) > 0, nil
}

func (repo *listingRepository) InsertMany(ctx context.Context, ls []listing.Listing) (int, error) {
	repo.db.listing.Lock()
	defer repo.db.listing.Unlock()

	for i, l := range ls {
		if _, ok := repo.db.listing.table[l.ID]; ok {
			return i, errors.Wrapf(listing.ErrDuplicate, "inserting %q", l.ID)
		}
		repo.db.listing.table[l.ID] = l
	}
	return len(ls), nil
}

func (repo *listingRepository) FindAll(ctx context.Context) ([]listing.Listing, error) {
	repo.db.listing.RLock()
	defer repo.db.listing.RUnlock()

	ls := make([]listing.Listing, 0, len(repo.db.listing.table))
	for _, l := range repo.db.listing.table {
		ls = append(ls, l)
	}
	sort.Slice(ls, func(i, j int) bool {
		if !ls[i].UpdatedAt.Equal(ls[j].UpdatedAt) {
			return ls[i].UpdatedAt.After(ls[j].UpdatedAt)
		}
		return ls[i].ID < ls[j].ID
	})
	return ls, nil
}

func (repo *listingRepository) FindByID(ctx context.Context, id string) (listing.Listing, error) {
	repo.db.listing.RLock()
	defer repo.db.listing.RUnlock()

	if l, ok := repo.db.listing.table[id]; ok {
		return l, nil
	}
	return listing.Listing{}, listing.ErrNotFound
}

func (repo *listingRepository) Upsert(ctx context.Context, l listing.Listing, now time.Time) (listing.Listing, error) {
	repo.db.listing.Lock()
	defer repo.db.listing.Unlock()

	l.CreatedAt = now
	if old, ok := repo.db.listing.table[l.ID]; ok {
		l.CreatedAt = old.CreatedAt
	}
	l.UpdatedAt = now
	repo.db.listing.table[l.ID] = l
	return l, nil
}

func (repo *listingRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	repo.db.listing.Lock()
	defer repo.db.listing.Unlock()

	if _, ok := repo.db.listing.table[id]; !ok {
		return false, nil
	}
	delete(repo.db.listing.table, id)
	return true, nil
}

func (repo *listingRepository) DeleteAll(ctx context.Context) error {
	repo.db.listing.Lock()
	defer repo.db.listing.Unlock()

	repo.db.listing.table = make(map[string]listing.Listing)
	return nil
}
