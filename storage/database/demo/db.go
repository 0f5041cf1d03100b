// Package demodb serves the default listings when no database is configured.
// Reads succeed; every write fails with core.ErrStoreNotConfigured.
package demodb

import (
	"context"
	"time"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/core/user"
)

type listingRepository struct {
	listings []listing.Listing
}

var _ listing.Repository = (*listingRepository)(nil)

// NewListingRepository returns a read-only repository over the defaults stamped at base.
func NewListingRepository(base time.Time) listing.Repository {
	return &listingRepository{listings: listing.Defaults(base)}
}

func (repo *listingRepository) Ping(ctx context.Context) error {
	return core.ErrStoreNotConfigured
}

func (repo *listingRepository) HasAny(ctx context.Context) (bool, error) {
	return true, nil
}

func (repo *listingRepository) InsertMany(ctx context.Context, ls []listing.Listing) (int, error) {
	return 0, core.ErrStoreNotConfigured
}

func (repo *listingRepository) FindAll(ctx context.Context) ([]listing.Listing, error) {
	return append([]listing.Listing(nil), repo.listings...), nil
}

func (repo *listingRepository) FindByID(ctx context.Context, id string) (listing.Listing, error) {
	for _, l := range repo.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return listing.Listing{}, listing.ErrNotFound
}

func (repo *listingRepository) Upsert(ctx context.Context, l listing.Listing, now time.Time) (listing.Listing, error) {
	return listing.Listing{}, core.ErrStoreNotConfigured
}

func (repo *listingRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	return false, core.ErrStoreNotConfigured
}

func (repo *listingRepository) DeleteAll(ctx context.Context) error {
	return core.ErrStoreNotConfigured
}

type userRepository struct{}

var _ user.Repository = userRepository{}

func NewUserRepository() user.Repository {
	return userRepository{}
}

func (userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, core.ErrStoreNotConfigured
}

func (userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	return user.User{}, core.ErrStoreNotConfigured
}

func (userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	return user.User{}, core.ErrStoreNotConfigured
}
