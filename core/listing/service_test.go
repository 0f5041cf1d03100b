package listing_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/cache"
	"github.com/sigimobiliare/sig/core/listing"
	"github.com/sigimobiliare/sig/services/logger"
	"github.com/sigimobiliare/sig/storage/database/inmem"
)

// countingRepo counts the FindAll calls reaching the store.
type countingRepo struct {
	listing.Repository
	findAll int32
}

func (r *countingRepo) FindAll(ctx context.Context) ([]listing.Listing, error) {
	atomic.AddInt32(&r.findAll, 1)
	return r.Repository.FindAll(ctx)
}

// racingRepo simulates another process seeding the store first.
type racingRepo struct {
	listing.Repository
}

func (r racingRepo) InsertMany(ctx context.Context, ls []listing.Listing) (int, error) {
	n, err := r.Repository.InsertMany(ctx, ls)
	if err != nil {
		return n, err
	}
	return n, listing.ErrDuplicate
}

func newService(t *testing.T) (*listing.Service, *countingRepo) {
	t.Helper()
	conf := core.NewTestConfig()
	repo := &countingRepo{Repository: inmemdb.NewListingRepository(inmemdb.Open())}
	return listing.NewService(repo, cache.New(conf.Cache.ListingsTTL), logsvc.NewTestLogger(conf)), repo
}

func newListing(id string) listing.NewListing {
	return listing.NewListing{
		ID:     id,
		Kind:   listing.KindApartment,
		Title:  "Apartament 2 camere • Grigorescu",
		Price:  "155.000 €",
		Images: []listing.Image{{Src: "https://img/1.jpg", Alt: "Living"}},
	}
}

func TestService_List_seedsAndCaches(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	ls, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ls, len(listing.Defaults(time.Now())))
	assert.Equal(t, "apt-zorilor-3cam", ls[0].ID, "defaults keep their order")

	ls[0].Title = "changed"
	again, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0].Title)
	assert.EqualValues(t, 1, atomic.LoadInt32(&repo.findAll))

	_, err = svc.Upsert(ctx, newListing("apt-grigorescu"))
	require.NoError(t, err)
	ls, err = svc.List(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&repo.findAll), "writes invalidate the cache")
	assert.Equal(t, "apt-grigorescu", ls[0].ID, "newest update first")
}

func TestService_seedRace(t *testing.T) {
	conf := core.NewTestConfig()
	repo := racingRepo{Repository: inmemdb.NewListingRepository(inmemdb.Open())}
	svc := listing.NewService(repo, cache.New(conf.Cache.ListingsTTL), logsvc.NewTestLogger(conf))

	ls, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ls)
}

func TestService_Query(t *testing.T) {
	svc, _ := newService(t)

	ls, err := svc.Query(context.Background(), listing.QueryFilter{PropertyType: "Teren"})
	require.NoError(t, err)
	if assert.Len(t, ls, 1) {
		assert.Equal(t, "teren-someseni", ls[0].ID)
	}
}

func TestService_Get(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	l, err := svc.Get(ctx, "casa-faget")
	require.NoError(t, err)
	assert.Equal(t, listing.KindHouse, l.Kind)

	_, err = svc.Get(ctx, "nope")
	assert.Equal(t, listing.ErrNotFound, err)
}

func TestService_Upsert(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, newListing("apt-grigorescu"))
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	time.Sleep(time.Millisecond)
	nl := newListing("apt-grigorescu")
	nl.Price = "150.000 €"
	updated, err := svc.Upsert(ctx, nl)
	require.NoError(t, err)
	assert.Equal(t, "150.000 €", updated.Price)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestService_Rename(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	l, err := svc.Rename(ctx, " APT-Gheorgheni ", newListing("apt-gheorgheni-2cam"))
	require.NoError(t, err)
	assert.Equal(t, "apt-gheorgheni-2cam", l.ID)

	_, err = svc.Get(ctx, "apt-gheorgheni")
	assert.Equal(t, listing.ErrNotFound, err)
	_, err = svc.Get(ctx, "apt-gheorgheni-2cam")
	assert.NoError(t, err)

	// same id: plain update
	_, err = svc.Rename(ctx, "apt-gheorgheni-2cam", newListing("apt-gheorgheni-2cam"))
	require.NoError(t, err)
	_, err = svc.Get(ctx, "apt-gheorgheni-2cam")
	assert.NoError(t, err)
}

func TestService_Delete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, "studio-marasti")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, "studio-marasti")
	require.NoError(t, err)
	assert.False(t, deleted)

	ls, err := svc.List(ctx)
	require.NoError(t, err)
	for _, l := range ls {
		assert.NotEqual(t, "studio-marasti", l.ID)
	}
}

func TestService_Delete_seedsFreshStore(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	deleted, err := svc.Delete(ctx, "studio-marasti")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.Get(ctx, "studio-marasti")
	assert.Equal(t, listing.ErrNotFound, err)

	ls, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ls, len(listing.Defaults(time.Now()))-1)
}

func TestService_Reset(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, newListing("apt-grigorescu"))
	require.NoError(t, err)

	n, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(listing.Defaults(time.Now())), n)

	ls, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ls, n)
	_, err = svc.Get(ctx, "apt-grigorescu")
	assert.Equal(t, listing.ErrNotFound, err)
}

func TestService_Map(t *testing.T) {
	svc, _ := newService(t)

	v, err := svc.Map(context.Background(), &listing.Bounds{South: 46.73, West: 23.57, North: 46.74, East: 23.58})
	require.NoError(t, err)
	if assert.Len(t, v.Points, 1) {
		assert.Equal(t, "casa-faget", v.Points[0].ID)
	}
}

func TestService_Ping(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())

	assert.NoError(t, svc.Ping(ctx))
	cancel()
	assert.Error(t, svc.Ping(ctx))
}
