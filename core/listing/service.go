package listing

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/cache"
)

var (
	// errors
	ErrNotFound  = errors.New("listing not found")
	ErrDuplicate = errors.New("a listing with this id already exists")
)

const (
	// CacheTag marks every cached read of the listings collection.
	CacheTag = "listings"

	cacheKeyAll = "listings:all"
)

type (
	Repository interface {
		core.Pinger

		// HasAny reports whether at least one listing is stored.
		HasAny(ctx context.Context) (bool, error)
		// InsertMany inserts ls in order and stops at the first duplicate id (ErrDuplicate).
		InsertMany(ctx context.Context, ls []Listing) (int, error)
		// FindAll returns every listing, newest update first, then by id.
		FindAll(ctx context.Context) ([]Listing, error)
		FindByID(ctx context.Context, id string) (Listing, error)
		// Upsert stores l under l.ID: createdAt is kept on update and set to now on insert.
		Upsert(ctx context.Context, l Listing, now time.Time) (Listing, error)
		DeleteByID(ctx context.Context, id string) (bool, error)
		DeleteAll(ctx context.Context) error
	}

	ServiceInterface interface {
		List(ctx context.Context) ([]Listing, error)
		Query(ctx context.Context, filter QueryFilter) ([]Listing, error)
		Get(ctx context.Context, id string) (Listing, error)
		Upsert(ctx context.Context, nl NewListing) (Listing, error)
		Rename(ctx context.Context, oldID string, nl NewListing) (Listing, error)
		Delete(ctx context.Context, id string) (bool, error)
		Reset(ctx context.Context) (int, error)
		Map(ctx context.Context, bounds *Bounds) (MapView, error)
		Ping(ctx context.Context) error
	}

	Service struct {
		repo    Repository
		cache   *cache.Cache
		logger  core.Logger
		nowFunc func() time.Time
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, c *cache.Cache, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   c,
		logger:  logger,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// seedIfEmpty stores the default dataset when the store holds no listing.
// Losing a seeding race to another process is not an error.
func (svc *Service) seedIfEmpty(ctx context.Context) error {
	found, err := svc.repo.HasAny(ctx)
	if err != nil {
		return errors.Wrap(err, "checking for listings")
	}
	if found {
		return nil
	}
	n, err := svc.repo.InsertMany(ctx, Defaults(svc.nowFunc()))
	if err != nil && errors.Cause(err) != ErrDuplicate {
		return errors.Wrap(err, "seeding listings")
	}
	svc.logger.Info("listings seeded", map[string]interface{}{"count": n})
	return nil
}

func (svc *Service) loadAll(ctx context.Context) (interface{}, error) {
	if err := svc.seedIfEmpty(ctx); err != nil {
		return nil, err
	}
	ls, err := svc.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "finding listings")
	}
	for i := range ls {
		ls[i] = withDefaultLocation(ls[i])
	}
	return ls, nil
}

// List returns every listing, from the cache when possible.
func (svc *Service) List(ctx context.Context) ([]Listing, error) {
	v, err := svc.cache.Get(ctx, cacheKeyAll, []string{CacheTag}, svc.loadAll)
	if err != nil {
		return nil, err
	}
	ls := v.([]Listing)
	return append(make([]Listing, 0, len(ls)), ls...), nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Listing, error) {
	ls, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(ls), nil
}

func (svc *Service) Get(ctx context.Context, id string) (Listing, error) {
	if err := svc.seedIfEmpty(ctx); err != nil {
		return Listing{}, err
	}
	l, err := svc.repo.FindByID(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	return withDefaultLocation(l), nil
}

// Upsert creates or replaces a listing from a validated payload.
// When the payload renames a listing, the old id is deleted once the new one is stored.
func (svc *Service) Upsert(ctx context.Context, nl NewListing) (Listing, error) {
	defer svc.cache.InvalidateTag(CacheTag)

	if err := svc.seedIfEmpty(ctx); err != nil {
		return Listing{}, err
	}
	l, err := svc.repo.Upsert(ctx, nl.Listing(), svc.nowFunc())
	if err != nil {
		return Listing{}, errors.Wrap(err, "upserting listing")
	}
	if nl.Renamed() {
		if _, err := svc.repo.DeleteByID(ctx, nl.OriginalID); err != nil {
			return Listing{}, errors.Wrap(err, "deleting renamed listing")
		}
		svc.logger.Info("listing renamed", map[string]interface{}{"from": nl.OriginalID, "to": l.ID})
	}
	return l, nil
}

// Rename stores nl and removes the listing previously saved as oldID.
func (svc *Service) Rename(ctx context.Context, oldID string, nl NewListing) (Listing, error) {
	nl.OriginalID = NormalizeID(oldID)
	return svc.Upsert(ctx, nl)
}

func (svc *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := svc.seedIfEmpty(ctx); err != nil {
		return false, err
	}
	defer svc.cache.InvalidateTag(CacheTag)

	deleted, err := svc.repo.DeleteByID(ctx, id)
	if err != nil {
		return false, errors.Wrap(err, "deleting listing")
	}
	return deleted, nil
}

// Reset replaces every listing with the default dataset.
func (svc *Service) Reset(ctx context.Context) (int, error) {
	defer svc.cache.InvalidateTag(CacheTag)

	if err := svc.repo.DeleteAll(ctx); err != nil {
		return 0, errors.Wrap(err, "deleting listings")
	}
	n, err := svc.repo.InsertMany(ctx, Defaults(svc.nowFunc()))
	if err != nil {
		return n, errors.Wrap(err, "inserting default listings")
	}
	svc.logger.Info("listings reset to defaults", map[string]interface{}{"count": n})
	return n, nil
}

func (svc *Service) Map(ctx context.Context, bounds *Bounds) (MapView, error) {
	ls, err := svc.List(ctx)
	if err != nil {
		return MapView{}, err
	}
	return NewMapView(ls, bounds), nil
}

func (svc *Service) Ping(ctx context.Context) error {
	return svc.repo.Ping(ctx)
}
