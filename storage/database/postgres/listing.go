package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core/listing"
)

// uniqueViolation is the postgres error code raised on a duplicate primary key.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// listingRow keeps the listing body as a JSONB document; timestamps live in their own columns.
type listingRow struct {
	ID        string    `db:"id"`
	Doc       []byte    `db:"doc"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newListingRow(l listing.Listing) (listingRow, error) {
	body := l
	body.CreatedAt, body.UpdatedAt = time.Time{}, time.Time{}
	doc, err := json.Marshal(body)
	if err != nil {
		return listingRow{}, errors.Wrapf(err, "encoding listing %q", l.ID)
	}
	return listingRow{ID: l.ID, Doc: doc, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt}, nil
}

func (row listingRow) toListing() (listing.Listing, error) {
	var l listing.Listing
	if err := json.Unmarshal(row.Doc, &l); err != nil {
		return listing.Listing{}, errors.Wrapf(err, "decoding listing %q", row.ID)
	}
	l.ID = row.ID
	l.CreatedAt = row.CreatedAt.UTC()
	l.UpdatedAt = row.UpdatedAt.UTC()
	return l, nil
}

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
	var found bool
	err := repo.db.GetContext(ctx, &found, "SELECT EXISTS (SELECT 1 FROM listings)")
	return found, err
}

func (repo *listingRepository) InsertMany(ctx context.Context, ls []listing.Listing) (int, error) {
	const q = `INSERT INTO listings (id, doc, created_at, updated_at) VALUES (:id, :doc, :created_at, :updated_at)`

	for i, l := range ls {
		row, err := newListingRow(l)
		if err != nil {
			return i, err
		}
		if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
			if isUniqueViolation(err) {
				return i, errors.Wrapf(listing.ErrDuplicate, "inserting %q", l.ID)
			}
			return i, errors.Wrapf(err, "inserting %q", l.ID)
		}
	}
	return len(ls), nil
}

func (repo *listingRepository) FindAll(ctx context.Context) ([]listing.Listing, error) {
	var rows []listingRow
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT id, doc, created_at, updated_at FROM listings ORDER BY updated_at DESC, id ASC")
	if err != nil {
		return nil, err
	}

	ls := make([]listing.Listing, 0, len(rows))
	for _, row := range rows {
		l, err := row.toListing()
		if err != nil {
			return nil, err
		}
		ls = append(ls, l)
	}
	return ls, nil
}

func (repo *listingRepository) FindByID(ctx context.Context, id string) (listing.Listing, error) {
	var row listingRow
	err := repo.db.GetContext(ctx, &row,
		"SELECT id, doc, created_at, updated_at FROM listings WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return listing.Listing{}, listing.ErrNotFound
	}
	if err != nil {
		return listing.Listing{}, err
	}
	return row.toListing()
}

func (repo *listingRepository) Upsert(ctx context.Context, l listing.Listing, now time.Time) (listing.Listing, error) {
	l.CreatedAt, l.UpdatedAt = now, now
	row, err := newListingRow(l)
	if err != nil {
		return listing.Listing{}, err
	}

	const q = `
		INSERT INTO listings (id, doc, created_at, updated_at) VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
		RETURNING created_at`
	var createdAt time.Time
	if err = repo.db.QueryRowxContext(ctx, q, row.ID, row.Doc, now).Scan(&createdAt); err != nil {
		return listing.Listing{}, errors.Wrapf(err, "upserting %q", l.ID)
	}
	l.CreatedAt = createdAt.UTC()
	return l, nil
}

func (repo *listingRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (repo *listingRepository) DeleteAll(ctx context.Context) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM listings")
	return err
}
