package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sigimobiliare/sig/core/listing"
)

type (
	imageDoc struct {
		Src string `bson:"src"`
		Alt string `bson:"alt"`
	}

	locationDoc struct {
		Label        string   `bson:"label"`
		Lat          float64  `bson:"lat"`
		Lng          float64  `bson:"lng"`
		RadiusMeters *float64 `bson:"radiusMeters,omitempty"`
	}

	listingDoc struct {
		ID          string       `bson:"_id"`
		Kind        string       `bson:"kind"`
		Badge       string       `bson:"badge"`
		Title       string       `bson:"title"`
		Subtitle    string       `bson:"subtitle"`
		Price       string       `bson:"price"`
		Details     []string     `bson:"details"`
		Description string       `bson:"description"`
		Images      []imageDoc   `bson:"images"`
		Location    *locationDoc `bson:"location,omitempty"`
		CreatedAt   time.Time    `bson:"createdAt"`
		UpdatedAt   time.Time    `bson:"updatedAt"`
	}
)

func toListingDoc(l listing.Listing) listingDoc {
	doc := listingDoc{
		ID:          l.ID,
		Kind:        string(l.Kind),
		Badge:       l.Badge,
		Title:       l.Title,
		Subtitle:    l.Subtitle,
		Price:       l.Price,
		Details:     l.Details,
		Description: l.Description,
		Images:      make([]imageDoc, 0, len(l.Images)),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if doc.Details == nil {
		doc.Details = []string{}
	}
	for _, img := range l.Images {
		doc.Images = append(doc.Images, imageDoc(img))
	}
	if l.Location != nil {
		loc := locationDoc(*l.Location)
		doc.Location = &loc
	}
	return doc
}

func (doc listingDoc) toListing() listing.Listing {
	l := listing.Listing{
		ID:          doc.ID,
		Kind:        listing.Kind(doc.Kind),
		Badge:       doc.Badge,
		Title:       doc.Title,
		Subtitle:    doc.Subtitle,
		Price:       doc.Price,
		Details:     doc.Details,
		Description: doc.Description,
		Images:      make([]listing.Image, 0, len(doc.Images)),
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
	if l.Details == nil {
		l.Details = []string{}
	}
	for _, img := range doc.Images {
		l.Images = append(l.Images, listing.Image(img))
	}
	if doc.Location != nil {
		loc := listing.Location(*doc.Location)
		l.Location = &loc
	}
	return l
}

type listingRepository struct {
	db  *DB
	col *mongo.Collection
}

var _ listing.Repository = (*listingRepository)(nil)

func NewListingRepository(db *DB) listing.Repository {
	return &listingRepository{db: db, col: db.collection(listingsCollection)}
}

func (repo *listingRepository) Ping(ctx context.Context) error {
	return repo.db.Ping(ctx)
}

func (repo *listingRepository) HasAny(ctx context.Context) (bool, error) {
	err := repo.col.FindOne(ctx, bson.D{}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (repo *listingRepository) InsertMany(ctx context.Context, ls []listing.Listing) (int, error) {
	if len(ls) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(ls))
	for _, l := range ls {
		docs = append(docs, toListingDoc(l))
	}
	res, err := repo.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	var n int
	if res != nil {
		n = len(res.InsertedIDs)
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return n, errors.Wrap(listing.ErrDuplicate, err.Error())
		}
		return n, err
	}
	return n, nil
}

func (repo *listingRepository) FindAll(ctx context.Context) ([]listing.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := repo.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []listingDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ls := make([]listing.Listing, 0, len(docs))
	for _, doc := range docs {
		ls = append(ls, doc.toListing())
	}
	return ls, nil
}

func (repo *listingRepository) FindByID(ctx context.Context, id string) (listing.Listing, error) {
	var doc listingDoc
	err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return listing.Listing{}, listing.ErrNotFound
	}
	if err != nil {
		return listing.Listing{}, err
	}
	return doc.toListing(), nil
}

func (repo *listingRepository) Upsert(ctx context.Context, l listing.Listing, now time.Time) (listing.Listing, error) {
	doc := toListingDoc(l)
	set := bson.M{
		"kind":        doc.Kind,
		"badge":       doc.Badge,
		"title":       doc.Title,
		"subtitle":    doc.Subtitle,
		"price":       doc.Price,
		"details":     doc.Details,
		"description": doc.Description,
		"images":      doc.Images,
		"updatedAt":   now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	if doc.Location != nil {
		set["location"] = doc.Location
	} else {
		update["$unset"] = bson.M{"location": ""}
	}

	_, err := repo.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return listing.Listing{}, err
	}
	return repo.FindByID(ctx, doc.ID)
}

func (repo *listingRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (repo *listingRepository) DeleteAll(ctx context.Context) error {
	_, err := repo.col.DeleteMany(ctx, bson.D{})
	return err
}
