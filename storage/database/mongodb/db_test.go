package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/listing"
)

func TestDBName(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Database.URI = "mongodb://localhost:27017"
	assert.Equal(t, defaultDBName, dbName(conf))

	conf.Database.URI = "mongodb://localhost:27017/imobiliare?retryWrites=true"
	assert.Equal(t, "imobiliare", dbName(conf))

	conf.Database.Name = " sig-prod "
	assert.Equal(t, "sig-prod", dbName(conf))
}

func TestListingDoc(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	radius := 600.0
	l := listing.Listing{
		ID:        "casa-faget",
		Kind:      listing.KindHouse,
		Title:     "Casă modernă • Făget",
		Price:     "465.000 €",
		Images:    []listing.Image{{Src: "https://img/1.jpg", Alt: "Fațadă"}},
		Location:  &listing.Location{Label: "Făget", Lat: 46.7357, Lng: 23.5772, RadiusMeters: &radius},
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc := toListingDoc(l)
	assert.Equal(t, "casa-faget", doc.ID)
	assert.NotNil(t, doc.Details, "details are stored as an empty array")

	got := doc.toListing()
	l.Details = []string{}
	assert.Equal(t, l, got)
}

func TestListingDoc_withoutLocation(t *testing.T) {
	got := listingDoc{ID: "x", CreatedAt: time.Now()}.toListing()
	assert.Nil(t, got.Location)
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
	assert.NotNil(t, got.Images)
}
