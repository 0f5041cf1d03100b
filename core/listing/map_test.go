package listing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBounds_Contains(t *testing.T) {
	b := Bounds{South: 46.7, West: 23.5, North: 46.8, East: 23.7}
	assert.True(t, b.Contains(Location{Lat: 46.75, Lng: 23.6}))
	assert.True(t, b.Contains(Location{Lat: 46.7, Lng: 23.7}), "edges are inclusive")
	assert.False(t, b.Contains(Location{Lat: 46.9, Lng: 23.6}))
	assert.False(t, b.Contains(Location{Lat: 46.75, Lng: 23.8}))

	antimeridian := Bounds{South: -10, West: 170, North: 10, East: -170}
	assert.True(t, antimeridian.Contains(Location{Lat: 0, Lng: 175}))
	assert.True(t, antimeridian.Contains(Location{Lat: 0, Lng: -175}))
	assert.False(t, antimeridian.Contains(Location{Lat: 0, Lng: 0}))
}

func TestNewMapView(t *testing.T) {
	ls := Defaults(time.Now())
	ls = append(ls, Listing{ID: "no-location", Title: "Fără locație"})

	v := NewMapView(ls, nil)
	assert.Len(t, v.Points, len(ls)-1)
	assert.True(t, v.ShowRadii)
	assert.InDelta(t, 46.77, v.Center.Lat, 0.02)

	// Făget only
	v = NewMapView(ls, &Bounds{South: 46.73, West: 23.57, North: 46.74, East: 23.58})
	if assert.Len(t, v.Points, 1) {
		assert.Equal(t, "casa-faget", v.Points[0].ID)
		assert.Equal(t, LatLng{Lat: 46.7357, Lng: 23.5772}, v.Center)
	}
}

func TestNewMapView_empty(t *testing.T) {
	v := NewMapView(nil, nil)
	assert.Equal(t, defaultCenter, v.Center)
	assert.NotNil(t, v.Points)
	assert.Empty(t, v.Points)
	assert.False(t, v.ShowRadii)
}

func TestNewMapView_hidesRadiiAboveLimit(t *testing.T) {
	ls := make([]Listing, 0, maxRadiiPoints+1)
	for i := 0; i <= maxRadiiPoints; i++ {
		ls = append(ls, Listing{ID: fmt.Sprintf("l-%d", i), Location: &Location{Lat: 46.77, Lng: 23.62}})
	}
	assert.False(t, NewMapView(ls, nil).ShowRadii)
	assert.True(t, NewMapView(ls[:maxRadiiPoints], nil).ShowRadii)
}
