package listing

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
)

type Kind string

const (
	KindApartment Kind = "apartment"
	KindHouse     Kind = "house"
	KindLand      Kind = "land"
)

var (
	idInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	idSpaces       = regexp.MustCompile(`\s+`)
	idDashes       = regexp.MustCompile(`-+`)
)

type (
	Image struct {
		Src string `json:"src" validate:"required"`
		Alt string `json:"alt"`
	}

	Location struct {
		Label        string   `json:"label"`
		Lat          float64  `json:"lat"`
		Lng          float64  `json:"lng"`
		RadiusMeters *float64 `json:"radiusMeters,omitempty"`
	}

	Listing struct {
		ID          string    `json:"id"`
		Kind        Kind      `json:"kind"`
		Badge       string    `json:"badge"`
		Title       string    `json:"title"`
		Subtitle    string    `json:"subtitle"`
		Price       string    `json:"price"`
		Details     []string  `json:"details"`
		Description string    `json:"description"`
		Images      []Image   `json:"images"`
		Location    *Location `json:"location,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}
)

type (
	// NewLocation is the location part of the admin form. Every field is optional,
	// but once one is given the whole location is validated.
	NewLocation struct {
		Label        string   `json:"label" validate:"required"`
		Lat          *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
		Lng          *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
		RadiusMeters *float64 `json:"radiusMeters" validate:"omitempty,gt=0"`
	}

	// NewListing is the payload used to create or replace a listing.
	NewListing struct {
		ID          string       `json:"id" validate:"required,slug"`
		Kind        Kind         `json:"kind" validate:"required,oneof=apartment house land"`
		Badge       string       `json:"badge"`
		Title       string       `json:"title" validate:"required"`
		Subtitle    string       `json:"subtitle"`
		Price       string       `json:"price"`
		Details     []string     `json:"details"`
		Description string       `json:"description"`
		Images      []Image      `json:"images" validate:"min=1,dive"`
		Location    *NewLocation `json:"location" validate:"omitempty"`

		// OriginalID is set when an existing listing is saved under a new id.
		OriginalID string `json:"originalId,omitempty"`
	}
)

// NormalizeID lowers id and replaces whitespace and anything outside [a-z0-9-] with single dashes.
func NormalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = idSpaces.ReplaceAllString(id, "-")
	id = idInvalidChars.ReplaceAllString(id, "-")
	id = idDashes.ReplaceAllString(id, "-")
	return strings.Trim(id, "-")
}

func (loc *NewLocation) isEmpty() bool {
	return loc.Label == "" && loc.Lat == nil && loc.Lng == nil && loc.RadiusMeters == nil
}

// Clean normalizes the payload in place: ids, trimmed strings, empty details and images dropped.
func (nl *NewListing) Clean() {
	nl.ID = NormalizeID(nl.ID)
	nl.OriginalID = NormalizeID(nl.OriginalID)
	nl.Kind = Kind(core.CleanString(string(nl.Kind), true /* lower */))
	nl.Badge = core.CleanString(nl.Badge)
	nl.Title = core.CleanString(nl.Title)
	nl.Subtitle = core.CleanString(nl.Subtitle)
	nl.Price = core.CleanString(nl.Price)
	nl.Description = core.CleanString(nl.Description)

	details := make([]string, 0, len(nl.Details))
	for _, d := range nl.Details {
		if d = core.CleanString(d); d != "" {
			details = append(details, d)
		}
	}
	nl.Details = details

	images := make([]Image, 0, len(nl.Images))
	for _, img := range nl.Images {
		img.Src = core.CleanString(img.Src)
		if img.Src == "" {
			continue
		}
		img.Alt = core.CleanString(img.Alt)
		if img.Alt == "" {
			img.Alt = nl.Title
		}
		images = append(images, img)
	}
	nl.Images = images

	if nl.Location != nil {
		nl.Location.Label = core.CleanString(nl.Location.Label)
		if nl.Location.isEmpty() {
			nl.Location = nil
		}
	}
}

// Validate cleans then validates the payload.
func (nl *NewListing) Validate(validate *validator.Validate) error {
	nl.Clean()
	return errors.Wrap(validate.Struct(nl), "validating listing")
}

// Listing builds the listing to store. Timestamps are set by the store.
func (nl NewListing) Listing() Listing {
	l := Listing{
		ID:          nl.ID,
		Kind:        nl.Kind,
		Badge:       nl.Badge,
		Title:       nl.Title,
		Subtitle:    nl.Subtitle,
		Price:       nl.Price,
		Details:     append([]string{}, nl.Details...),
		Description: nl.Description,
		Images:      append([]Image{}, nl.Images...),
	}
	if loc := nl.Location; loc != nil && loc.Lat != nil && loc.Lng != nil {
		l.Location = &Location{
			Label:        loc.Label,
			Lat:          *loc.Lat,
			Lng:          *loc.Lng,
			RadiusMeters: loc.RadiusMeters,
		}
	}
	return l
}

// Renamed reports whether the payload moves an existing listing to a new id.
func (nl NewListing) Renamed() bool {
	return nl.OriginalID != "" && nl.OriginalID != nl.ID
}

// Neighborhood is the last "•" separated part of the title, if the title has at least two parts.
func (l Listing) Neighborhood() (string, bool) {
	parts := make([]string, 0, 2)
	for _, p := range strings.Split(l.Title, "•") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", false
	}
	return parts[len(parts)-1], true
}

func (l Listing) clone() Listing {
	c := l
	c.Details = append([]string(nil), l.Details...)
	c.Images = append([]Image(nil), l.Images...)
	if l.Location != nil {
		loc := *l.Location
		if l.Location.RadiusMeters != nil {
			r := *l.Location.RadiusMeters
			loc.RadiusMeters = &r
		}
		c.Location = &loc
	}
	return c
}
