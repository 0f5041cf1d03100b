package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/listing"
)

type listingApi struct {
	svc      listing.ServiceInterface
	validate *validator.Validate
}

func registerListingAPI(
	g *echo.Group,
	admin echo.MiddlewareFunc,
	svc listing.ServiceInterface,
	validate *validator.Validate,
) {
	api := listingApi{
		svc:      svc,
		validate: validate,
	}

	lg := g.Group("/listings")
	lg.GET("", api.query)
	lg.GET("/map", api.mapView)
	lg.GET("/:id", api.retrieve)

	// admin endpoints
	lg.POST("", api.save, admin)
	lg.POST("/reset", api.reset, admin)
	lg.PUT("/:id", api.update, admin)
	lg.DELETE("/:id", api.destroy, admin)
}

// Handlers

func (api *listingApi) query(ctx echo.Context) error {
	filter := new(listing.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	listings, err := api.svc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying listings")
	}
	if listings == nil {
		listings = []listing.Listing{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "listings": listings})
}

func (api *listingApi) mapView(ctx echo.Context) error {
	bounds, err := bindBounds(ctx)
	if err != nil {
		return err
	}

	view, err := api.svc.Map(ctx.Request().Context(), bounds)
	if err != nil {
		return errors.Wrap(err, "building map")
	}
	if view.Points == nil {
		view.Points = []listing.MapPoint{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"ok":        true,
		"center":    view.Center,
		"points":    view.Points,
		"showRadii": view.ShowRadii,
	})
}

func (api *listingApi) retrieve(ctx echo.Context) error {
	l, err := api.svc.Get(ctx.Request().Context(), listing.NormalizeID(ctx.Param("id")))
	if err != nil {
		if errors.Cause(err) == listing.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding listing")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "listing": l})
}

// save creates or replaces the listing of the payload; a payload originalId renames the listing.
func (api *listingApi) save(ctx echo.Context) error {
	var data listing.NewListing
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewListing")
	}
	return api.upsert(ctx, data)
}

func (api *listingApi) update(ctx echo.Context) error {
	var data listing.NewListing
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewListing")
	}
	data.ID = ctx.Param("id")
	return api.upsert(ctx, data)
}

func (api *listingApi) upsert(ctx echo.Context, data listing.NewListing) error {
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	l, err := api.svc.Upsert(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving listing")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "listing": l})
}

func (api *listingApi) destroy(ctx echo.Context) error {
	deleted, err := api.svc.Delete(ctx.Request().Context(), listing.NormalizeID(ctx.Param("id")))
	if err != nil {
		return errors.Wrap(err, "deleting listing")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "deleted": deleted})
}

func (api *listingApi) reset(ctx echo.Context) error {
	n, err := api.svc.Reset(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "resetting listings")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "count": n})
}

// bindBounds reads the map viewport. It is nil unless all four sides are given.
func bindBounds(ctx echo.Context) (*listing.Bounds, error) {
	names := [4]string{"south", "west", "north", "east"}
	var vals [4]float64
	for i, name := range names {
		raw := ctx.QueryParam(name)
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a number"})
		}
		vals[i] = v
	}
	return &listing.Bounds{South: vals[0], West: vals[1], North: vals[2], East: vals[3]}, nil
}
