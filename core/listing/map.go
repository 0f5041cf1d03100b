package listing

// maxRadiiPoints is the number of points above which the map hides the location radii.
const maxRadiiPoints = 30

// Cluj-Napoca city center, used when no listing has a location.
var defaultCenter = LatLng{Lat: 46.7712, Lng: 23.6236}

type (
	LatLng struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}

	// Bounds is a map viewport.
	Bounds struct {
		South float64 `query:"south"`
		West  float64 `query:"west"`
		North float64 `query:"north"`
		East  float64 `query:"east"`
	}

	MapPoint struct {
		ID       string   `json:"id"`
		Title    string   `json:"title"`
		Price    string   `json:"price"`
		Kind     Kind     `json:"kind"`
		Location Location `json:"location"`
	}

	MapView struct {
		Center    LatLng     `json:"center"`
		Points    []MapPoint `json:"points"`
		ShowRadii bool       `json:"showRadii"`
	}
)

func (b Bounds) Contains(loc Location) bool {
	if loc.Lat < b.South || loc.Lat > b.North {
		return false
	}
	if b.West <= b.East {
		return loc.Lng >= b.West && loc.Lng <= b.East
	}
	// viewport crossing the antimeridian
	return loc.Lng >= b.West || loc.Lng <= b.East
}

// NewMapView builds the map points of the located listings, optionally restricted to bounds.
func NewMapView(ls []Listing, bounds *Bounds) MapView {
	points := make([]MapPoint, 0, len(ls))
	var sumLat, sumLng float64
	for _, l := range ls {
		if l.Location == nil {
			continue
		}
		if bounds != nil && !bounds.Contains(*l.Location) {
			continue
		}
		points = append(points, MapPoint{
			ID:       l.ID,
			Title:    l.Title,
			Price:    l.Price,
			Kind:     l.Kind,
			Location: *l.Location,
		})
		sumLat += l.Location.Lat
		sumLng += l.Location.Lng
	}

	center := defaultCenter
	if n := float64(len(points)); n > 0 {
		center = LatLng{Lat: sumLat / n, Lng: sumLng / n}
	}
	return MapView{
		Center:    center,
		Points:    points,
		ShowRadii: len(points) > 0 && len(points) <= maxRadiiPoints,
	}
}
