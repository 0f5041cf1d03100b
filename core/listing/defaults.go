package listing

import "time"

const defaultRadiusMeters = 600.0

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + "?auto=format&fit=crop&w=1600&q=80"
}

func radius(m float64) *float64 { return &m }

// defaultListings is the static dataset used to seed an empty store and to serve reads
// when no database is configured.
var defaultListings = []Listing{
	{
		ID:          "apt-zorilor-3cam",
		Kind:        KindApartment,
		Badge:       "Exclusivitate",
		Title:       "Apartament 3 camere • Zorilor",
		Subtitle:    "Terasa, parcare, aproape de UMF",
		Price:       "189.000 €",
		Details:     []string{"78 m²", "3 camere", "2 băi", "Et. 3/6"},
		Description: "Apartament luminos, compartimentare practică și finisaje moderne. Potrivit pentru familie sau investiție, cu acces rapid spre UMF și centru. Terasă generoasă și posibilitate de parcare.",
		Images: []Image{
			{Src: unsplash("photo-1502672260266-1c1ef2d93688"), Alt: "Apartament modern, living luminos"},
			{Src: unsplash("photo-1484154218962-a197022b5858"), Alt: "Bucătărie modernă, open space"},
			{Src: unsplash("photo-1502005229762-cf1b2da7c5d6"), Alt: "Dormitor amenajat modern"},
		},
		Location: &Location{Label: "Zorilor, Cluj-Napoca", Lat: 46.7535, Lng: 23.5806, RadiusMeters: radius(defaultRadiusMeters)},
	},
	{
		ID:          "casa-faget",
		Kind:        KindHouse,
		Badge:       "Nou",
		Title:       "Casă modernă • Făget",
		Subtitle:    "Curte, intimitate, acces rapid spre oraș",
		Price:       "465.000 €",
		Details:     []string{"156 m² utili", "5 camere", "Teren 420 m²"},
		Description: "Casă contemporană într-o zonă verde, cu curte și intimitate. Ideală pentru cei care vor liniște, dar și acces rapid către oraș. Spații generoase, potrivită pentru familie.",
		Images: []Image{
			{Src: unsplash("photo-1564013799919-ab600027ffc6"), Alt: "Casă modernă cu fațadă luminoasă"},
			{Src: unsplash("photo-1507089947368-19c1da9775ae"), Alt: "Living spațios într-o casă modernă"},
			{Src: unsplash("photo-1505691938895-1758d7feb511"), Alt: "Detalii interioare premium"},
		},
		Location: &Location{Label: "Făget, Cluj-Napoca", Lat: 46.7357, Lng: 23.5772, RadiusMeters: radius(defaultRadiusMeters)},
	},
	{
		ID:          "apt-gheorgheni",
		Kind:        KindApartment,
		Badge:       "Recomandat",
		Title:       "Apartament 2 camere • Gheorgheni",
		Subtitle:    "Lângă Iulius Mall, finisaje premium",
		Price:       "142.500 €",
		Details:     []string{"56 m²", "2 camere", "Balcon", "Et. 5/10"},
		Description: "Apartament ideal pentru locuit sau închiriere, aproape de Iulius Mall și facilități. Finisaje premium, balcon și acces excelent către transport și zone de birouri.",
		Images: []Image{
			{Src: unsplash("photo-1560448204-e02f11c3d0e2"), Alt: "Apartament cu bucătărie open-space"},
			{Src: unsplash("photo-1493809842364-78817add7ffb"), Alt: "Zonă de dining într-un apartament modern"},
			{Src: unsplash("photo-1524758631624-e2822e304c36"), Alt: "Spațiu de lucru și living luminos"},
		},
		Location: &Location{Label: "Gheorgheni, Cluj-Napoca", Lat: 46.7679, Lng: 23.6294, RadiusMeters: radius(defaultRadiusMeters)},
	},
	{
		ID:          "studio-marasti",
		Kind:        KindApartment,
		Badge:       "Investiție",
		Title:       "Studio • Mărăști",
		Subtitle:    "Randament bun pentru închiriere",
		Price:       "94.900 €",
		Details:     []string{"32 m²", "1 cameră", "Renovat", "Et. 2/4"},
		Description: "Studio compact, renovat, cu potențial bun pentru închiriere. Zonă bine conectată, aproape de transport public, campusuri și huburi de birouri.",
		Images: []Image{
			{Src: unsplash("photo-1522708323590-d24dbb6b0267"), Alt: "Studio compact, amenajat modern"},
			{Src: unsplash("photo-1527030280862-64139fba04ca"), Alt: "Colț de living într-un studio modern"},
			{Src: unsplash("photo-1501183638710-841dd1904471"), Alt: "Pat și zonă de odihnă într-un studio"},
		},
		Location: &Location{Label: "Mărăști, Cluj-Napoca", Lat: 46.7820, Lng: 23.6150, RadiusMeters: radius(defaultRadiusMeters)},
	},
	{
		ID:          "teren-someseni",
		Kind:        KindLand,
		Badge:       "Teren",
		Title:       "Teren intravilan • Someșeni",
		Subtitle:    "Potrivit pentru casă / duplex",
		Price:       "129.000 €",
		Details:     []string{"620 m²", "Front 18 m", "Utilități la limită"},
		Description: "Teren intravilan cu front generos, potrivit pentru construcție casă sau duplex. Utilități la limită și acces bun către principalele artere.",
		Images: []Image{
			{Src: unsplash("photo-1500382017468-9049fed747ef"), Alt: "Teren cu spațiu verde și deschidere"},
			{Src: unsplash("photo-1469474968028-56623f02e42e"), Alt: "Peisaj verde, lot de teren"},
			{Src: unsplash("photo-1441974231531-c6227db76b6e"), Alt: "Vegetatie și teren în lumină naturală"},
		},
		Location: &Location{Label: "Someșeni, Cluj-Napoca", Lat: 46.7830, Lng: 23.6700, RadiusMeters: radius(defaultRadiusMeters)},
	},
	{
		ID:          "penthouse-centru",
		Kind:        KindApartment,
		Badge:       "Premium",
		Title:       "Penthouse • Centru",
		Subtitle:    "Vedere panoramică, 2 terase, lift",
		Price:       "399.000 €",
		Details:     []string{"112 m²", "4 camere", "2 terase", "Ultimul etaj"},
		Description: "Penthouse premium cu vedere panoramică și două terase. Spații ample, lumină naturală și acces cu lift. Ideal pentru cei care vor confort în zona centrală.",
		Images: []Image{
			{Src: unsplash("photo-1505693416388-ac5ce068fe85"), Alt: "Apartament tip penthouse, interior elegant"},
			{Src: unsplash("photo-1502005229762-cf1b2da7c5d6"), Alt: "Dormitor elegant, lumină naturală"},
			{Src: unsplash("photo-1507089947368-19c1da9775ae"), Alt: "Living modern cu spațiu generos"},
		},
		Location: &Location{Label: "Centru, Cluj-Napoca", Lat: 46.7700, Lng: 23.5900, RadiusMeters: radius(defaultRadiusMeters)},
	},
}

// Defaults returns a fresh copy of the default dataset. Timestamps count down one millisecond
// per entry from base so that sorting by updatedAt keeps the dataset order.
func Defaults(base time.Time) []Listing {
	ls := make([]Listing, 0, len(defaultListings))
	for i, l := range defaultListings {
		l = l.clone()
		l.CreatedAt = base.Add(-time.Duration(i) * time.Millisecond)
		l.UpdatedAt = l.CreatedAt
		ls = append(ls, l)
	}
	return ls
}

// DefaultLocation returns the location of the default listing with the given id.
func DefaultLocation(id string) (*Location, bool) {
	for _, l := range defaultListings {
		if l.ID == id && l.Location != nil {
			return l.clone().Location, true
		}
	}
	return nil, false
}

// withDefaultLocation fills in the location of documents stored before listings had one.
func withDefaultLocation(l Listing) Listing {
	if l.Location != nil {
		return l
	}
	if loc, ok := DefaultLocation(l.ID); ok {
		l.Location = loc
	}
	return l
}
