package domain

// Hotel is the stored form of a hotel in the backing service.
type Hotel struct {
	ID      int64
	Name    string
	Address string
	Lat     float64
	Lng     float64
	Rating  *float64
	Link    string
}

// HotelSummary is one entry of a lookup-by-name result.
type HotelSummary struct {
	HotelID    int64
	HotelName  string
	Rating     float64
	Address    string
	Link       string
	IsFavorite bool
}

// HotelDetail is the result of a lookup-by-id; it also carries coordinates.
type HotelDetail struct {
	HotelSummary
	Coords Coords
}

type Coords struct{ Lat, Lng float64 }

// HotelView is what the backing service serializes for a hotel (wire names match the browser contract).
type HotelView struct {
	HotelID   int64   `json:"hotelid"`
	HotelName string  `json:"hotelname"`
	Address   string  `json:"address"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Rating    float64 `json:"rating"`
	Link      string  `json:"link"`
	Fav       bool    `json:"fav"`
}
