package domain

// Surface fields, regions and controls shared by the browser controllers.
const (
	FieldHotelID   = "hotelid"
	FieldHotelName = "hotel_name"
	FieldLat       = "lat"
	FieldLng       = "lng"
	FieldOffset    = "offset"

	RegionHotelPanel  = "hotel_panel"
	RegionHotelsTitle = "hotels_table_title"
	RegionHotels      = "hotels_table"
	RegionReviews     = "reviews_table"
	RegionFavHotels   = "fav_hotels_table"

	ControlPrev      = "prev_button"
	ControlNext      = "next_button"
	ControlClearFavs = "clear_favs_button"

	ClassFavActive   = "btn btn-primary btn-sm pull-right"
	ClassFavInactive = "btn btn-default btn-sm pull-right"
)

// Remote data service paths.
const (
	PathHotelData  = "/hoteldata"
	PathFavsData   = "/favsdata"
	PathReviewData = "/reviewdata"

	// Pages the rendered fragments link to.
	PathHotelPage = "/hotel"
	PathClick     = "/click"
	PathLinkData  = "/linkdata"
)
