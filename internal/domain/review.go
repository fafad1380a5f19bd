package domain

// Review is a single hotel review as stored and as shown on a page.
type Review struct {
	ReviewID   string `json:"-"`
	HotelID    int64  `json:"-"`
	Rating     int    `json:"-"`
	Username   string `json:"username"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	DatePosted string `json:"dateposted"` // YYYY-MM-DD
}

// ReviewSlice is one page of reviews plus the hotel's total review count.
type ReviewSlice struct {
	Reviews []Review `json:"reviews"`
	Len     int      `json:"len"`
}

// PageSize is the fixed review page width.
const PageSize = 10
