package models

// Site identifies which marketplace a listing came from.
type Site string

const (
	SiteDBA         Site = "dba"
	SitePriceRunner Site = "pricerunner"
)

// Label is the human-readable site name used in report headers.
func (s Site) Label() string {
	switch s {
	case SiteDBA:
		return "DBA"
	case SitePriceRunner:
		return "PriceRunner"
	}
	return string(s)
}

// RawListing holds the unprocessed strings picked out of a search page
// by a site adapter, before any price normalization or URL resolution.
type RawListing struct {
	Site     Site
	Title    string
	RawPrice string
	Href     string
	Location string
}

// Listing is one assembled search result. Listings are passed by value and
// never modified after assembly.
type Listing struct {
	Site       Site   `json:"site"`
	Title      string `json:"title"`
	Price      string `json:"price"`
	PriceValue Price  `json:"price_num"`
	URL        string `json:"url"`
	Location   string `json:"location"`
}

// RowPair is one row of a side-by-side comparison. A nil side means the
// corresponding list ran out of listings.
type RowPair struct {
	Left  *Listing
	Right *Listing
}

// PriceSummary holds price statistics for one site's listings.
type PriceSummary struct {
	Site         Site
	Listings     int
	PricedCount  int
	MinPrice     float64
	MaxPrice     float64
	AveragePrice float64
	Cheapest     *Listing
}
