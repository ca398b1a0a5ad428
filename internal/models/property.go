package models

// Category classifies a listing and decides which attribute group applies.
type Category string

const (
	CategoryResidential Category = "residential"
	CategoryCommercial  Category = "commercial"
)

// TransactionType is the kind of deal a listing (or a client) is for.
type TransactionType string

const (
	TransactionSale          TransactionType = "sale"
	TransactionRent          TransactionType = "rent"
	TransactionMortgage      TransactionType = "mortgage"
	TransactionPresale       TransactionType = "presale"
	TransactionParticipation TransactionType = "participation"
)

// UsesTotalPrice reports whether the deal is priced with a single total
// (sale, presale, participation) rather than deposit plus monthly rent.
func (t TransactionType) UsesTotalPrice() bool {
	switch t {
	case TransactionSale, TransactionPresale, TransactionParticipation:
		return true
	default:
		return false
	}
}

// UsesRentPrice reports whether the deal is priced as deposit plus rent.
func (t TransactionType) UsesRentPrice() bool {
	return t == TransactionRent || t == TransactionMortgage
}

// Property is a real-estate listing.
// Optional attributes are pointers so that absent and zero stay distinct.
type Property struct {
	ID              string          `json:"id"`
	Category        Category        `json:"category"`
	Title           string          `json:"title"`
	Type            string          `json:"type,omitempty"`
	TransactionType TransactionType `json:"transactionType"`
	Address         string          `json:"address"`
	Area            float64         `json:"area"`
	PriceTotal      *float64        `json:"priceTotal,omitempty"`
	PriceDeposit    *float64        `json:"priceDeposit,omitempty"`
	PriceRent       *float64        `json:"priceRent,omitempty"`
	Features        []string        `json:"features"`
	Images          []string        `json:"images"`
	OwnerName       string          `json:"ownerName"`
	OwnerPhone      string          `json:"ownerPhone"`
	Description     string          `json:"description"`
	Date            string          `json:"date"`
	Lat             *float64        `json:"lat,omitempty"`
	Lng             *float64        `json:"lng,omitempty"`
	DateSold        string          `json:"dateSold,omitempty"`

	// Residential
	Bedrooms    *int   `json:"bedrooms,omitempty"`
	Floor       *int   `json:"floor,omitempty"`
	YearBuilt   *int   `json:"yearBuilt,omitempty"`
	HasElevator *bool  `json:"hasElevator,omitempty"`
	HasParking  *bool  `json:"hasParking,omitempty"`
	HasStorage  *bool  `json:"hasStorage,omitempty"`
	DeedStatus  string `json:"deedStatus,omitempty"`

	// Commercial
	Frontage           *float64 `json:"frontage,omitempty"`
	Length             *float64 `json:"length,omitempty"`
	Height             *float64 `json:"height,omitempty"`
	HasOpenCeiling     *bool    `json:"hasOpenCeiling,omitempty"`
	LocationType       string   `json:"locationType,omitempty"`
	CommercialDeedType string   `json:"commercialDeedType,omitempty"`
	Status             string   `json:"status,omitempty"`
	Facilities         []string `json:"facilities,omitempty"`
}

// NormalizePrice clears the price group that does not belong to the
// transaction type. A missing price in the matching group is allowed.
func (p *Property) NormalizePrice() {
	switch {
	case p.TransactionType.UsesTotalPrice():
		p.PriceDeposit = nil
		p.PriceRent = nil
	case p.TransactionType.UsesRentPrice():
		p.PriceTotal = nil
	}
}

// Location returns the listing's coordinate, if it has one.
func (p *Property) Location() (Point, bool) {
	if p.Lat == nil || p.Lng == nil {
		return Point{}, false
	}
	return Point{Lat: *p.Lat, Lng: *p.Lng}, true
}

// ListPrice returns the headline price used by range filters: the total
// for sale-like deals and the deposit for rentals.
func (p *Property) ListPrice() (float64, bool) {
	if p.TransactionType.UsesRentPrice() {
		if p.PriceDeposit == nil {
			return 0, false
		}
		return *p.PriceDeposit, true
	}
	if p.PriceTotal == nil {
		return 0, false
	}
	return *p.PriceTotal, true
}

// AllFeatures returns the feature and facility tags plus the residential
// amenity flags, in display order.
func (p *Property) AllFeatures(elevator, parking, storage string) []string {
	out := make([]string, 0, len(p.Features)+len(p.Facilities)+3)
	out = append(out, p.Features...)
	out = append(out, p.Facilities...)
	if p.HasElevator != nil && *p.HasElevator {
		out = append(out, elevator)
	}
	if p.HasParking != nil && *p.HasParking {
		out = append(out, parking)
	}
	if p.HasStorage != nil && *p.HasStorage {
		out = append(out, storage)
	}
	return out
}
