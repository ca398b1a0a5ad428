package models

// SearchTargets selects which listing categories a search covers.
type SearchTargets struct {
	Residential bool `json:"residential"`
	Commercial  bool `json:"commercial"`
}

// AllTargets enables every category.
var AllTargets = SearchTargets{Residential: true, Commercial: true}

// Allows reports whether listings of category c are searchable.
func (t SearchTargets) Allows(c Category) bool {
	switch c {
	case CategoryResidential:
		return t.Residential
	case CategoryCommercial:
		return t.Commercial
	default:
		return false
	}
}

// SearchFilters is the state of the search screen.
type SearchFilters struct {
	Query           string          `json:"query"`
	Targets         SearchTargets   `json:"targets"`
	MinPrice        *float64        `json:"minPrice,omitempty"`
	MaxPrice        *float64        `json:"maxPrice,omitempty"`
	MinArea         *float64        `json:"minArea,omitempty"`
	MaxArea         *float64        `json:"maxArea,omitempty"`
	TransactionType TransactionType `json:"transactionType,omitempty"`
	Bedrooms        *int            `json:"bedrooms,omitempty"`
	MinYear         *int            `json:"minYear,omitempty"`
}

// SavedSearch is a named snapshot of SearchFilters.
type SavedSearch struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Filters SearchFilters `json:"filters"`
}

// AIListing is a fictional listing proposed by the assistant search.
type AIListing struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Price    string   `json:"price"`
	Location string   `json:"location"`
	Features []string `json:"features"`
}
