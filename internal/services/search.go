package services

import (
	"strings"
	"unicode/utf8"

	"github.com/stwalsh4118/estatedesk/internal/jalali"
	"github.com/stwalsh4118/estatedesk/internal/models"
)

// Instant search limits
const (
	InstantMinQueryLength = 2
	InstantMaxResults     = 4
)

// FilterProperties returns the listings matching f in collection order.
// The query is a case-insensitive substring match on title and address;
// a listing is only eligible when its category is enabled in f.Targets.
func FilterProperties(properties []models.Property, f models.SearchFilters) []models.Property {
	query := normalizeQuery(f.Query)
	out := make([]models.Property, 0, len(properties))
	for i := range properties {
		if matches(&properties[i], query, f) {
			out = append(out, properties[i])
		}
	}
	return out
}

// InstantResults is the type-ahead preview: at most InstantMaxResults
// listings, and none for queries shorter than InstantMinQueryLength.
func InstantResults(properties []models.Property, query string, targets models.SearchTargets) []models.Property {
	q := normalizeQuery(query)
	if utf8.RuneCountInString(q) < InstantMinQueryLength {
		return []models.Property{}
	}

	out := make([]models.Property, 0, InstantMaxResults)
	filters := models.SearchFilters{Targets: targets}
	for i := range properties {
		if len(out) == InstantMaxResults {
			break
		}
		if matches(&properties[i], q, filters) {
			out = append(out, properties[i])
		}
	}
	return out
}

func normalizeQuery(q string) string {
	return strings.ToLower(jalali.NormalizeDigits(strings.TrimSpace(q)))
}

func matches(p *models.Property, query string, f models.SearchFilters) bool {
	if !f.Targets.Allows(p.Category) {
		return false
	}

	if query != "" {
		title := strings.ToLower(jalali.NormalizeDigits(p.Title))
		address := strings.ToLower(jalali.NormalizeDigits(p.Address))
		if !strings.Contains(title, query) && !strings.Contains(address, query) {
			return false
		}
	}

	if f.TransactionType != "" && p.TransactionType != f.TransactionType {
		return false
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		price, ok := p.ListPrice()
		if !ok {
			return false
		}
		if f.MinPrice != nil && price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && price > *f.MaxPrice {
			return false
		}
	}

	if f.MinArea != nil && p.Area < *f.MinArea {
		return false
	}
	if f.MaxArea != nil && p.Area > *f.MaxArea {
		return false
	}

	if f.Bedrooms != nil && (p.Bedrooms == nil || *p.Bedrooms < *f.Bedrooms) {
		return false
	}
	if f.MinYear != nil && (p.YearBuilt == nil || *p.YearBuilt < *f.MinYear) {
		return false
	}

	return true
}
