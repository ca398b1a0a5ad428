package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

// DefaultAgentPercentage is the agent's share of a new commission form.
const DefaultAgentPercentage = 40

// Fields a quote can be recomputed after.
const (
	QuoteChangedPrice      = "propertyPrice"
	QuoteChangedTotal      = "totalCommission"
	QuoteChangedPercentage = "agentPercentage"
)

// QuoteInput is the state of the commission form after one field changed.
type QuoteInput struct {
	PropertyPrice   float64
	TotalCommission *float64
	AgentPercentage *float64

	// Changed names the field that was just edited. Empty means the form
	// was just opened.
	Changed string

	// Editing is true when the form edits a saved commission. The total
	// is never suggested while editing.
	Editing bool
}

// Quote is the derived state of the commission form.
type Quote struct {
	PropertyPrice   float64 `json:"propertyPrice"`
	TotalCommission float64 `json:"totalCommission"`
	AgentPercentage float64 `json:"agentPercentage"`
	AgentShare      float64 `json:"agentShare"`
	Suggested       bool    `json:"suggested"`
}

// CalculateQuote recomputes the commission form: the total is suggested
// from the price when the price changes on a new record (or a new form
// has no total yet), and the agent share always follows the total and
// percentage.
func CalculateQuote(in QuoteInput) Quote {
	q := Quote{
		PropertyPrice:   in.PropertyPrice,
		AgentPercentage: DefaultAgentPercentage,
	}
	if in.AgentPercentage != nil {
		q.AgentPercentage = *in.AgentPercentage
	}
	if in.TotalCommission != nil {
		q.TotalCommission = *in.TotalCommission
	}

	if !in.Editing && in.PropertyPrice > 0 {
		priceChanged := in.Changed == QuoteChangedPrice
		fresh := in.Changed == "" && in.TotalCommission == nil
		if priceChanged || fresh {
			q.TotalCommission = models.SuggestTotal(in.PropertyPrice)
			q.Suggested = true
		}
	}

	q.AgentShare = models.AgentShare(q.TotalCommission, q.AgentPercentage)
	return q
}

// CommissionService defines the interface for the commission ledger.
type CommissionService interface {
	List(ctx context.Context) ([]models.Commission, error)
	Get(ctx context.Context, id string) (*models.Commission, error)

	// Save upserts a commission. A new commission without a total gets
	// the suggested total; the agent share is recomputed on every save.
	Save(ctx context.Context, patch repository.Patch) (*models.Commission, []models.Commission, error)

	Delete(ctx context.Context, id string) error

	// TogglePaid flips the paid flag.
	TogglePaid(ctx context.Context, id string) (*models.Commission, error)

	// Quote is the pure form calculator.
	Quote(in QuoteInput) (Quote, error)

	// Summary totals paid and pending agent income.
	Summary(ctx context.Context) (models.CommissionSummary, error)
}

type commissionService struct {
	repo repository.Repository[models.Commission]
	log  *logger.Logger
}

// NewCommissionService creates a new instance of CommissionService.
func NewCommissionService(repo repository.Repository[models.Commission], log *logger.Logger) CommissionService {
	return &commissionService{
		repo: repo,
		log:  log,
	}
}

func (s *commissionService) List(ctx context.Context) ([]models.Commission, error) {
	commissions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	return commissions, nil
}

func (s *commissionService) Get(ctx context.Context, id string) (*models.Commission, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *commissionService) Save(ctx context.Context, patch repository.Patch) (*models.Commission, []models.Commission, error) {
	if err := validateCommissionPatch(patch); err != nil {
		s.log.Warn("Invalid commission", map[string]interface{}{
			"id":    patch.ID(),
			"error": err.Error(),
		})
		return nil, nil, err
	}

	c, all, err := s.repo.Upsert(ctx, patch)
	if err != nil {
		s.log.Error("Failed to save commission", err, map[string]interface{}{"id": patch.ID()})
		return nil, nil, fmt.Errorf("failed to save commission: %w", err)
	}

	s.log.Info("Commission saved", map[string]interface{}{
		"id":               c.ID,
		"total_commission": c.TotalCommission,
		"agent_percentage": c.AgentPercentage,
		"agent_share":      c.AgentShare,
	})
	return &c, all, nil
}

func (s *commissionService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete commission", err, map[string]interface{}{"id": id})
		return fmt.Errorf("failed to delete commission: %w", err)
	}
	s.log.Info("Commission deleted", map[string]interface{}{"id": id, "removed": removed})
	return nil
}

func (s *commissionService) TogglePaid(ctx context.Context, id string) (*models.Commission, error) {
	c, err := s.repo.Update(ctx, id, func(c *models.Commission) error {
		c.IsPaid = !c.IsPaid
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle commission: %w", err)
	}

	s.log.Info("Commission paid flag toggled", map[string]interface{}{"id": id, "paid": c.IsPaid})
	return &c, nil
}

func (s *commissionService) Quote(in QuoteInput) (Quote, error) {
	if in.PropertyPrice < 0 {
		return Quote{}, fieldError("propertyPrice", "Must not be negative")
	}
	if in.TotalCommission != nil && *in.TotalCommission < 0 {
		return Quote{}, fieldError("totalCommission", "Must not be negative")
	}
	if in.AgentPercentage != nil && (*in.AgentPercentage < 0 || *in.AgentPercentage > 100) {
		return Quote{}, fieldError("agentPercentage", "Must be between 0 and 100")
	}
	switch in.Changed {
	case "", QuoteChangedPrice, QuoteChangedTotal, QuoteChangedPercentage:
	default:
		return Quote{}, fieldError("changed", "must be one of: propertyPrice, totalCommission, agentPercentage")
	}
	return CalculateQuote(in), nil
}

func (s *commissionService) Summary(ctx context.Context) (models.CommissionSummary, error) {
	commissions, err := s.List(ctx)
	if err != nil {
		return models.CommissionSummary{}, err
	}
	return models.Summarize(commissions), nil
}

func validateCommissionPatch(patch repository.Patch) error {
	for _, field := range []string{"propertyPrice", "totalCommission"} {
		if err := requireRange(patch, field, 0, 1e18); err != nil {
			return err
		}
	}
	if err := requireRange(patch, "agentPercentage", 0, 100); err != nil {
		return &FieldError{Field: "agentPercentage", Message: "Must be between 0 and 100"}
	}
	return nil
}
