package cashcard

import (
	"context"
	"fmt"

	"github.com/Laieb786/tutorial-spring-boot/cashcard/models"
)

// Service is the authorization boundary of the cash card core. Every
// operation takes the owner id resolved from the caller's credentials and
// passes it into the repository, so no lookup ever runs unscoped.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// FindByID returns the caller's card with the given id. A card that does not
// exist and a card owned by someone else both come back as ErrNotFound; the
// caller cannot probe for other owners' ids.
func (s *Service) FindByID(ctx context.Context, id int64, ownerID string) (*models.CashCard, error) {
	card, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("finding cash card: %w", err)
	}

	return card, nil
}

// FindPage returns one page of the caller's cards. An empty page is a normal
// outcome, not an error.
func (s *Service) FindPage(ctx context.Context, ownerID string, page models.PageRequest) (*models.Page, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	items, total, err := s.repo.List(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("listing cash cards: %w", err)
	}

	return &models.Page{
		Items:      items,
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: total,
	}, nil
}

// Create persists a new card for the caller. The id comes from the store and
// the owner from the resolved credentials; nothing a client asserts about
// either is trusted.
func (s *Service) Create(ctx context.Context, req models.CreateCashCard, ownerID string) (*models.CashCard, error) {
	if req.Amount == nil {
		return nil, fmt.Errorf("amount is required: %w", models.ErrInvalidArgument)
	}

	// Two decimal places, half-up.
	amount := req.Amount.Round(2)

	card, err := s.repo.Create(ctx, amount, ownerID)
	if err != nil {
		return nil, fmt.Errorf("creating cash card: %w", err)
	}

	return card, nil
}
