// Package catalog manages product listings: loading and searching the
// catalog, owner-scoped create/edit/delete, suggestions and the display
// helpers that go with them (price, seller label, contact link).
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/media"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"github.com/AbdoulayeSG/site-antigravi/internal/storage"
)

// MaxSuggestions bounds the products shown under a product detail.
const MaxSuggestions = 4

// CurrentUser exposes the signed-in user.
type CurrentUser interface {
	Current() *models.User
}

type Service struct {
	backend  storage.Backend
	session  CurrentUser
	resolver media.Resolver
	logger   logging.Logger
	guard    *guard

	mu       sync.RWMutex
	products []models.Product
	sellers  map[string]string
}

// NewService builds a catalog. resolver may be nil, in which case image
// references are stored as given.
func NewService(backend storage.Backend, session CurrentUser, resolver media.Resolver, logger logging.Logger) *Service {
	return &Service{
		backend:  backend,
		session:  session,
		resolver: resolver,
		logger:   logger.With("module", "catalog"),
		guard:    newGuard(),
		sellers:  map[string]string{},
	}
}

// Load refreshes the cached catalog from the backend and returns it in
// storage order.
func (s *Service) Load(ctx context.Context) ([]models.Product, error) {
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	sellers := make(map[string]string, len(users))
	for _, u := range users {
		sellers[u.ID] = u.Name
	}

	s.mu.Lock()
	s.products = products
	s.sellers = sellers
	s.mu.Unlock()

	s.logger.Debug(ctx, "catalog loaded", "products", len(products))
	return s.Products(), nil
}

// Products returns a copy of the last loaded catalog.
func (s *Service) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product{}, s.products...)
}

// Search filters the last loaded catalog. The query is trimmed and matched
// case-insensitively as a substring of name, description or stored seller
// name. An empty query returns the full set.
func (s *Service) Search(query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	all := s.Products()
	if q == "" {
		return all
	}

	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			(p.SellerName != "" && strings.Contains(strings.ToLower(p.SellerName), q)) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.backend.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// MyProducts lists the products of the signed-in user.
func (s *Service) MyProducts(ctx context.Context) ([]models.Product, error) {
	u, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("my products: %w", err)
	}

	out := make([]models.Product, 0)
	for _, p := range products {
		if p.UserID == u.ID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Suggestions returns up to MaxSuggestions other products in storage order.
func (s *Service) Suggestions(ctx context.Context, current *models.Product) ([]models.Product, error) {
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggestions: %w", err)
	}

	out := make([]models.Product, 0, MaxSuggestions)
	for _, p := range products {
		if len(out) == MaxSuggestions {
			break
		}
		if current != nil && p.ID == current.ID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) requireUser() (*models.User, error) {
	u := s.session.Current()
	if u == nil {
		return nil, common.ErrNotSignedIn
	}
	return u, nil
}
