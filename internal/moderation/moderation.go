// Package moderation holds the admin-only operations of the user lifecycle
// (pending, approved, banned) and the admin product removal.
package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"github.com/AbdoulayeSG/site-antigravi/internal/storage"
)

// Filter selects users by effective status. FilterAll keeps everyone.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterPending  Filter = Filter(models.StatusPending)
	FilterApproved Filter = Filter(models.StatusApproved)
	FilterBanned   Filter = Filter(models.StatusBanned)
)

// ParseFilter maps user input to a Filter; unknown values mean FilterAll.
func ParseFilter(s string) Filter {
	switch f := Filter(s); f {
	case FilterPending, FilterApproved, FilterBanned:
		return f
	}
	return FilterAll
}

// Authorizer reports whether the caller currently holds admin state.
type Authorizer interface {
	IsAdmin() bool
}

type Service struct {
	backend storage.Backend
	auth    Authorizer
	logger  logging.Logger
	now     func() time.Time
}

func NewService(backend storage.Backend, auth Authorizer, logger logging.Logger) *Service {
	return &Service{
		backend: backend,
		auth:    auth,
		logger:  logger.With("module", "moderation"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) requireAdmin() error {
	if !s.auth.IsAdmin() {
		return common.ErrAdminRequired
	}
	return nil
}

// ListUsers returns the users matching filter, in storage order. Credential
// hashes are never returned.
func (s *Service) ListUsers(ctx context.Context, filter Filter) ([]models.User, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}

	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if filter != FilterAll && filter != "" && Filter(u.Status.Effective()) != filter {
			continue
		}
		u.Password = ""
		out = append(out, u)
	}
	return out, nil
}

// CountByStatus returns how many users have each effective status.
func (s *Service) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	users, err := s.ListUsers(ctx, FilterAll)
	if err != nil {
		return nil, err
	}
	counts := map[models.Status]int{}
	for _, u := range users {
		counts[u.Status.Effective()]++
	}
	return counts, nil
}

func (s *Service) ApproveUser(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.StatusApproved)
}

// BanUser bans id once confirm accepts. A declined confirmation returns
// (false, nil) and changes nothing.
func (s *Service) BanUser(ctx context.Context, id string, confirm common.ConfirmFunc) (bool, error) {
	if err := s.requireAdmin(); err != nil {
		return false, err
	}
	if !confirm("Êtes-vous sûr de vouloir bannir cet utilisateur ?") {
		return false, nil
	}
	if err := s.setStatus(ctx, id, models.StatusBanned); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) UnbanUser(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.StatusApproved)
}

// ListProducts returns every product regardless of owner.
func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// DeleteProduct removes any product, bypassing the ownership check.
func (s *Service) DeleteProduct(ctx context.Context, id string, confirm common.ConfirmFunc) (bool, error) {
	if err := s.requireAdmin(); err != nil {
		return false, err
	}
	if !confirm("Êtes-vous sûr de vouloir supprimer ce produit ?") {
		return false, nil
	}
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return false, fmt.Errorf("admin delete product: %w", err)
	}
	s.logger.Info(ctx, "product removed by admin", "id", id)
	return true, nil
}

func (s *Service) setStatus(ctx context.Context, id string, status models.Status) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.backend.UpdateUserStatus(ctx, id, status, s.now()); err != nil {
		return fmt.Errorf("set status %s of %s: %w", status, id, err)
	}
	s.logger.Info(ctx, "user status changed", "id", id, "status", status)
	return nil
}
