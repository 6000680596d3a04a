package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
)

// CreateOrUpdate saves fields for the signed-in seller. With an empty
// editTargetID a new product is created with the seller's name snapshotted;
// otherwise the target is merged (images kept when none are given) after an
// ownership check. Pending and banned accounts cannot sell.
func (s *Service) CreateOrUpdate(ctx context.Context, fields models.ProductFields, editTargetID string) (*models.Product, error) {
	u, err := s.requireSeller()
	if err != nil {
		return nil, err
	}

	key := "product:" + editTargetID
	if editTargetID == "" {
		key = "new-product:" + u.ID
	}
	release, err := s.guard.acquire(key)
	if err != nil {
		return nil, err
	}
	defer release()

	fields, err = s.normalize(ctx, u, fields)
	if err != nil {
		return nil, err
	}

	var saved *models.Product
	if editTargetID == "" {
		saved, err = s.backend.CreateProduct(ctx, models.NewProduct(u, fields))
		if err != nil {
			return nil, fmt.Errorf("create product: %w", err)
		}
		s.logger.Info(ctx, "product created", "id", saved.ID, "owner", u.ID)
	} else {
		if _, err := s.owned(ctx, u, editTargetID); err != nil {
			return nil, err
		}
		saved, err = s.backend.UpdateProduct(ctx, editTargetID, models.ProductPatch{ProductFields: fields, SellerName: u.Name})
		if err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
		s.logger.Info(ctx, "product updated", "id", saved.ID)
	}

	s.reload(ctx)
	return saved, nil
}

// BeginEdit loads id for editing by its owner.
func (s *Service) BeginEdit(ctx context.Context, id string) (*models.Product, error) {
	u, err := s.requireSeller()
	if err != nil {
		return nil, err
	}
	return s.owned(ctx, u, id)
}

// Delete removes a product owned by the signed-in user once confirm accepts.
// A declined confirmation returns (false, nil).
func (s *Service) Delete(ctx context.Context, id string, confirm common.ConfirmFunc) (bool, error) {
	u, err := s.requireUser()
	if err != nil {
		return false, err
	}
	if _, err := s.owned(ctx, u, id); err != nil {
		return false, err
	}
	if !confirm("Êtes-vous sûr de vouloir supprimer ce produit ?") {
		return false, nil
	}

	release, err := s.guard.acquire("product:" + id)
	if err != nil {
		return false, err
	}
	defer release()

	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	s.logger.Info(ctx, "product deleted", "id", id)

	s.reload(ctx)
	return true, nil
}

func (s *Service) requireSeller() (*models.User, error) {
	u, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	switch u.Status.Effective() {
	case models.StatusPending:
		return nil, common.ErrPending
	case models.StatusBanned:
		return nil, common.ErrBanned
	}
	return u, nil
}

// owned fetches id and checks it belongs to u.
func (s *Service) owned(ctx context.Context, u *models.User, id string) (*models.Product, error) {
	p, err := s.backend.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p.UserID != u.ID {
		return nil, fmt.Errorf("product %s: %w", id, common.ErrForbidden)
	}
	return p, nil
}

func (s *Service) normalize(ctx context.Context, u *models.User, f models.ProductFields) (models.ProductFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.WhatsApp = strings.TrimSpace(f.WhatsApp)

	if f.Name == "" {
		return f, fmt.Errorf("product name is required: %w", common.ErrValidation)
	}
	if f.Price < 0 {
		return f, fmt.Errorf("price must not be negative: %w", common.ErrValidation)
	}
	if f.WhatsApp == "" {
		f.WhatsApp = u.WhatsApp
	}

	images := make([]string, 0, len(f.Images))
	for _, img := range f.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if s.resolver != nil && len(images) > 0 {
		resolved, err := s.resolver.Resolve(ctx, images)
		if err != nil {
			return f, fmt.Errorf("store images: %w", err)
		}
		images = resolved
	}
	f.Images = images
	return f, nil
}

// reload refreshes the cache after a write; a failure only leaves it stale.
func (s *Service) reload(ctx context.Context) {
	if _, err := s.Load(ctx); err != nil {
		s.logger.Warn(ctx, "catalog reload failed", "error", err)
	}
}
