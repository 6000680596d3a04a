package models

import (
	"encoding/json"
	"time"
)

// Product is a listing owned by a single user.
type Product struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId"`
	// SellerName is snapshotted from the owner when the product is written.
	SellerName  string   `json:"sellerName,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	WhatsApp    string   `json:"whatsapp"`
	Images      []string `json:"images"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts the legacy single "image" field as a one-element
// image list.
func (p *Product) UnmarshalJSON(b []byte) error {
	type alias Product
	aux := struct {
		*alias
		Image string `json:"image,omitempty"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if len(p.Images) == 0 && aux.Image != "" {
		p.Images = []string{aux.Image}
	}
	return nil
}

// Cover returns the representative image, or placeholder when there is none.
func (p *Product) Cover(placeholder string) string {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return placeholder
	}
	return p.Images[0]
}

// ProductFields are the user-editable parts of a product.
type ProductFields struct {
	Name        string
	Description string
	Price       float64
	WhatsApp    string
	Images      []string
}

// ProductPatch is a merge applied by UpdateProduct. Images replace the
// current list only when non-empty; an empty SellerName keeps the stored one.
type ProductPatch struct {
	ProductFields
	SellerName string
}

// Apply merges the patch into p and stamps UpdatedAt.
func (patch ProductPatch) Apply(p *Product, at time.Time) {
	p.Name = patch.Name
	p.Description = patch.Description
	p.Price = patch.Price
	p.WhatsApp = patch.WhatsApp
	if len(patch.Images) > 0 {
		p.Images = append([]string(nil), patch.Images...)
	}
	if patch.SellerName != "" {
		p.SellerName = patch.SellerName
	}
	t := at
	p.UpdatedAt = &t
}

// NewProduct builds an unsaved product owned by owner.
func NewProduct(owner *User, f ProductFields) *Product {
	return &Product{
		UserID:      owner.ID,
		SellerName:  owner.Name,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		WhatsApp:    f.WhatsApp,
		Images:      append([]string{}, f.Images...),
	}
}
