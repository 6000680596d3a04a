package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder images used when a product has none.
const (
	PlaceholderCard   = "https://via.placeholder.com/300x220?text=Produit"
	PlaceholderThumb  = "https://via.placeholder.com/100?text=Produit"
	PlaceholderDetail = "https://via.placeholder.com/600?text=Produit"
)

const (
	SellerDefault = "Vendeur"
	SellerUnknown = "Vendeur inconnu"
)

const contactTemplate = "Bonjour, je suis intéressé(e) par votre produit :\n\n" +
	"📦 %s\n" +
	"💰 %s FCFA\n\n" +
	"Merci de me contacter."

var pricePrinter = message.NewPrinter(language.French)

// FormatPrice renders price with French digit grouping. Group and decimal
// spacing use plain ASCII spaces: 15000 -> "15 000".
func FormatPrice(price float64) string {
	s := pricePrinter.Sprint(number.Decimal(price))
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

// SellerName is the label shown for the seller of p: the name stored on the
// product, else the owner's current name, else a generic label.
func (s *Service) SellerName(p *models.Product) string {
	if p.SellerName != "" {
		return p.SellerName
	}
	if p.UserID == "" {
		return SellerDefault
	}

	s.mu.RLock()
	name, ok := s.sellers[p.UserID]
	s.mu.RUnlock()
	if ok && name != "" {
		return name
	}
	return SellerUnknown
}

// ContactLink builds the WhatsApp deep link for p.
func ContactLink(p *models.Product) string {
	phone := strings.Join(strings.Fields(p.WhatsApp), "")
	msg := fmt.Sprintf(contactTemplate, p.Name, FormatPrice(p.Price))
	return "https://wa.me/" + phone + "?text=" + encodeURIComponent(msg)
}

// encodeURIComponent escapes spaces as %20 rather than "+".
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Cover returns the first image of p or placeholder.
func Cover(p *models.Product, placeholder string) string {
	return p.Cover(placeholder)
}

// Gallery returns the images of p, or the detail placeholder when there are none.
func Gallery(p *models.Product) []string {
	if len(p.Images) == 0 {
		return []string{PlaceholderDetail}
	}
	return append([]string{}, p.Images...)
}
