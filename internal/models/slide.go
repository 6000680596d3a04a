package models

// Slide is one promotional carousel entry.
type Slide struct {
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DefaultSlides is the built-in carousel used until an administrator saves
// a custom set.
func DefaultSlides() []Slide {
	return []Slide{
		{
			Image:       "https://images.unsplash.com/photo-1607082348824-0a96f2a4b9da?w=1200&h=400&fit=crop",
			Title:       "Offres Exceptionnelles",
			Description: "Découvrez nos meilleures promotions",
		},
		{
			Image:       "https://images.unsplash.com/photo-1607083206968-13611e3d76db?w=1200&h=400&fit=crop",
			Title:       "Nouveautés du Moment",
			Description: "Les derniers produits ajoutés",
		},
		{
			Image:       "https://images.unsplash.com/photo-1607082349566-187342175e2f?w=1200&h=400&fit=crop",
			Title:       "Vendez Facilement",
			Description: "Rejoignez notre plateforme dès maintenant",
		},
	}
}
