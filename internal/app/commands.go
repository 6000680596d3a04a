package app

import (
	"errors"

	"github.com/AbdoulayeSG/site-antigravi/internal/catalog"
	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"github.com/AbdoulayeSG/site-antigravi/internal/moderation"
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	WhatsApp string
	Password []byte
	Confirm  []byte
}

func (c *Controller) Register(in RegisterInput) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	if _, err := c.session.RegisterConfirmed(ctx, in.Name, in.Email, in.WhatsApp, in.Password, in.Confirm); err != nil {
		c.fail(ctx, err)
		return false
	}
	c.success("Inscription réussie ! Votre compte est en attente de validation par l'administrateur.")
	c.navigate(ViewLogin)
	return true
}

func (c *Controller) Login(email string, password []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	res, err := c.session.Login(ctx, email, password)
	if err != nil {
		c.fail(ctx, err)
		return false
	}
	if res.Warning {
		c.warn("Connexion réussie. Votre compte est en attente de validation par l'administrateur.")
	} else {
		c.success("Connexion réussie ! Bienvenue " + res.User.Name)
	}
	c.navigate(ViewHome)
	return true
}

func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	if err := c.session.Logout(ctx); err != nil {
		c.fail(ctx, err)
		return
	}
	c.success("Déconnexion réussie")
	c.navigate(ViewHome)
}

func (c *Controller) AdminLogin(email string, password []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.AdminLogin(email, password); err != nil {
		c.alert("Identifiants administrateur incorrects")
		return false
	}
	c.success("Connexion administrateur réussie")
	c.navigate(ViewAdmin)
	return true
}

func (c *Controller) AdminLogout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.AdminLogout()
	c.success("Déconnexion administrateur réussie")
	c.navigate(ViewHome)
}

// Catalog returns the loaded catalog filtered by the current query.
func (c *Controller) Catalog() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Search(c.state.Query)
}

// Search sets the query and returns the matching products. It never hits
// the backend.
func (c *Controller) Search(query string) []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = query
	return c.catalog.Search(query)
}

func (c *Controller) ClearSearch() []models.Product {
	return c.Search("")
}

// Reload re-reads the catalog from the backend.
func (c *Controller) Reload() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	if _, err := c.catalog.Load(ctx); err != nil {
		c.fail(ctx, err)
	}
	return c.catalog.Search(c.state.Query)
}

// SellerName is the label shown for the seller of p.
func (c *Controller) SellerName(p *models.Product) string {
	return c.catalog.SellerName(p)
}

// BeginAdd opens an empty product form.
func (c *Controller) BeginAdd() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.navigate(ViewAddProduct)
	return c.state.View == ViewAddProduct
}

// EditProduct opens the form for a product owned by the signed-in user.
func (c *Controller) EditProduct(id string) (*models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.navigate(ViewAddProduct)
	if c.state.View != ViewAddProduct {
		return nil, false
	}
	ctx := c.viewCtx

	p, err := c.catalog.BeginEdit(ctx, id)
	if err != nil {
		c.fail(ctx, err)
		c.navigate(ViewDashboard)
		return nil, false
	}
	c.state.EditTarget = id
	return p, true
}

// SaveProduct creates a product, or updates the edit target when one is set.
func (c *Controller) SaveProduct(fields models.ProductFields) (*models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx
	target := c.state.EditTarget

	p, err := c.catalog.CreateOrUpdate(ctx, fields, target)
	if err != nil {
		c.fail(ctx, err)
		return nil, false
	}
	if target == "" {
		c.success("Produit ajouté avec succès !")
	} else {
		c.success("Produit modifié avec succès !")
	}
	c.navigate(ViewDashboard)
	return p, true
}

func (c *Controller) DeleteProduct(id string, confirm common.ConfirmFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	done, err := c.catalog.Delete(ctx, id, confirm)
	if err != nil {
		c.fail(ctx, err)
		return false
	}
	if done {
		c.success("Produit supprimé avec succès")
	}
	return done
}

// MyProducts lists the dashboard products of the signed-in user.
func (c *Controller) MyProducts() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	products, err := c.catalog.MyProducts(ctx)
	if err != nil {
		c.fail(ctx, err)
		return nil
	}
	return products
}

// ShowProduct opens the detail view and returns the product with its
// suggestions.
func (c *Controller) ShowProduct(id string) (*models.Product, []models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.navigate(ViewProductDetail)
	ctx := c.viewCtx

	p, err := c.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.alert("Produit introuvable")
		} else {
			c.fail(ctx, err)
		}
		c.navigate(ViewHome)
		return nil, nil, false
	}
	c.state.Detail = p
	c.state.GalleryIndex = 0

	suggestions, err := c.catalog.Suggestions(ctx, p)
	if err != nil {
		c.fail(ctx, err)
	}
	d := *p
	return &d, suggestions, true
}

// Gallery returns the images of the detail product and the selected index.
func (c *Controller) Gallery() ([]string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Detail == nil {
		return nil, 0
	}
	return catalog.Gallery(c.state.Detail), c.state.GalleryIndex
}

func (c *Controller) GalleryNext() int { return c.GallerySet(c.galleryIndex() + 1) }

func (c *Controller) GalleryPrevious() int { return c.GallerySet(c.galleryIndex() - 1) }

// GallerySet selects image i of the detail product with wraparound.
func (c *Controller) GallerySet(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Detail == nil {
		return 0
	}
	n := len(catalog.Gallery(c.state.Detail))
	c.state.GalleryIndex = ((i % n) + n) % n
	return c.state.GalleryIndex
}

func (c *Controller) galleryIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.GalleryIndex
}

// Contact returns the WhatsApp link for the detail product.
func (c *Controller) Contact() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Detail == nil {
		c.alert("Produit introuvable")
		return "", false
	}
	if c.state.Detail.WhatsApp == "" {
		c.warn("Ce vendeur n'a pas renseigné de numéro WhatsApp")
		return "", false
	}
	return catalog.ContactLink(c.state.Detail), true
}

// Users lists users for the admin panel.
func (c *Controller) Users(filter moderation.Filter) []models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	users, err := c.moderation.ListUsers(ctx, filter)
	if err != nil {
		c.fail(ctx, err)
		return nil
	}
	return users
}

func (c *Controller) ApproveUser(id string) bool {
	return c.moderate(func() error {
		return c.moderation.ApproveUser(c.viewCtx, id)
	}, "Utilisateur approuvé")
}

func (c *Controller) UnbanUser(id string) bool {
	return c.moderate(func() error {
		return c.moderation.UnbanUser(c.viewCtx, id)
	}, "Utilisateur débanni")
}

func (c *Controller) BanUser(id string, confirm common.ConfirmFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	done, err := c.moderation.BanUser(ctx, id, confirm)
	if err != nil {
		c.fail(ctx, err)
		return false
	}
	if done {
		c.success("Utilisateur banni")
		c.refreshSession()
	}
	return done
}

// AdminProducts lists every product for the admin panel.
func (c *Controller) AdminProducts() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	products, err := c.moderation.ListProducts(ctx)
	if err != nil {
		c.fail(ctx, err)
		return nil
	}
	return products
}

func (c *Controller) AdminDeleteProduct(id string, confirm common.ConfirmFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.viewCtx

	done, err := c.moderation.DeleteProduct(ctx, id, confirm)
	if err != nil {
		c.fail(ctx, err)
		return false
	}
	if done {
		c.success("Produit supprimé")
		if _, err := c.catalog.Load(ctx); err != nil {
			c.fail(ctx, err)
		}
	}
	return done
}

func (c *Controller) moderate(op func() error, okText string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := op(); err != nil {
		c.fail(c.viewCtx, err)
		return false
	}
	c.success(okText)
	c.refreshSession()
	return true
}

// refreshSession applies moderation changes to the signed-in user, if any.
// Must be called with mu held.
func (c *Controller) refreshSession() {
	if err := c.session.Refresh(c.viewCtx); err != nil {
		c.fail(c.viewCtx, err)
	}
}

func (c *Controller) Slides() ([]models.Slide, int) {
	return c.carousel.Slides(), c.carousel.Active()
}

func (c *Controller) AddSlide(s models.Slide) bool {
	return c.adminSlide(func() error { return c.carousel.Add(c.viewCtx, s) }, "Slide ajouté")
}

func (c *Controller) UpdateSlide(i int, s models.Slide) bool {
	return c.adminSlide(func() error { return c.carousel.Update(c.viewCtx, i, s) }, "Slide modifié")
}

func (c *Controller) RemoveSlide(i int, confirm common.ConfirmFunc) bool {
	removed := false
	ok := c.adminSlide(func() error {
		var err error
		removed, err = c.carousel.Remove(c.viewCtx, i, confirm)
		return err
	}, "")
	if ok && removed {
		c.success("Slide supprimé")
	}
	return ok && removed
}

func (c *Controller) GoToSlide(k int) int {
	c.carousel.GoTo(k)
	return c.carousel.Active()
}

func (c *Controller) NextSlide() int {
	c.carousel.Next()
	return c.carousel.Active()
}

func (c *Controller) PreviousSlide() int {
	c.carousel.Previous()
	return c.carousel.Active()
}

func (c *Controller) adminSlide(op func() error, okText string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.IsAdmin() {
		c.fail(c.viewCtx, common.ErrAdminRequired)
		return false
	}
	if err := op(); err != nil {
		c.fail(c.viewCtx, err)
		return false
	}
	if okText != "" {
		c.success(okText)
	}
	return true
}
