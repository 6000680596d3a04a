package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/AbdoulayeSG/site-antigravi/internal/app"
	"github.com/AbdoulayeSG/site-antigravi/internal/catalog"
	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
)

func (a *App) List(ctx context.Context) error {
	a.ctrl.Navigate(app.ViewHome)
	if slide, ok := a.currentSlide(); ok {
		fmt.Fprintf(a.w, "* %s : %s\n", slide.Title, slide.Description)
	}
	a.printProducts(a.ctrl.Catalog())
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	a.printProducts(a.ctrl.Search(strings.Join(args, " ")))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "show <id>")
	if err != nil {
		return err
	}
	p, suggestions, ok := a.ctrl.ShowProduct(id)
	if !ok {
		return nil
	}

	fmt.Fprintf(a.w, "%s\n%s FCFA\nVendeur : %s\n", p.Name, catalog.FormatPrice(p.Price), a.ctrl.SellerName(p))
	if p.Description != "" {
		fmt.Fprintln(a.w, p.Description)
	}
	a.printGallery()
	if len(suggestions) > 0 {
		fmt.Fprintln(a.w, "Vous aimerez aussi :")
		a.printProducts(suggestions)
	}
	return nil
}

// Gallery moves the detail gallery by step images.
func (a *App) Gallery(ctx context.Context, step int) error {
	if step < 0 {
		a.ctrl.GalleryPrevious()
	} else {
		a.ctrl.GalleryNext()
	}
	a.printGallery()
	return nil
}

func (a *App) Contact(ctx context.Context) error {
	if link, ok := a.ctrl.Contact(); ok {
		fmt.Fprintln(a.w, link)
	}
	return nil
}

func (a *App) Dashboard(ctx context.Context) error {
	a.ctrl.Navigate(app.ViewDashboard)
	if a.ctrl.State().View != app.ViewDashboard {
		return nil
	}
	nav := a.ctrl.Navigation()
	fmt.Fprintf(a.w, "Bienvenue %s (WhatsApp : %s)\n", nav.Name, nav.WhatsApp)

	products := a.ctrl.MyProducts()
	if len(products) == 0 {
		fmt.Fprintln(a.w, "Vous n'avez pas encore de produits")
		return nil
	}
	a.printProducts(products)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	if !a.ctrl.BeginAdd() {
		return nil
	}
	fields, err := a.readProduct(nil)
	if err != nil {
		return err
	}
	a.ctrl.SaveProduct(fields)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "edit <id>")
	if err != nil {
		return err
	}
	p, ok := a.ctrl.EditProduct(id)
	if !ok {
		return nil
	}
	fields, err := a.readProduct(p)
	if err != nil {
		return err
	}
	a.ctrl.SaveProduct(fields)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "delete <id>")
	if err != nil {
		return err
	}
	a.ctrl.DeleteProduct(id, confirmer(a.reader, a.w))
	return nil
}

// readProduct prompts for the product form. With cur set, empty answers keep
// the current values.
func (a *App) readProduct(cur *models.Product) (models.ProductFields, error) {
	var f models.ProductFields
	if cur != nil {
		f = models.ProductFields{Name: cur.Name, Description: cur.Description, Price: cur.Price, WhatsApp: cur.WhatsApp, Images: cur.Images}
	}

	var err error
	if f.Name, err = GetWithDefault(a.reader, "Nom du produit", f.Name, a.w); err != nil {
		return f, err
	}
	if f.Description, err = GetWithDefault(a.reader, "Description", f.Description, a.w); err != nil {
		return f, err
	}

	def := ""
	if cur != nil {
		def = strconv.FormatFloat(cur.Price, 'f', -1, 64)
	}
	price, err := GetWithDefault(a.reader, "Prix (FCFA)", def, a.w)
	if err != nil {
		return f, err
	}
	if f.Price, err = strconv.ParseFloat(strings.ReplaceAll(price, " ", ""), 64); err != nil {
		fmt.Fprintln(a.w, "Prix invalide :", price)
		return f, common.ErrValidation
	}

	if f.WhatsApp, err = GetWithDefault(a.reader, "Numéro WhatsApp (vide pour celui du compte)", f.WhatsApp, a.w); err != nil {
		return f, err
	}

	prompt := "Images (une URL ou data URI par ligne)"
	if cur != nil {
		prompt = "Images (vide pour conserver les actuelles)"
	}
	images, err := GetLines(a.reader, prompt, a.w)
	if err != nil {
		return f, err
	}
	if len(images) > 0 || cur == nil {
		f.Images = images
	}
	return f, nil
}

func (a *App) printProducts(products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(a.w, "Aucun produit trouvé")
		return
	}
	for i := range products {
		p := &products[i]
		fmt.Fprintf(a.w, "[%s] %s - %s FCFA - %s - %s\n",
			p.ID, p.Name, catalog.FormatPrice(p.Price), a.ctrl.SellerName(p), catalog.Cover(p, catalog.PlaceholderCard))
	}
}

func (a *App) printGallery() {
	images, i := a.ctrl.Gallery()
	if len(images) == 0 {
		return
	}
	fmt.Fprintf(a.w, "Image %d/%d : %s\n", i+1, len(images), images[i])
}
