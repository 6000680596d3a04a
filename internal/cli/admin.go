package cli

import (
	"context"
	"fmt"

	"github.com/AbdoulayeSG/site-antigravi/internal/app"
	"github.com/AbdoulayeSG/site-antigravi/internal/catalog"
	"github.com/AbdoulayeSG/site-antigravi/internal/moderation"
)

func (a *App) Users(ctx context.Context, args []string) error {
	a.ctrl.Navigate(app.ViewAdmin)
	filter := moderation.FilterAll
	if len(args) > 0 {
		filter = moderation.ParseFilter(args[0])
	}

	users := a.ctrl.Users(filter)
	if len(users) == 0 {
		fmt.Fprintln(a.w, "Aucun utilisateur")
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(a.w, "[%s] %s <%s> %s - %s\n", u.ID, u.Name, u.Email, u.WhatsApp, u.Status.Effective())
	}
	return nil
}

func (a *App) Approve(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "approve <id>")
	if err != nil {
		return err
	}
	a.ctrl.ApproveUser(id)
	return nil
}

func (a *App) Ban(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "ban <id>")
	if err != nil {
		return err
	}
	a.ctrl.BanUser(id, confirmer(a.reader, a.w))
	return nil
}

func (a *App) Unban(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "unban <id>")
	if err != nil {
		return err
	}
	a.ctrl.UnbanUser(id)
	return nil
}

func (a *App) Products(ctx context.Context) error {
	a.ctrl.Navigate(app.ViewAdmin)
	products := a.ctrl.AdminProducts()
	if len(products) == 0 {
		fmt.Fprintln(a.w, "Aucun produit")
		return nil
	}
	for i := range products {
		p := &products[i]
		fmt.Fprintf(a.w, "[%s] %s - %s FCFA - %s\n", p.ID, p.Name, catalog.FormatPrice(p.Price), a.ctrl.SellerName(p))
	}
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "remove <id>")
	if err != nil {
		return err
	}
	a.ctrl.AdminDeleteProduct(id, confirmer(a.reader, a.w))
	return nil
}
