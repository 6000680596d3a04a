package cli

import (
	"context"
	"fmt"

	"github.com/AbdoulayeSG/site-antigravi/internal/app"
	"github.com/AbdoulayeSG/site-antigravi/internal/common"
)

func (a *App) Register(ctx context.Context) error {
	a.ctrl.Navigate(app.ViewRegister)

	name, err := GetSimpleText(a.reader, "Nom complet", a.w)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.w)
	if err != nil {
		return err
	}
	whatsapp, err := GetSimpleText(a.reader, "Numéro WhatsApp", a.w)
	if err != nil {
		return err
	}
	password, err := GetPassword("Mot de passe", a.w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := GetPassword("Confirmer le mot de passe", a.w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	a.ctrl.Register(app.RegisterInput{
		Name:     name,
		Email:    email,
		WhatsApp: whatsapp,
		Password: password,
		Confirm:  confirm,
	})
	return nil
}

func (a *App) Login(ctx context.Context) error {
	a.ctrl.Navigate(app.ViewLogin)

	email, err := GetSimpleText(a.reader, "Email", a.w)
	if err != nil {
		return err
	}
	password, err := GetPassword("Mot de passe", a.w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	a.ctrl.Login(email, password)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.ctrl.Logout()
	return nil
}

func (a *App) AdminLogin(ctx context.Context) error {
	if a.admin() {
		a.ctrl.Navigate(app.ViewAdmin)
		fmt.Fprintln(a.w, "Déjà connecté en tant qu'administrateur")
		return nil
	}
	a.ctrl.Navigate(app.ViewAdminLogin)

	email, err := GetSimpleText(a.reader, "Email administrateur", a.w)
	if err != nil {
		return err
	}
	password, err := GetPassword("Mot de passe administrateur", a.w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	a.ctrl.AdminLogin(email, password)
	return nil
}

func (a *App) AdminLogout(ctx context.Context) error {
	a.ctrl.AdminLogout()
	return nil
}
