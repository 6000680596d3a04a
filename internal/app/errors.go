package app

import (
	"context"
	"errors"

	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/media"
)

type errorNotice struct {
	target error
	level  Level
	text   string
}

// errorNotices maps sentinel errors to what the user is shown. The first
// match wins.
var errorNotices = []errorNotice{
	{common.ErrDuplicateEmail, LevelError, "Cet email est déjà utilisé"},
	{common.ErrInvalidCredentials, LevelError, "Email ou mot de passe incorrect"},
	{common.ErrPasswordMismatch, LevelError, "Les mots de passe ne correspondent pas"},
	{common.ErrBanned, LevelError, "Votre compte a été banni. Contactez l'administrateur."},
	{common.ErrPending, LevelWarning, "Votre compte est en attente de validation par l'administrateur"},
	{common.ErrNotSignedIn, LevelWarning, "Veuillez vous connecter"},
	{common.ErrAdminRequired, LevelError, "Accès administrateur requis"},
	{common.ErrForbidden, LevelError, "Vous n'êtes pas autorisé à modifier ce produit"},
	{common.ErrNotFound, LevelError, "Élément introuvable"},
	{common.ErrValidation, LevelError, "Veuillez remplir correctement tous les champs"},
	{media.ErrMalformedDataURI, LevelError, "Image invalide"},
	{common.ErrBusy, LevelWarning, "Opération déjà en cours, veuillez patienter"},
	{common.ErrBackendUnavailable, LevelError, "Service indisponible, veuillez réessayer"},
}

const genericErrorText = "Une erreur est survenue"

// noticeFor returns the notice for err; ok is false when err should stay
// silent (a cancelled view).
func noticeFor(err error) (level Level, text string, ok bool) {
	if errors.Is(err, context.Canceled) {
		return "", "", false
	}
	for _, n := range errorNotices {
		if errors.Is(err, n.target) {
			return n.level, n.text, true
		}
	}
	return LevelError, genericErrorText, true
}

// fail converts err into a notice and logs it; it is the end of the line for
// every error a command produces.
func (c *Controller) fail(ctx context.Context, err error) {
	level, text, ok := noticeFor(err)
	if !ok {
		c.logger.Debug(ctx, "dropped result of a cancelled view", "error", err)
		return
	}

	if text == genericErrorText || errors.Is(err, common.ErrBackendUnavailable) {
		c.logger.Error(ctx, "command failed", "error", err)
	} else {
		c.logger.Debug(ctx, "command rejected", "error", err)
	}
	c.notify(level, text)
}
