package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AbdoulayeSG/site-antigravi/internal/app"
)

var errUsage = errors.New("usage")

type App struct {
	ctrl   *app.Controller
	reader *bufio.Reader
	w      io.Writer
}

func NewApp(ctrl *app.Controller, in io.Reader, w io.Writer) *App {
	return &App{ctrl: ctrl, reader: bufio.NewReader(in), w: w}
}

// Run starts the controller and blocks in the REPL until the user exits or
// ctx is done. adminFragment opens the admin login first.
func (a *App) Run(ctx context.Context, adminFragment bool) {
	a.ctrl.OnCatalogChange(func() {
		printlnFn("(catalogue mis à jour)")
	})
	a.ctrl.Start(ctx, adminFragment)
	defer a.ctrl.Stop()

	printlnFn("Bienvenue sur le marché (tapez 'help' pour la liste des commandes)")
	a.flush()
	if adminFragment {
		_ = a.AdminLogin(ctx)
		a.flush()
	}
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) signedIn() bool { return a.ctrl.Navigation().SignedIn }

func (a *App) admin() bool { return a.ctrl.Navigation().Admin }

func (a *App) status() string {
	nav := a.ctrl.Navigation()
	parts := []string{"invité"}
	if nav.SignedIn {
		parts[0] = nav.Name
	}
	if nav.Admin {
		parts = append(parts, "admin")
	}
	parts = append(parts, string(a.ctrl.State().View))
	return "(" + strings.Join(parts, ", ") + ")"
}

// flush prints the notices raised since the last flush.
func (a *App) flush() {
	for _, n := range a.ctrl.TakeNotices() {
		fmt.Fprintf(a.w, "[%s] %s\n", noticeTag(n.Level), n.Text)
	}
}

func noticeTag(l app.Level) string {
	switch l {
	case app.LevelSuccess:
		return "ok"
	case app.LevelWarning:
		return "attention"
	default:
		return "erreur"
	}
}

func (a *App) idArg(args []string, usage string) (string, error) {
	if len(args) == 0 {
		fmt.Fprintln(a.w, "Usage :", usage)
		return "", errUsage
	}
	return args[0], nil
}

// indexArg parses a 1-based position and returns it 0-based.
func (a *App) indexArg(args []string, usage string) (int, error) {
	if len(args) == 0 {
		fmt.Fprintln(a.w, "Usage :", usage)
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Fprintln(a.w, "Numéro invalide :", args[0])
		return 0, errUsage
	}
	return n - 1, nil
}
