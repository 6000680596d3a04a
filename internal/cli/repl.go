package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a recording stub.
type execIface interface {
	signedIn() bool
	admin() bool
	flush()

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AdminLogin(ctx context.Context) error
	AdminLogout(ctx context.Context) error

	List(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Gallery(ctx context.Context, step int) error
	Contact(ctx context.Context) error

	Dashboard(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error

	Users(ctx context.Context, args []string) error
	Approve(ctx context.Context, args []string) error
	Ban(ctx context.Context, args []string) error
	Unban(ctx context.Context, args []string) error
	Products(ctx context.Context) error
	Remove(ctx context.Context, args []string) error

	Slides(ctx context.Context) error
	SlideAdd(ctx context.Context) error
	SlideEdit(ctx context.Context, args []string) error
	SlideDelete(ctx context.Context, args []string) error
	SlideGo(ctx context.Context, args []string) error
}

const (
	helpGuest = "Commandes : list, search <texte>, clear, show <id>, next, prev, contact, slides, register, login, admin, exit"
	helpUser  = "Commandes : list, search <texte>, clear, show <id>, next, prev, contact, slides, mine, add, edit <id>, delete <id>, logout, admin, exit"
	helpAdmin = "Administration : users [all|pending|approved|banned], approve <id>, ban <id>, unban <id>, products, remove <id>, " +
		"slide-add, slide-edit <n>, slide-del <n>, goto <n>, admin-logout"
)

// runREPL reads one command per line from reader and dispatches it to a.
// Handler errors are not reported here: handlers surface them as notices,
// which are printed after every command. The loop exits on EOF, on "exit"
// or "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("marché %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.signedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}
			if a.admin() {
				printlnFn(helpAdmin)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "admin":
			_ = a.AdminLogin(ctx)
		case "admin-logout":
			_ = a.AdminLogout(ctx)

		case "l", "list", "home":
			_ = a.List(ctx)
		case "search":
			_ = a.Search(ctx, args)
		case "clear":
			_ = a.Search(ctx, nil)
		case "show":
			_ = a.Show(ctx, args)
		case "next":
			_ = a.Gallery(ctx, 1)
		case "prev":
			_ = a.Gallery(ctx, -1)
		case "contact":
			_ = a.Contact(ctx)

		case "mine", "dashboard":
			_ = a.Dashboard(ctx)
		case "add":
			_ = a.Add(ctx)
		case "edit":
			_ = a.Edit(ctx, args)
		case "delete":
			_ = a.Delete(ctx, args)

		case "users":
			_ = a.Users(ctx, args)
		case "approve":
			_ = a.Approve(ctx, args)
		case "ban":
			_ = a.Ban(ctx, args)
		case "unban":
			_ = a.Unban(ctx, args)
		case "products":
			_ = a.Products(ctx)
		case "remove":
			_ = a.Remove(ctx, args)

		case "slides":
			_ = a.Slides(ctx)
		case "slide-add":
			_ = a.SlideAdd(ctx)
		case "slide-edit":
			_ = a.SlideEdit(ctx, args)
		case "slide-del":
			_ = a.SlideDelete(ctx, args)
		case "goto":
			_ = a.SlideGo(ctx, args)

		case "exit", "quit":
			printlnFn("Au revoir !")
			return

		default:
			printlnFn("Commande inconnue :", cmd)
		}
		a.flush()
	}
}
