// Package app is the controller between the rendering surface and the
// marketplace services. It owns the application state (current view, edit
// target, search query, product detail), serialises commands, converts
// errors into transient notices, and cancels the work of a view when the
// user navigates away.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/carousel"
	"github.com/AbdoulayeSG/site-antigravi/internal/catalog"
	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"github.com/AbdoulayeSG/site-antigravi/internal/moderation"
	"github.com/AbdoulayeSG/site-antigravi/internal/session"
)

type View string

const (
	ViewHome          View = "home"
	ViewLogin         View = "login"
	ViewRegister      View = "register"
	ViewDashboard     View = "dashboard"
	ViewAddProduct    View = "add-product"
	ViewProductDetail View = "product-detail"
	ViewAdminLogin    View = "admin-login"
	ViewAdmin         View = "admin"
)

// State is the controller-owned application state.
type State struct {
	View         View
	EditTarget   string
	Query        string
	Detail       *models.Product
	GalleryIndex int
}

const DefaultNoticeTTL = 5 * time.Second

// Deps are the services the controller drives.
type Deps struct {
	Session    *session.Manager
	Catalog    *catalog.Service
	Moderation *moderation.Service
	Carousel   *carousel.Manager
	Logger     logging.Logger
	NoticeTTL  time.Duration
}

type Controller struct {
	session    *session.Manager
	catalog    *catalog.Service
	moderation *moderation.Service
	carousel   *carousel.Manager
	logger     logging.Logger
	noticeTTL  time.Duration
	now        func() time.Time

	// mu serialises commands.
	mu         sync.Mutex
	state      State
	root       context.Context
	viewCtx    context.Context
	viewCancel context.CancelFunc
	stopWatch  func()

	activeView atomic.Value

	notices noticeBoard

	hookMu          sync.Mutex
	onCatalogChange func()
}

func New(d Deps) *Controller {
	ttl := d.NoticeTTL
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	c := &Controller{
		session:    d.Session,
		catalog:    d.Catalog,
		moderation: d.Moderation,
		carousel:   d.Carousel,
		logger:     d.Logger.With("module", "app"),
		noticeTTL:  ttl,
		now:        time.Now,
		state:      State{View: ViewHome},
		root:       context.Background(),
	}
	c.viewCtx, c.viewCancel = context.WithCancel(c.root)
	c.activeView.Store(ViewHome)
	return c
}

// OnCatalogChange registers a callback fired after a pushed catalog reload.
func (c *Controller) OnCatalogChange(fn func()) {
	c.hookMu.Lock()
	c.onCatalogChange = fn
	c.hookMu.Unlock()
}

// Start restores the session, loads slides and catalog, starts autoplay and
// the remote catalog watch, and opens the first view. adminFragment opens
// the admin login instead of the home view.
func (c *Controller) Start(ctx context.Context, adminFragment bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.root = ctx

	if _, err := c.session.Restore(ctx); err != nil {
		c.fail(ctx, err)
	}

	if err := c.carousel.Load(ctx); err != nil {
		c.fail(ctx, err)
	}
	go c.carousel.Run(ctx)

	stop, err := c.catalog.Watch(ctx, c.catalogVisible, c.catalogChanged)
	switch {
	case errors.Is(err, common.ErrNoPushChannel):
		c.logger.Debug(ctx, "backend has no push channel, catalog reloads on navigation")
	case err != nil:
		c.fail(ctx, err)
	default:
		c.stopWatch = stop
	}

	if adminFragment {
		c.navigate(ViewAdminLogin)
		return
	}
	c.navigate(ViewHome)
}

// Stop cancels the current view and the catalog watch.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewCancel()
	if c.stopWatch != nil {
		c.stopWatch()
		c.stopWatch = nil
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s.Detail != nil {
		d := *s.Detail
		s.Detail = &d
	}
	return s
}

func (c *Controller) Navigation() session.Navigation {
	return c.session.Navigation()
}

// Navigate switches to view, applying the access rules of that view.
func (c *Controller) Navigate(view View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigate(view)
}

// navigate must be called with mu held. It cancels the previous view's
// context so late results of that view are dropped.
func (c *Controller) navigate(view View) {
	c.viewCancel()
	c.viewCtx, c.viewCancel = context.WithCancel(c.root)
	ctx := c.viewCtx

	switch view {
	case ViewDashboard, ViewAddProduct:
		if err := c.session.Refresh(ctx); err != nil {
			c.fail(ctx, err)
			view = ViewHome
			break
		}
		nav := c.session.Navigation()
		switch {
		case !nav.SignedIn:
			c.warn("Veuillez vous connecter pour accéder à votre espace")
			view = ViewLogin
		case nav.Status == models.StatusPending:
			c.warn("Votre compte est en attente de validation par l'administrateur")
			view = ViewHome
		case nav.Status == models.StatusBanned:
			c.alert("Votre compte a été banni")
			view = ViewHome
		}
	case ViewAdmin:
		if !c.session.IsAdmin() {
			view = ViewAdminLogin
		}
	}

	if view != ViewAddProduct {
		c.state.EditTarget = ""
	}
	if view != ViewProductDetail {
		c.state.Detail = nil
		c.state.GalleryIndex = 0
	}
	c.state.View = view
	c.activeView.Store(view)

	if view == ViewHome {
		if _, err := c.catalog.Load(ctx); err != nil {
			c.fail(ctx, err)
		}
	}
}

// catalogVisible reports whether a view that shows the catalog is active.
func (c *Controller) catalogVisible() bool {
	v, _ := c.activeView.Load().(View)
	return v == ViewHome || v == ViewProductDetail
}

func (c *Controller) catalogChanged() {
	c.hookMu.Lock()
	fn := c.onCatalogChange
	c.hookMu.Unlock()
	if fn != nil {
		fn()
	}
}
