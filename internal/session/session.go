// Package session tracks who is signed in. A user session is restored across
// restarts through a pointer (the user's email) kept in the kv store. Admin
// state is orthogonal: it is backed by a short-lived token issued against a
// static credential and never by a User record.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AbdoulayeSG/site-antigravi/internal/auth"
	"github.com/AbdoulayeSG/site-antigravi/internal/common"
	"github.com/AbdoulayeSG/site-antigravi/internal/cryptox"
	"github.com/AbdoulayeSG/site-antigravi/internal/kvstore"
	"github.com/AbdoulayeSG/site-antigravi/internal/logging"
	"github.com/AbdoulayeSG/site-antigravi/internal/models"
	"github.com/AbdoulayeSG/site-antigravi/internal/storage"
)

// AdminCredentials is the static admin credential and token settings.
type AdminCredentials struct {
	Email         string
	Password      string
	TokenSecret   []byte
	TokenValidity time.Duration
}

// LoginResult is returned by a successful Login. Warning is set when the
// account is still pending approval.
type LoginResult struct {
	User    models.User
	Warning bool
}

// Navigation is the state the rendering surface derives its menus from.
type Navigation struct {
	SignedIn bool
	Name     string
	WhatsApp string
	Status   models.Status
	CanSell  bool
	Admin    bool
}

type Manager struct {
	backend storage.Backend
	kv      kvstore.Store
	admin   AdminCredentials
	logger  logging.Logger
	now     func() time.Time

	mu         sync.RWMutex
	current    *models.User
	adminToken string
}

func NewManager(backend storage.Backend, kv kvstore.Store, admin AdminCredentials, logger logging.Logger) *Manager {
	return &Manager{
		backend: backend,
		kv:      kv,
		admin:   admin,
		logger:  logger.With("module", "session"),
		now:     time.Now,
	}
}

// Register creates a pending account. It never signs the user in.
func (m *Manager) Register(ctx context.Context, name, email, whatsapp string, password []byte) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = models.NormalizeEmail(email)
	if name == "" || email == "" || len(password) == 0 {
		return nil, fmt.Errorf("register: name, email and password are required: %w", common.ErrValidation)
	}

	users, err := m.backend.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if storage.FindUserByEmail(users, email) != nil {
		return nil, fmt.Errorf("register %s: %w", email, common.ErrDuplicateEmail)
	}

	u := &models.User{
		Name:      name,
		Email:     email,
		WhatsApp:  strings.TrimSpace(whatsapp),
		Password:  cryptox.HashPassword(password),
		Status:    models.StatusPending,
		CreatedAt: m.now().UTC(),
	}
	if err := m.backend.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	m.logger.Info(ctx, "user registered", "id", u.ID)
	out := *u
	out.Password = ""
	return &out, nil
}

// RegisterConfirmed is Register preceded by a password confirmation check.
func (m *Manager) RegisterConfirmed(ctx context.Context, name, email, whatsapp string, password, confirm []byte) (*models.User, error) {
	if string(password) != string(confirm) {
		return nil, common.ErrPasswordMismatch
	}
	return m.Register(ctx, name, email, whatsapp, password)
}

// Login authenticates by email and password. Unknown email and wrong
// password both fail with common.ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, email string, password []byte) (*LoginResult, error) {
	users, err := m.backend.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	u := storage.FindUserByEmail(users, email)
	if u == nil {
		return nil, common.ErrInvalidCredentials
	}

	hash, err := m.backend.PasswordHash(ctx, u.ID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	ok, err := cryptox.VerifyPassword(hash, password)
	if err != nil {
		m.logger.Warn(ctx, "stored credential unreadable", "id", u.ID, "error", err)
		return nil, common.ErrInvalidCredentials
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	if u.Status.Effective() == models.StatusBanned {
		return nil, common.ErrBanned
	}

	if err := kvstore.SetJSON(ctx, m.kv, kvstore.KeyCurrentUser, u.Email); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	m.setCurrent(u)

	m.logger.Info(ctx, "user signed in", "id", u.ID, "status", u.Status.Effective())
	return &LoginResult{User: sanitized(u), Warning: u.Status.Effective() == models.StatusPending}, nil
}

// Restore signs the user named by the persisted pointer back in. A pointer
// to an unknown user is dropped silently; one to a banned user is dropped
// and common.ErrBanned returned. (nil, nil) means anonymous.
func (m *Manager) Restore(ctx context.Context) (*models.User, error) {
	var email string
	ok, err := kvstore.GetJSON(ctx, m.kv, kvstore.KeyCurrentUser, &email)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if !ok || email == "" {
		return nil, nil
	}

	users, err := m.backend.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	u := storage.FindUserByEmail(users, email)
	if u == nil {
		return nil, m.Logout(ctx)
	}
	if u.Status.Effective() == models.StatusBanned {
		if err := m.Logout(ctx); err != nil {
			return nil, err
		}
		return nil, common.ErrBanned
	}

	m.setCurrent(u)
	out := sanitized(u)
	return &out, nil
}

// Refresh re-reads the signed-in user so moderation changes apply to a live
// session. A user banned meanwhile is signed out with common.ErrBanned.
func (m *Manager) Refresh(ctx context.Context) error {
	cur := m.Current()
	if cur == nil {
		return nil
	}

	users, err := m.backend.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	u := storage.FindUserByID(users, cur.ID)
	if u == nil {
		return m.Logout(ctx)
	}
	if u.Status.Effective() == models.StatusBanned {
		if err := m.Logout(ctx); err != nil {
			return err
		}
		return common.ErrBanned
	}
	m.setCurrent(u)
	return nil
}

// Logout clears the pointer and the in-memory user. Admin state is kept.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.kv.Delete(ctx, kvstore.KeyCurrentUser); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Current returns a copy of the signed-in user, or nil.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// RequireUser is Current that fails with common.ErrNotSignedIn.
func (m *Manager) RequireUser() (*models.User, error) {
	u := m.Current()
	if u == nil {
		return nil, common.ErrNotSignedIn
	}
	return u, nil
}

// AdminLogin checks the static credential and, on success, issues the admin
// token.
func (m *Manager) AdminLogin(email string, password []byte) error {
	emailOK := cryptox.ConstantTimeEqual(models.NormalizeEmail(email), models.NormalizeEmail(m.admin.Email))
	passOK := cryptox.ConstantTimeEqual(string(password), m.admin.Password)
	if !emailOK || !passOK {
		return common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(m.admin.Email, auth.RoleAdmin, m.admin.TokenSecret, m.admin.TokenValidity, m.now())
	if err != nil {
		return fmt.Errorf("admin login: %w", err)
	}

	m.mu.Lock()
	m.adminToken = token
	m.mu.Unlock()
	return nil
}

// IsAdmin reports whether the admin token is present and unexpired. An
// expired token is discarded.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.adminToken == "" {
		return false
	}
	if !auth.HasRole(m.adminToken, auth.RoleAdmin, m.admin.TokenSecret, m.now()) {
		m.adminToken = ""
		return false
	}
	return true
}

func (m *Manager) AdminLogout() {
	m.mu.Lock()
	m.adminToken = ""
	m.mu.Unlock()
}

func (m *Manager) Navigation() Navigation {
	nav := Navigation{Admin: m.IsAdmin()}
	if u := m.Current(); u != nil {
		nav.SignedIn = true
		nav.Name = u.Name
		nav.WhatsApp = u.WhatsApp
		nav.Status = u.Status.Effective()
		nav.CanSell = u.CanSell()
	}
	return nav
}

func (m *Manager) setCurrent(u *models.User) {
	c := sanitized(u)
	m.mu.Lock()
	m.current = &c
	m.mu.Unlock()
}

func sanitized(u *models.User) models.User {
	c := *u
	c.Password = ""
	return c
}
