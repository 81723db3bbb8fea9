package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Oloap008/Trello-Clone/internal/kvstore"
	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
	"github.com/Oloap008/Trello-Clone/internal/utils"
)

// SessionKey is the storage key of the persisted session.
const SessionKey = "taskify-user"

type AuthOptions struct {
	// Latency is waited before every credential check.
	Latency    time.Duration
	BcryptCost int
	Logger     *slog.Logger
}

// Auth signs users in and out and keeps the current session. The session
// is mirrored to value when one is given.
type Auth struct {
	store *repository.Store
	value *kvstore.Value[model.Session]
	opts  AuthOptions

	mu      sync.RWMutex
	session *model.Session
}

func NewAuth(store *repository.Store, value *kvstore.Value[model.Session], opts AuthOptions) *Auth {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Auth{store: store, value: value, opts: opts}
}

// Load restores the persisted session. Without a value the auth state is
// loaded immediately with nobody signed in. A storage read error leaves
// nobody signed in and the state not loaded.
func (a *Auth) Load(ctx context.Context) error {
	if a.value == nil {
		return nil
	}
	s, err := a.value.Load(ctx, nil)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
	return nil
}

func (a *Auth) Loaded() bool { return a.value == nil || a.value.Loaded() }

// Current returns a copy of the session, or nil.
func (a *Auth) Current() *model.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return nil
	}
	s := *a.session
	return &s
}

func (a *Auth) IsAuthenticated() bool { return a.Current() != nil }

func (a *Auth) setSession(ctx context.Context, s *model.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
	if a.value != nil {
		a.value.Write(ctx, s)
	}
}

func (a *Auth) wait(ctx context.Context) error {
	if a.opts.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(a.opts.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Authenticate checks credentials against the active users without
// touching the session.
func (a *Auth) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	if err := a.wait(ctx); err != nil {
		return model.User{}, err
	}
	u, ok := a.store.UserByEmail(email)
	if !ok || !u.Status.Active() || !utils.VerifyPassword(u.Password, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// SignIn authenticates and makes the user the current session.
func (a *Auth) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	u, err := a.Authenticate(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}
	s := model.SessionFor(u)
	a.setSession(ctx, &s)
	a.opts.Logger.Info("signed in", "user_id", u.ID)
	return s, nil
}

// Register creates a user account without touching the session. The
// email must be unused, the trimmed name at least two characters and the
// password at least six.
func (a *Auth) Register(ctx context.Context, name, email, password string) (model.User, error) {
	if err := a.wait(ctx); err != nil {
		return model.User{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	defer a.store.BeginWrite()()
	if _, exists := a.store.UserByEmail(email); exists {
		return model.User{}, ErrDuplicateEmail
	}
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return model.User{}, invalid("name", "must be at least 2 characters")
	}
	if len(password) < 6 {
		return model.User{}, invalid("password", "must be at least 6 characters")
	}
	if email == "" {
		return model.User{}, invalid("email", "is required")
	}

	hash, err := utils.HashPassword(password, a.opts.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	first, last, _ := strings.Cut(name, " ")
	username, _, _ := strings.Cut(email, "@")
	u := a.store.Users.Create(ctx, model.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Status:    model.StatusActive,
	})
	a.opts.Logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// SignUp registers and signs the new user in.
func (a *Auth) SignUp(ctx context.Context, name, email, password string) (model.Session, error) {
	u, err := a.Register(ctx, name, email, password)
	if err != nil {
		return model.Session{}, err
	}
	s := model.SessionFor(u)
	a.setSession(ctx, &s)
	return s, nil
}

// SignOut clears the session and its stored copy.
func (a *Auth) SignOut(ctx context.Context) {
	a.setSession(ctx, nil)
}
