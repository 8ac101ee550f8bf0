package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/pixil98/go-wilds/internal/storage"
	"github.com/pixil98/go-wilds/internal/world"
)

const (
	MinPasswordLength = 4
	maxNameLength     = 20
)

var (
	ErrUnknownAccount   = errors.New("unknown account")
	ErrBadPassword      = errors.New("incorrect password")
	ErrAccountExists    = errors.New("account already exists")
	ErrInvalidName      = errors.New("names must be 1-20 letters")
	ErrPasswordTooShort = fmt.Errorf("passwords must be at least %d characters", MinPasswordLength)
)

// Account is the persisted login record for a player.
type Account struct {
	Name         string         `json:"name"`
	PasswordHash string         `json:"password_hash"`
	CreatedAt    time.Time      `json:"created_at"`
	LastLogin    time.Time      `json:"last_login,omitempty"`
	Position     world.Position `json:"position"`
}

func (a *Account) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("name must be set")
	}
	if a.PasswordHash == "" {
		return fmt.Errorf("password_hash must be set")
	}
	return nil
}

// PlayerID is the key the account is stored and played under.
func (a *Account) PlayerID() string {
	return PlayerID(a.Name)
}

// PlayerID normalizes a display name into a player id.
func PlayerID(name string) string {
	return strings.ToLower(name)
}

type AuthenticatorOpt func(*Authenticator)

// WithCost sets the bcrypt cost used for new passwords.
func WithCost(cost int) AuthenticatorOpt {
	return func(a *Authenticator) {
		a.cost = cost
	}
}

func WithAuthClock(now func() time.Time) AuthenticatorOpt {
	return func(a *Authenticator) {
		a.now = now
	}
}

// Authenticator verifies and creates accounts.
type Authenticator struct {
	accounts storage.Storer[*Account]
	cost     int
	now      func() time.Time

	// Serializes register so two connections cannot claim one name.
	mu sync.Mutex
}

func NewAuthenticator(accounts storage.Storer[*Account], opts ...AuthenticatorOpt) *Authenticator {
	a := &Authenticator{
		accounts: accounts,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ValidName reports whether name may be used for a new account.
func ValidName(name string) bool {
	if len(name) == 0 || len(name) > maxNameLength {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// Exists reports whether an account is registered under name.
func (a *Authenticator) Exists(name string) bool {
	_, ok := a.accounts.Get(PlayerID(name))
	return ok
}

// Login checks password against the stored hash and records the login time.
func (a *Authenticator) Login(name, password string) (*Account, error) {
	acct, ok := a.accounts.Get(PlayerID(name))
	if !ok {
		return nil, ErrUnknownAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadPassword
	}

	updated := *acct
	updated.LastLogin = a.now()
	if err := a.accounts.Save(updated.PlayerID(), &updated); err != nil {
		return nil, fmt.Errorf("saving account: %w", err)
	}
	return &updated, nil
}

// Register creates a new account with a bcrypt-hashed password.
func (a *Authenticator) Register(name, password string) (*Account, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Exists(name) {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := a.now()
	acct := &Account{
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastLogin:    now,
	}
	if err := a.accounts.Save(acct.PlayerID(), acct); err != nil {
		return nil, fmt.Errorf("saving account: %w", err)
	}
	return acct, nil
}

// SavePosition records where the player logged out.
func (a *Authenticator) SavePosition(playerID string, pos world.Position) error {
	acct, ok := a.accounts.Get(playerID)
	if !ok {
		return ErrUnknownAccount
	}
	updated := *acct
	updated.Position = pos
	return a.accounts.Save(playerID, &updated)
}
