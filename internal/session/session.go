// Package session resolves which profile the habit store works for.
package session

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/keyring"
	"github.com/julianstephens/habitcontrol/internal/models"
)

// Provider returns the current session, if any.
type Provider interface {
	Current() (models.Session, bool, error)
}

// Static is a fixed session, used by tests and embedding callers.
type Static struct {
	Session *models.Session
}

func (s Static) Current() (models.Session, bool, error) {
	if s.Session == nil {
		return models.Session{}, false, nil
	}
	return *s.Session, true, nil
}

// KeyringProvider keeps the signed-in profile in the OS keyring.
type KeyringProvider struct {
	Now func() time.Time
}

func NewKeyringProvider() *KeyringProvider {
	return &KeyringProvider{Now: time.Now}
}

// OwnerID derives a stable owner id from an email address so that signing in
// again with the same address finds the same habits.
func OwnerID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(email))).String()
}

// SignIn records a profile for email and makes it current.
func (p *KeyringProvider) SignIn(email string) (models.Profile, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return models.Profile{}, &apperrors.ValidationError{Field: "email", Reason: fmt.Sprintf("%q is not a valid address", email)}
	}

	now := p.Now()
	profile := models.Profile{
		ID:        OwnerID(addr.Address),
		Email:     addr.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := keyring.GetProfile(); err == nil && existing.ID == profile.ID {
		profile.CreatedAt = existing.CreatedAt
	}

	if err := keyring.SetProfile(profile); err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// Profile returns the stored profile.
func (p *KeyringProvider) Profile() (models.Profile, bool, error) {
	profile, err := keyring.GetProfile()
	if errors.Is(err, keyring.ErrNotFound) {
		return models.Profile{}, false, nil
	}
	if err != nil {
		return models.Profile{}, false, err
	}
	return profile, true, nil
}

func (p *KeyringProvider) Current() (models.Session, bool, error) {
	profile, ok, err := p.Profile()
	if err != nil || !ok {
		return models.Session{}, false, err
	}
	return profile.Session(), true, nil
}

// SignOut forgets the current profile. Signing out twice is not an error.
func (p *KeyringProvider) SignOut() error {
	if err := keyring.DeleteProfile(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// Require returns the current session or ErrAuthenticationRequired.
func Require(p Provider) (models.Session, error) {
	s, ok, err := p.Current()
	if err != nil {
		return models.Session{}, err
	}
	if !ok {
		return models.Session{}, apperrors.ErrAuthenticationRequired
	}
	return s, nil
}
