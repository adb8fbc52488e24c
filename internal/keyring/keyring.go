package keyring

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitcontrol/internal/constants"
	"github.com/julianstephens/habitcontrol/internal/models"
)

var (
	// ErrNotFound is returned when nothing is stored under the requested entry
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(user string) (string, error) {
	value, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func remove(user string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the database connection string.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	return remove(constants.DefaultKeyringUser)
}

// GetProfile returns the signed-in profile.
func GetProfile() (models.Profile, error) {
	raw, err := get(constants.ProfileKeyringUser)
	if err != nil {
		return models.Profile{}, err
	}
	var p models.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return models.Profile{}, fmt.Errorf("stored profile is corrupt: %w", err)
	}
	return p, nil
}

// SetProfile stores p as the signed-in profile.
func SetProfile(p models.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := keyring.Set(constants.AppName, constants.ProfileKeyringUser, string(data)); err != nil {
		return fmt.Errorf("failed to store profile in keyring: %w", err)
	}
	return nil
}

func DeleteProfile() error {
	return remove(constants.ProfileKeyringUser)
}

// IsAvailable is a best-effort check that the OS keyring can be read.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
