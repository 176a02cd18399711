package settings

import (
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/zalando/go-keyring"
)

// ResolvePassword fills in the remote contacts password. A password given in
// the file or AGEWIDGET_CONTACTS_PASSWORD wins; otherwise the system keyring
// is asked for the configured user.
func (s *Settings) ResolvePassword() error {
	src := &s.Contacts
	if src.Mode != config.ContactsModeWeb || src.WebPass != "" || src.WebUser == "" {
		return nil
	}

	p, err := keyring.Get(config.KeyringService, src.WebUser)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompSettings,
			config.LogKeyUser, src.WebUser,
			config.LogKeyError, err)
		return fmt.Errorf("%s: %w", config.ErrPasswordNotFound, err)
	}
	src.WebPass = p
	return nil
}

// StorePassword saves the contacts password in the system keyring.
func StorePassword(user, password string) error {
	return keyring.Set(config.KeyringService, user, password)
}
