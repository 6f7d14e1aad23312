package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/eakarsu/parapilot/internal/common"
)

// Remote holds the settings for the hosted analysis endpoint.
type Remote struct {
	BaseURL   string
	AuthToken string
}

// LoadRemote reads the remote analysis settings from viper.
func LoadRemote() (*Remote, error) {
	r := &Remote{
		BaseURL:   viper.GetString("remote.base_url"),
		AuthToken: viper.GetString("remote.auth_token"),
	}
	if r.BaseURL == "" {
		return nil, fmt.Errorf("remote.base_url: %w", common.ErrMissingConfig)
	}
	return r, nil
}

// UserID returns the configured user identity, falling back to "local".
// A single-user installation never has to set this.
func UserID() string {
	if id := viper.GetString("user.id"); id != "" {
		return id
	}
	return "local"
}

// DatabasePath returns the configured database location with path expansion
// applied, or the default under the user's data directory.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = "$HOME/.local/share/parapilot/parapilot.db"
	}
	return ExpandPath(path)
}
