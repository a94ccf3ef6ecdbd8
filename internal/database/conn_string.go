package database

import (
	"net/url"
	"strconv"

	"github.com/talankisai/financehub-fullstack/internal/config"
)

// BuildConnString renders the pool connection URL from config. Credentials go
// through url.Userinfo so passwords with reserved characters stay intact.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}
