package database

import (
	"net/url"
	"strconv"

	"github.com/andrewchiang3/pitcher-plinko/internal/config"
)

// ConnString assembles a postgres:// URL from config. url.URL handles the
// escaping, so passwords with reserved characters survive intact.
func ConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
