package postgres

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/pgask/pkg/catalog"
)

// Params holds PostgreSQL-specific configuration.
// Parsed from catalog.Config.Params using mapstructure.
type Params struct {
	// ApplicationName is reported in pg_stat_activity
	ApplicationName string `mapstructure:"application_name"`

	// ConnectTimeout in seconds
	ConnectTimeout int `mapstructure:"connect_timeout"`

	// StatementTimeout in milliseconds, applied to every catalog query
	StatementTimeout int `mapstructure:"statement_timeout"`
}

const defaultApplicationName = "pgask"

func decodeParams(raw map[string]any) (Params, error) {
	p := Params{ApplicationName: defaultApplicationName}
	if len(raw) == 0 {
		return p, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("invalid postgres params: %w", err)
	}
	return p, nil
}

// buildPostgresDSN constructs a postgres:// connection URL. Every value is
// escaped, so an empty database or a password with blanks survives parsing.
func buildPostgresDSN(cfg catalog.Config, p Params) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	if cfg.Database != "" {
		u.Path = "/" + cfg.Database
	}
	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	case cfg.Password != "":
		u.User = url.UserPassword("", cfg.Password)
	}

	// Options pass through as query parameters; Encode sorts them by key
	q := url.Values{}
	for k, v := range cfg.Options {
		q.Set(k, v)
	}
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	if p.ApplicationName != "" {
		q.Set("application_name", p.ApplicationName)
	}
	if p.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(p.ConnectTimeout))
	}
	if p.StatementTimeout > 0 {
		q.Set("statement_timeout", strconv.Itoa(p.StatementTimeout))
	}
	u.RawQuery = q.Encode()

	return u.String()
}
