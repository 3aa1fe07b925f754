package persistence

import (
	"database/sql"
	"fmt"
	"net/url"

	"mediastore/infrastructure/configuration"

	_ "github.com/lib/pq"
)

// NewPostgreSQLDB opens the entitlement ledger outside production.
func NewPostgreSQLDB(cfg configuration.Db) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresDSN(cfg))
	if err != nil {
		return nil, err
	}
	return configurePool(db)
}

func postgresDSN(cfg configuration.Db) string {
	if cfg.URI != "" {
		return cfg.URI
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	q := url.Values{}
	if cfg.Host == "localhost" || cfg.Host == "127.0.0.1" {
		q.Set("sslmode", "disable")
	} else {
		q.Set("sslmode", "require")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
