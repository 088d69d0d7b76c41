// Package dbconfig da una vista tipada de la configuración de base de datos
// de la instancia (la primera entrada "db" del console, o la local).
package dbconfig

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEmpty             = errors.New("dbconfig: empty database configuration")
	ErrUnsupportedDriver = errors.New("dbconfig: driver has no connection string")
)

// Config es una base de datos. Extras son las keys no reconocidas; para
// postgres van como parámetros de la URL (sslmode, search_path, ...).
type Config struct {
	Driver   string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Extras   map[string]string
}

// FromMap interpreta el mapa tal como llega del console o del YAML.
func FromMap(m map[string]any) Config {
	c := Config{Extras: map[string]string{}}
	for k, v := range m {
		s := toString(v)
		switch strings.ToLower(k) {
		case "driver":
			c.Driver = strings.ToLower(s)
		case "host":
			c.Host = s
		case "port":
			c.Port, _ = strconv.Atoi(s)
		case "database", "db", "dbname":
			c.Database = s
		case "username", "user":
			c.Username = s
		case "password":
			c.Password = s
		default:
			c.Extras[k] = s
		}
	}
	return c
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func (c Config) Empty() bool { return c.Driver == "" && c.Host == "" && c.Database == "" }

// IsPostgres acepta los nombres de driver que usa el console.
func (c Config) IsPostgres() bool {
	switch c.Driver {
	case "pgsql", "postgres", "postgresql":
		return true
	}
	return false
}

// ConnString arma la URL postgres://. Solo para drivers postgres.
func (c Config) ConnString() (string, error) {
	if c.Empty() {
		return "", ErrEmpty
	}
	if !c.IsPostgres() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
	u := url.URL{Scheme: "postgres", Path: "/" + c.Database}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	if c.Port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(c.Port))
	}
	u.Host = host
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	if len(c.Extras) > 0 {
		q := url.Values{}
		keys := make([]string, 0, len(c.Extras))
		for k := range c.Extras {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			q.Set(k, c.Extras[k])
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Pgx valida la configuración a través de pgx.ParseConfig.
func (c Config) Pgx() (*pgx.ConnConfig, error) {
	dsn, err := c.ConnString()
	if err != nil {
		return nil, err
	}
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	return cfg, nil
}

// Pool abre un pgxpool. MaxConns default 10 si la URL no lo fija.
func (c Config) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn, err := c.ConnString()
	if err != nil {
		return nil, err
	}
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if _, ok := c.Extras["pool_max_conns"]; !ok {
		pc.MaxConns = 10
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return pool, nil
}

// Target es "user@host:port/db", sin password, para logs.
func (c Config) Target() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.Username, c.Host, c.Port, c.Database)
}
