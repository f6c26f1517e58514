package tqdriver

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/logoove/sqlite"
	"github.com/jmoiron/sqlx"
)

func init() {
	RegisterConnector("postgres", func(cfg *ConnConfig) (string, string) {
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, sslMode)
		return "postgres", dsn
	})

	RegisterConnector("sqlite", func(cfg *ConnConfig) (string, string) {
		sqlx.BindDriver("sqlite", sqlx.QUESTION)
		return "sqlite", cfg.Database
	})

	RegisterConnector("mysql", func(cfg *ConnConfig) (string, string) {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
		return "mysql", dsn
	})
}
