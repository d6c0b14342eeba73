package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := LoadConfig()
	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := LoadConfig()
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/x.db", cfg.DSN())
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, SQLitePath: "x.db"}
	require.Error(t, cfg.Validate(), "missing secret")

	cfg.JWTSecret = "s"
	require.NoError(t, cfg.Validate())

	cfg.DBDriver = DriverMySQL
	require.Error(t, cfg.Validate(), "mysql needs name and user")
	cfg.DBName, cfg.DBUser = "finance", "root"
	require.NoError(t, cfg.Validate())

	cfg.DBDriver = "oracle"
	require.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: DriverMySQL, DBUser: "u", DBPassword: "p", DBHost: "h", DBName: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DSN())

	cfg.DBDriver = DriverPostgres
	cfg.DBPort = "6543"
	assert.Contains(t, cfg.DSN(), "port=6543")
	assert.Contains(t, cfg.DSN(), "dbname=d")
}
