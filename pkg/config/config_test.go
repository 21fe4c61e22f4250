package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 30*time.Second, cfg.DB.StatementTimeout)
	assert.Equal(t, 10*1024, cfg.Audit.CompressThresholdBytes)
	assert.Equal(t, 200, cfg.Audit.ListLimit)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Sobrescritura(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "MEMORY")
	v.Set("DB_STATEMENT_TIMEOUT_MS", "1500")
	v.Set("HTTP_PORT", "9090")
	v.Set("AUDIT_LIST_LIMIT", 50)
	v.Set("LOG_LEVEL", "debug")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 1500*time.Millisecond, cfg.DB.StatementTimeout)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 50, cfg.Audit.ListLimit)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestFromViper_EnteroInvalidoUsaDefecto(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "ocho-mil")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "mysql")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_MemoriaNoPermitidaEnProduccion(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "memory")
	v.Set("APP_ENV", "Production")
	_, err := fromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory")

	v.Set("APP_ENV", "staging")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5433, User: "app", Password: "p@ss/word", DBName: "nc", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5433/nc?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
