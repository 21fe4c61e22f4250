package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/notas-credito-api/pkg/config"
	"github.com/jhoicas/notas-credito-api/pkg/logger"
)

// Un fallo de arranque vuelve como error al caller en vez de terminar el proceso.
func TestRun_ErrorDeConexionSeDevuelve(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "debug", App: "notas-credito-test", Writer: &buf})
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Name: "notas-credito-test"},
		DB: config.DBConfig{
			Driver:      config.DriverPostgres,
			DatabaseURL: "postgres://app@127.0.0.1:puerto/nc",
		},
	}

	err := run(cfg, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexión a PostgreSQL")
	assert.Contains(t, buf.String(), "iniciando aplicación")
}
