package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, "treasury-backend", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DriverSheets, cfg.Storage.Driver)
	assert.Equal(t, "Qurtubah Accounting System", cfg.Sheets.SpreadsheetTitle)
	assert.Equal(t, "Payments", cfg.Sheets.SheetName)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidate_Driver(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Storage.Driver = "mysql"
	assert.Error(t, cfg.validate())

	cfg.Storage.Driver = DriverSQLite
	assert.NoError(t, cfg.validate())
}

func TestValidate_SheetsNeedsCredentials(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	require.Equal(t, DriverSheets, cfg.Storage.Driver)
	assert.Error(t, cfg.validate())

	cfg.Sheets.CredentialsFile = "service-account.json"
	assert.NoError(t, cfg.validate())
}

func TestValidate_ProductionPostgres(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.App.Env = "production"
	cfg.Storage.Driver = DriverPostgres

	assert.Error(t, cfg.validate()) // no password, sslmode disable

	cfg.Database.Password = "secret"
	cfg.Database.SSLMode = "require"
	assert.NoError(t, cfg.validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "treasury",
		Password: "p@ss/word",
		DBName:   "treasury",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word") // escaped
}
