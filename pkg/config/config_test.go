package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.DB.Driver)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, []string{"Deposito", "Local"}, cfg.Inventory.Locations)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Inventory.Timezone)
	assert.Equal(t, int64(3), cfg.Inventory.RestockTarget)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("INVENTORY_LOCATIONS", " Local , Deposito,, Galpon ")
	t.Setenv("HTTP_WRITE_RATE_LIMIT", "0")
	t.Setenv("INVENTORY_RESTOCK_TARGET", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, []string{"Local", "Deposito", "Galpon"}, cfg.Inventory.Locations)
	assert.Zero(t, cfg.HTTP.WriteRateLimit)
	assert.Equal(t, int64(5), cfg.Inventory.RestockTarget)
}

func TestLoad_Invalida(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "sqlite")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("INVENTORY_LOCATIONS", " , ")
	_, err = fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("INVENTORY_RESTOCK_TARGET", "0")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

func TestInventoryConfig_TimeLocation(t *testing.T) {
	assert.Equal(t, time.UTC, InventoryConfig{Timezone: "No/Existe"}.TimeLocation())
	assert.Equal(t, "UTC", InventoryConfig{Timezone: "UTC"}.TimeLocation().String())
}
