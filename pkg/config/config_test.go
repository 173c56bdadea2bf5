package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Inventory.Store)
	assert.Equal(t, 2, cfg.Inventory.CurrencyDecimals)
	assert.Equal(t, 10, cfg.Inventory.CostDecimals)
	assert.Equal(t, 5*time.Minute, cfg.Inventory.UnitCacheTTL)
	assert.Equal(t, 3, cfg.CatalogSync.RetryCount)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "MEMORY")
	t.Setenv("INVENTORY_CURRENCY_DECIMALS", "4")
	t.Setenv("INVENTORY_UNIT_CACHE_TTL", "90")
	t.Setenv("CATALOG_SYNC_TIMEOUT", "250ms")
	t.Setenv("CATALOG_SYNC_URL", "http://catalogo.local/stock")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Inventory.Store)
	assert.Equal(t, 4, cfg.Inventory.CurrencyDecimals)
	assert.Equal(t, 90*time.Second, cfg.Inventory.UnitCacheTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.CatalogSync.Timeout)
	assert.Equal(t, "http://catalogo.local/stock", cfg.CatalogSync.URL)
}

func TestLoad_StoreDesconocido(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "redis")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_CostoMasGruesoQueMoneda(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")
	t.Setenv("INVENTORY_CURRENCY_DECIMALS", "4")
	t.Setenv("INVENTORY_COST_DECIMALS", "2")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "inv", Password: "p@ss", DBName: "costeo", SSLMode: "disable"}
	assert.Equal(t, "postgres://inv:p%40ss@db:5432/costeo?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
