package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talav/irgen/ir"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ir.DateTimeRFC3339, cfg.DateTimeFormat)
	assert.False(t, cfg.ValidateInput)
	assert.Nil(t, cfg.ResourceDeps)
}

func TestAddResourceDep(t *testing.T) {
	cfg := Default()

	cfg.AddResourceDep("invoice", "customer")
	cfg.AddResourceDep("invoice", "account")
	cfg.AddResourceDep("payment", "invoice")

	assert.Equal(t, []string{"customer", "account"}, cfg.ResourceDeps["invoice"])
	assert.Equal(t, []string{"invoice"}, cfg.ResourceDeps["payment"])
}
