package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminAccounts(t *testing.T) {
	raw := "1:admin1@yourstore.com:$2b$12$GyYamu..sRIP5Pby9RVJxebURuudpOhrqu.Y0xjiOch9Vma5/RZ6q:admin; 2:admin2@yourstore.com:$2a$10$abc:"

	accounts, err := ParseAdminAccounts(raw)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, int64(1), accounts[0].ID)
	assert.Equal(t, "admin1@yourstore.com", accounts[0].Email)
	assert.Equal(t, "$2b$12$GyYamu..sRIP5Pby9RVJxebURuudpOhrqu.Y0xjiOch9Vma5/RZ6q", accounts[0].PasswordHash)
	assert.Equal(t, "admin", accounts[0].Role)
	assert.Equal(t, "admin", accounts[1].Role, "empty role defaults to admin")
}

func TestParseAdminAccountsRejectsMalformed(t *testing.T) {
	_, err := ParseAdminAccounts("1:only-email")
	assert.Error(t, err)

	_, err = ParseAdminAccounts("x:a@b.c:hash:admin")
	assert.Error(t, err)

	accounts, err := ParseAdminAccounts("")
	assert.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestValidateProduction(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		JWT:         JWTConfig{SecretKey: defaultJWTSecret},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.SecretKey = "a-real-secret"
	assert.Error(t, cfg.Validate(), "no admin accounts")

	cfg.Auth.Accounts = []AdminAccount{{ID: 1, Email: "a@b.c", PasswordHash: "h", Role: "admin"}}
	assert.Error(t, cfg.Validate(), "no shipping credentials")

	cfg.Shipping = ShippingConfig{Email: "ops@b.c", Password: "pw"}
	assert.NoError(t, cfg.Validate())

	dev := &Config{Environment: "development", JWT: JWTConfig{SecretKey: defaultJWTSecret}}
	assert.NoError(t, dev.Validate())
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_LIST", " a.com, ,b.com ")
	assert.Equal(t, []string{"a.com", "b.com"}, getEnvAsList("TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, getEnvAsList("TEST_LIST_MISSING", []string{"x"}))
}
