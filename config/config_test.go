package config

import (
	"breadstation_server/structs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSecrets(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		secret      string
		wantErr     bool
	}{
		{"production with default secret", "production", DefaultJWTSecret, true},
		{"production with empty secret", "production", "", true},
		{"production with blank secret", "production", "   ", true},
		{"production with real secret", "production", "9f1c2e7a-shop-secret", false},
		{"development keeps the default", "development", DefaultJWTSecret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &structs.Config{
				Server: &structs.ServerConfig{Environment: tt.environment},
				Auth:   &structs.AuthConfig{JWTSecret: tt.secret},
			}
			err := ValidateSecrets(cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsecureJWTSecret)
				return
			}
			assert.NoError(t, err)
		})
	}
}
