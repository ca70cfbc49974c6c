package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/config"
)

// AuthKey wraps the token encryption key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the token encryption key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.KeyPath())
	if err != nil {
		return nil, err
	}

	log.Info("Authentication key loaded",
		"path", cfg.Data.KeyPath(),
		"token_duration", cfg.Auth.TokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenCodec provides the PASETO token codec.
func ProvideTokenCodec(i do.Injector) (*auth.TokenCodec, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenCodec([]byte(key), cfg.Auth.TokenDuration)
}
