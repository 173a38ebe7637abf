package hashid

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// SecretLoader loads secrets; *scy.Service implements it.
type SecretLoader interface {
	Load(ctx context.Context, resource *scy.Resource) (*scy.Secret, error)
}

func (b *Behavior) resolveSalt(ctx context.Context) error {
	if b.config.SaltURL == "" {
		return nil
	}
	if b.secrets == nil {
		b.secrets = scy.New()
	}
	resource := scy.NewResource(nil, b.config.SaltURL, b.config.SaltKey)
	secret, err := b.secrets.Load(ctx, resource)
	if err != nil {
		return fmt.Errorf("hashid: failed to load salt from %s: %w", b.config.SaltURL, err)
	}
	salt := strings.TrimSpace(secret.String())
	if salt == "" {
		return fmt.Errorf("hashid: salt secret %s is empty", b.config.SaltURL)
	}
	b.config.Salt = salt
	b.logger.Info("resolved hashid salt", "url", b.config.SaltURL)
	return nil
}
