package admin

import (
	"context"

	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/config"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/supportdesk/internal/server/services"
)

var openStorage = repomanager.Open

// OpenStorage is the production Opener: it connects to the configured
// store and wraps it in an AccountService. The CLI never signs tokens, so
// no token issuer is configured.
func OpenStorage(ctx context.Context, cfg *config.Config, logger logging.Logger) (Accounts, func(), error) {
	m, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := m.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "storage close failed", "error", err)
		}
	}
	return services.NewAccountService(m.Accounts(), nil, logger), closeFn, nil
}
