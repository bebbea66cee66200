// Package pulse is the central entry point for all pulse operations.
package pulse

import (
	"github.com/colonyops/pulse/internal/api"
	"github.com/colonyops/pulse/internal/core/config"
	"github.com/colonyops/pulse/internal/core/kv"
	"github.com/colonyops/pulse/internal/core/logging"
	"github.com/colonyops/pulse/internal/core/notify"
	"github.com/colonyops/pulse/internal/data/db"
)

// App bundles the shared runtime services. Commands and the TUI consume
// App instead of cherry-picking raw dependencies.
type App struct {
	Config *config.Config
	Center *notify.Center
	KV     kv.KV
	Cache  *kv.Expiring
	Client *api.Client
	DB     *db.DB

	Version string
}

// NewApp constructs an App from explicit dependencies.
func NewApp(cfg *config.Config, center *notify.Center, store kv.KV, client *api.Client, database *db.DB, version string) *App {
	return &App{
		Config:  cfg,
		Center:  center,
		KV:      store,
		Cache:   kv.NewExpiring(store, logging.Component("cache")),
		Client:  client,
		DB:      database,
		Version: version,
	}
}
