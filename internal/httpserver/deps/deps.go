package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/commands"
	"github.com/MrSnakeDoc/favorites/internal/host"
	"github.com/MrSnakeDoc/favorites/internal/logger"
	"github.com/MrSnakeDoc/favorites/internal/metrics"
	"github.com/MrSnakeDoc/favorites/internal/panel"
	"github.com/MrSnakeDoc/favorites/internal/registry"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	AllowedCIDRS []string // IPs allowed to reach the API and probes; empty allows all
	TrustProxy   bool     // true if running behind a trusted reverse proxy
	Registry     *registry.Registry
	Commands     *commands.Commands
	Panel        *panel.Builder
	Probe        host.Probe
	Metrics      *metrics.Metrics            // nil disables /metrics
	StoreCheck   func(context.Context) error // readiness probe of the backing store, nil when always ready
	StoreKind    string                      // "file", "redis" or "memory"
}
