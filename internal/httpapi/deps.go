package httpapi

import (
	"database/sql"
	"sync/atomic"
	"time"

	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/events"
	"h1bhunt-engine/internal/poll"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	CfgVal *atomic.Value // stores config.Config
	Poller *poll.Poller

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Now func() time.Time
}

func (d Deps) clock() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func loadCfg(v *atomic.Value) config.Config {
	if v != nil {
		if c, ok := v.Load().(config.Config); ok {
			return c
		}
	}
	return config.Default()
}
