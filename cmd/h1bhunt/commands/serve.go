package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/events"
	"h1bhunt-engine/internal/httpapi"
	"h1bhunt-engine/internal/notify"
	"h1bhunt-engine/internal/poll"

	"github.com/spf13/cobra"
)

var serveFlags struct {
	port   int
	noPoll bool
}

func init() {
	f := serveCmd.Flags()
	f.IntVar(&serveFlags.port, "port", 0, "listen port on 127.0.0.1 (default app.port)")
	f.BoolVar(&serveFlags.noPoll, "no-poll", false, "serve the API without the background poller")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port N] [--no-poll]",
	Short: "Run the local HTTP API with the background poller.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, cfgPath, err := loadConfig()
		if err != nil {
			return err
		}
		var cfgVal atomic.Value // stores config.Config
		cfgVal.Store(cfg)

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		hub := events.NewHub()
		poller := &poll.Poller{
			DB:       db.Pool,
			Cfg:      &cfgVal,
			Hub:      hub,
			LockPath: poll.LockPath(global.dataDir),
		}
		if cfg.Telegram.Enabled {
			tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MinConfidence)
			if err != nil {
				log.Printf("[notify] telegram disabled: %v", err)
			} else {
				poller.Notify = tg
			}
		}
		if !serveFlags.noPoll {
			poller.Start(ctx)
		}

		mux := httpapi.NewMux(httpapi.Deps{
			DB:          db.Pool,
			Hub:         hub,
			CfgVal:      &cfgVal,
			Poller:      poller,
			UserCfgPath: cfgPath,
			LoadCfg:     func() (config.Config, error) { return readConfig(cfgPath) },
		})

		port := serveFlags.port
		if port == 0 {
			port = cfg.App.Port
		}
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		log.Printf("h1bhunt listening on http://%s (db=%s)", ln.Addr(), db.Path)

		srv := &http.Server{
			Handler:           httpapi.Handler(mux),
			ReadHeaderTimeout: 5 * time.Second,
			// Open SSE streams end with the command context.
			BaseContext: func(net.Listener) context.Context { return ctx },
		}

		errc := make(chan error, 1)
		go func() { errc <- srv.Serve(ln) }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		log.Printf("shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}
