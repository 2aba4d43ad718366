package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach extra routes.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{Hub: d.Hub, Poller: d.Poller, Now: d.clock}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Jobs
	jh := JobsHandler{DB: d.DB, Hub: d.Hub, Now: d.Now}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.Handle("/jobs/", LoopbackOnly(methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: jh.DeleteByPath, // expects /jobs/{id}
	})))

	// Sponsor catalog and visa-data employers
	sp := SponsorsHandler{DB: d.DB}
	mux.HandleFunc("/sponsors", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sp.List,
	}))
	mux.HandleFunc("/employers", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sp.Employers,
	}))

	ch := ClassifyHandler{CfgVal: d.CfgVal, Now: d.Now}
	mux.HandleFunc("/classify", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ch.Classify,
	}))

	// Config
	cfh := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cfh.Get,
		http.MethodPut: LoopbackOnly(http.HandlerFunc(cfh.Put)).ServeHTTP,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cfh.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cfh.Validate,
	}))

	// Secrets (use CfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.Handle("/api/secrets/imap", LoopbackOnly(methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetIMAPPassword,
	})))
	mux.Handle("/api/secrets/telegram", LoopbackOnly(methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetTelegramToken,
	})))

	// Scrape
	sch := ScrapeHandler{Poller: d.Poller}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	dbh := DBHandler{DB: d.DB, CfgVal: d.CfgVal, Now: d.Now}
	mux.Handle("/db/cleanup", LoopbackOnly(methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dbh.Cleanup,
	})))

	return mux
}

// Handler wraps mux with the standard middleware stack.
func Handler(mux http.Handler) http.Handler {
	return Chain(mux, RequestID, Recover, AccessLog, Cors)
}
