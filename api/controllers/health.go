package controllers

import (
	"net/http"

	"github.com/dairydesk/dairydesk-backend/api/responses"
	"github.com/dairydesk/dairydesk-backend/pkg/config"
	"github.com/dairydesk/dairydesk-backend/pkg/db"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
	pkgredis "github.com/dairydesk/dairydesk-backend/pkg/redis"
)

// HealthLive answers as soon as the process is serving requests.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DairyDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady additionally pings postgres and redis so the probe fails when
// a dependency is down.
func HealthReady(cfg *config.Config, database db.Pinger, cache pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DairyDesk-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
