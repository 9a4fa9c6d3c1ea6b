package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/packfinderz-shipping/api/responses"
	"github.com/angelmondragon/packfinderz-shipping/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a Pinger for readiness reporting. A nil Pinger is skipped.
type Dependency struct {
	Name   string
	Pinger Pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shipquote-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps ...Dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shipquote-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		var failures error
		for _, dep := range deps {
			if dep.Pinger == nil {
				checks[dep.Name] = "disabled"
				continue
			}
			if err := dep.Pinger.Ping(ctx); err != nil {
				checks[dep.Name] = "down"
				failures = multierr.Append(failures, fmt.Errorf("%s: %w", dep.Name, err))
				continue
			}
			checks[dep.Name] = "up"
		}

		if failures != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "dependencies unavailable").
				WithDetails(map[string]any{"checks": checks})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
