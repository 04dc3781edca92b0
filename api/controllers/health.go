package controllers

import (
	"net/http"

	"github.com/findlunch/ordercore/api/responses"
	"github.com/findlunch/ordercore/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FindLunch-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}
