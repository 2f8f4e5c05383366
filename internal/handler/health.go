package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/perfreview/goalflow/internal/ctxkeys"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{"database": "ok"}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		data["app"] = cfg.AppName
		data["env"] = cfg.AppEnv
	}

	if h.db != nil {
		err := h.db.PingContext(ctx)
		if err != nil {
			slog.Error("health check failed", "error", err)
			data["database"] = "unavailable"
			RespondJSON(w, http.StatusServiceUnavailable, Envelope{Status: "error", Code: CodeInternal, Error: "database unavailable", Data: data})
			return
		}
	}

	RespondSuccess(w, http.StatusOK, data)
}
