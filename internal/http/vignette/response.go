package vignette

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/vignettes/internal/gateway"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

func writeData(w http.ResponseWriter, status int, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode data", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, gateway.Envelope{Status: "error", Kind: vignette.KindBackend.String(), Message: "internal error"})

		return
	}

	writeEnvelope(w, status, gateway.Envelope{Status: "success", Data: raw})
}

func writeError(w http.ResponseWriter, err error) {
	kind := vignette.KindOf(err)

	msg := "internal error"

	var e *vignette.Error
	if errors.As(err, &e) {
		msg = e.Message
	} else if errors.Is(err, vignette.ErrNotFound) {
		msg = "not found"
	}

	if kind == vignette.KindBackend {
		slog.Error("gateway call failed", "error", err)
	}

	writeEnvelope(w, statusFor(kind), gateway.Envelope{Status: "error", Kind: kind.String(), Message: msg})
}

func writeEnvelope(w http.ResponseWriter, status int, env gateway.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func statusFor(kind vignette.ErrorKind) int {
	switch kind {
	case vignette.KindValidation:
		return http.StatusUnprocessableEntity
	case vignette.KindNotFound:
		return http.StatusNotFound
	case vignette.KindMismatch, vignette.KindAlreadyProcessed:
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}
