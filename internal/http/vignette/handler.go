package vignette

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/vignettes/internal/gateway"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
)

// Handler exposes a vignette.Gateway over the backend's JSON API, so the HTTP
// client can be developed and tested against a local store.
type Handler struct {
	gw vignette.Gateway
}

func NewHandler(gw vignette.Gateway) *Handler {
	return &Handler{gw: gw}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/engins/{plate}", h.lookupAsset)
	r.Get("/vignettes/lookup", h.lookupTransaction)
	r.Post("/paiements", h.recordPayment)
	r.Post("/vignettes/livraison", h.finalizeDelivery)
}

func (h *Handler) lookupAsset(w http.ResponseWriter, r *http.Request) {
	res, err := h.gw.LookupAsset(r.Context(), chi.URLParam(r, "plate"))
	if err != nil {
		writeError(w, err)
		return
	}

	if res == nil || (res.Asset == nil && res.Vignette == nil) {
		writeError(w, &vignette.Error{Kind: vignette.KindNotFound, Message: "Engin introuvable."})
		return
	}

	writeData(w, http.StatusOK, gateway.EncodeResolution(res))
}

func (h *Handler) lookupTransaction(w http.ResponseWriter, r *http.Request) {
	plate := r.URL.Query().Get("plaque")
	reference := r.URL.Query().Get("reference")

	if plate == "" || reference == "" {
		writeError(w, vignette.Validation("plaque", "Les paramètres plaque et reference sont requis."))
		return
	}

	res, err := h.gw.LookupTransaction(r.Context(), plate, reference)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, gateway.EncodeResolution(res))
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req gateway.PaymentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, vignette.Validation("body", err.Error()))
		return
	}

	if req.AssetID == "" || !req.Amount.IsPositive() {
		writeError(w, vignette.Validation("asset_id", "Engin et montant requis."))
		return
	}

	rcpt, err := h.gw.RecordPayment(r.Context(), req.Decode())
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, gateway.PaymentReceiptPayload{Reference: rcpt.Reference, Status: string(rcpt.Status)})
}

func (h *Handler) finalizeDelivery(w http.ResponseWriter, r *http.Request) {
	var req gateway.DeliveryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, vignette.Validation("body", err.Error()))
		return
	}

	if req.Reference == "" {
		writeError(w, vignette.Validation("reference", "Référence requise."))
		return
	}

	rcpt, err := h.gw.FinalizeDelivery(r.Context(), vignette.DeliveryRequest{
		Reference: req.Reference,
		AssetID:   req.AssetID,
		AgentID:   req.AgentID,
		Site:      req.Site,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, gateway.DeliveryReceiptPayload{Reference: rcpt.Reference, DeliveredAt: rcpt.DeliveredAt})
}
