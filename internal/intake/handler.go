package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/suraja9/ocl-services/internal/booking/calc"
	"github.com/suraja9/ocl-services/internal/events"
)

// Handler exposes the scan endpoints for the receiving screens.
type Handler struct {
	admin    *Resolver
	medicine *Resolver
	logs     map[string]*ReceivedLog
	store    *Store
	bus      *events.Bus
}

func NewHandler(admin, medicine *Resolver, logs map[string]*ReceivedLog, store *Store, bus *events.Bus) *Handler {
	return &Handler{admin: admin, medicine: medicine, logs: logs, store: store, bus: bus}
}

type scanRequest struct {
	ConsignmentNumber string `json:"consignmentNumber"`
}

// HandleScan handles POST /api/intake/scan requests.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	h.scan(w, r, h.admin)
}

// HandleMedicineScan handles POST /api/intake/medicine/scan requests.
func (h *Handler) HandleMedicineScan(w http.ResponseWriter, r *http.Request) {
	h.scan(w, r, h.medicine)
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request, resolver *Resolver) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	outcome, err := resolver.ResolveAndReceive(r.Context(), req.ConsignmentNumber)
	if err != nil {
		if errors.Is(err, ErrScanInFlight) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(outcome); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleListReceived handles GET /api/intake/received?channel={channel} with
// optional offset and limit query parameters.
func (h *Handler) HandleListReceived(w http.ResponseWriter, r *http.Request) {
	log, ok := h.logs[r.URL.Query().Get("channel")]
	if !ok {
		http.Error(w, "unknown or missing 'channel' query parameter", http.StatusBadRequest)
		return
	}

	var offset, limit *int
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid 'offset' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		offset = &v
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		limit = &v
	}

	entries, err := log.List(r.Context(), offset, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list received entries: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleRecentReceived handles GET /api/intake/recent?channel={channel}.
func (h *Handler) HandleRecentReceived(w http.ResponseWriter, r *http.Request) {
	log, ok := h.logs[r.URL.Query().Get("channel")]
	if !ok {
		http.Error(w, "unknown or missing 'channel' query parameter", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(log.Recent()); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleClearMedicineReceived handles DELETE /api/intake/medicine/received.
func (h *Handler) HandleClearMedicineReceived(w http.ResponseWriter, r *http.Request) {
	log, ok := h.logs[ChannelMedicine]
	if !ok {
		http.Error(w, "medicine channel is not configured", http.StatusInternalServerError)
		return
	}
	if err := log.ClearAll(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("failed to clear received entries: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type weightUpdateRequest struct {
	ActualWeight float64 `json:"actualWeight"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
}

// HandleUpdateWeight handles PATCH /api/tracking/{consignmentNumber}/weight.
// The chargeable weight is rederived from the submitted measurements.
func (h *Handler) HandleUpdateWeight(w http.ResponseWriter, r *http.Request) {
	consignmentNumber := r.PathValue("consignmentNumber")
	if consignmentNumber == "" {
		http.Error(w, "missing consignmentNumber in path", http.StatusBadRequest)
		return
	}

	var req weightUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	volumetric := calc.VolumetricWeight(req.Length, req.Width, req.Height)
	chargeable := calc.ChargeableWeight(req.ActualWeight, volumetric)

	rec, err := h.store.UpdateTrackingWeight(r.Context(), consignmentNumber, req.ActualWeight, chargeable)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to update weights: %v", err), http.StatusNotFound)
		return
	}

	if h.bus != nil {
		_ = h.bus.Publish(r.Context(), events.OrderWeightUpdated{
			OrderID:           rec.ID,
			ConsignmentNumber: rec.ConsignmentNumber,
			ActualWeight:      rec.ActualWeight,
			ChargeableWeight:  rec.ChargeableWeight,
			Timestamp:         time.Now().UTC(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}
