// Package router exposes the booking flow over HTTP.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/suraja9/ocl-services/internal/booking/model"
	"github.com/suraja9/ocl-services/internal/booking/service"
	"github.com/suraja9/ocl-services/internal/booking/wizard"
	"github.com/suraja9/ocl-services/internal/invoice"
	"github.com/suraja9/ocl-services/internal/otp"
	"github.com/suraja9/ocl-services/internal/pincode"
)

type BookingRouter struct {
	bookings *service.BookingService
	sessions *wizard.SessionService
	pincodes *pincode.Service
	otp      *otp.Service
}

func NewBookingRouter(bookings *service.BookingService, sessions *wizard.SessionService, pincodes *pincode.Service, otpSvc *otp.Service) *BookingRouter {
	return &BookingRouter{
		bookings: bookings,
		sessions: sessions,
		pincodes: pincodes,
		otp:      otpSvc,
	}
}

// HandleLookupPincode handles GET /api/pincodes/{pincode}
// Response: Pincode with serviceability flag
func (br *BookingRouter) HandleLookupPincode(w http.ResponseWriter, r *http.Request) {
	pin := r.PathValue("pincode")
	entry, err := br.pincodes.Lookup(r.Context(), pin)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			http.Error(w, "pincode not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to look up pincode: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleSearchAddresses handles GET /api/addresses?phone={phone}
// Response: previously captured parties for the phone number, newest first
func (br *BookingRouter) HandleSearchAddresses(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		http.Error(w, "phone query parameter is required", http.StatusBadRequest)
		return
	}
	entries, err := br.pincodes.SearchByPhone(r.Context(), phone)
	if err != nil {
		http.Error(w, "failed to search addresses: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleSendOTP handles POST /api/otp/send
// Request body: {"phone": "..."}
func (br *BookingRouter) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Phone == "" {
		http.Error(w, "phone is required", http.StatusBadRequest)
		return
	}

	code, err := br.otp.Issue(r.Context(), req.Phone)
	if err != nil {
		http.Error(w, "failed to send OTP: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"phone":     code.Phone,
		"expiresAt": code.ExpiresAt,
	})
}

// HandleVerifyOTP handles POST /api/otp/verify
// Request body: {"phone": "...", "code": "..."}
func (br *BookingRouter) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	err := br.otp.Verify(r.Context(), req.Phone, req.Code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
	case errors.Is(err, otp.ErrCodeExpired),
		errors.Is(err, otp.ErrCodeMismatch),
		errors.Is(err, otp.ErrTooManyAttempts):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"verified": false,
			"reason":   err.Error(),
		})
	case errors.Is(err, model.ErrRecordNotFound):
		http.Error(w, "no OTP issued for this phone", http.StatusNotFound)
	default:
		http.Error(w, "failed to verify OTP: "+err.Error(), http.StatusInternalServerError)
	}
}

// HandleCreateSession handles POST /api/wizard/sessions
func (br *BookingRouter) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := br.sessions.Create(r.Context())
	if err != nil {
		http.Error(w, "failed to create session: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// HandleGetSession handles GET /api/wizard/sessions/{sessionID}
func (br *BookingRouter) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := br.sessionID(w, r)
	if !ok {
		return
	}
	session, err := br.sessions.Get(r.Context(), id)
	if err != nil {
		br.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleApplyAction handles POST /api/wizard/sessions/{sessionID}/actions
// Request body: {"type": "submitOrigin", "payload": {...}}
func (br *BookingRouter) HandleApplyAction(w http.ResponseWriter, r *http.Request) {
	id, ok := br.sessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	action, err := wizard.DecodeAction(req.Type, req.Payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := br.sessions.Apply(r.Context(), id, action)
	if err != nil {
		br.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleNextStep handles POST /api/wizard/sessions/{sessionID}/next
func (br *BookingRouter) HandleNextStep(w http.ResponseWriter, r *http.Request) {
	br.step(w, r, br.sessions.Next)
}

// HandlePreviousStep handles POST /api/wizard/sessions/{sessionID}/previous
func (br *BookingRouter) HandlePreviousStep(w http.ResponseWriter, r *http.Request) {
	br.step(w, r, br.sessions.Previous)
}

// HandleResetSession handles POST /api/wizard/sessions/{sessionID}/reset
func (br *BookingRouter) HandleResetSession(w http.ResponseWriter, r *http.Request) {
	br.step(w, r, br.sessions.Reset)
}

// HandleSubmitSession handles POST /api/wizard/sessions/{sessionID}/submit
// Response: BookingResult with the allocated consignment number
func (br *BookingRouter) HandleSubmitSession(w http.ResponseWriter, r *http.Request) {
	id, ok := br.sessionID(w, r)
	if !ok {
		return
	}
	result, err := br.sessions.Submit(r.Context(), id)
	if err != nil {
		if errors.Is(err, wizard.ErrStepIncomplete) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		br.sessionError(w, err)
		return
	}

	// Remember both parties for phone based address search on later bookings.
	if session, err := br.sessions.Get(r.Context(), id); err == nil {
		snap := session.Snapshot
		_ = br.pincodes.Remember(r.Context(), snap.Origin)
		_ = br.pincodes.Remember(r.Context(), snap.Destination)
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleGetBooking handles GET /api/office-bookings/{bookingID}
func (br *BookingRouter) HandleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("bookingID"))
	if err != nil {
		http.Error(w, "invalid booking ID", http.StatusBadRequest)
		return
	}
	booking, err := br.bookings.GetOfficeBookingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve booking: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// HandleGetInvoice handles GET /api/office-bookings/{bookingID}/invoice
// Response: the invoice PDF
func (br *BookingRouter) HandleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("bookingID"))
	if err != nil {
		http.Error(w, "invalid booking ID", http.StatusBadRequest)
		return
	}
	booking, err := br.bookings.GetOfficeBookingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve booking: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pdfBytes, err := invoice.Render(booking, time.Now())
	if err != nil {
		http.Error(w, "failed to render invoice: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="invoice-%s.pdf"`, booking.ConsignmentNumber))
	_, _ = w.Write(pdfBytes)
}

// HandleListAssignees handles GET /api/assignees?active=true
func (br *BookingRouter) HandleListAssignees(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	assignees, err := br.bookings.ListAssignees(r.Context(), activeOnly)
	if err != nil {
		http.Error(w, "failed to list assignees: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, assignees)
}

func (br *BookingRouter) step(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*wizard.Session, error)) {
	id, ok := br.sessionID(w, r)
	if !ok {
		return
	}
	session, err := op(r.Context(), id)
	if err != nil {
		br.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (br *BookingRouter) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("sessionID"))
	if err != nil {
		http.Error(w, "invalid session ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (br *BookingRouter) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrRecordNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, wizard.ErrStepIncomplete):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
