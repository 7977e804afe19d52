package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/repository"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validate
	log      *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, validate: validator.New(), log: log}
}

// RegisterRoutes mounts the public routes on public and the rest on protected
func (h *Handler) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/login", h.Login).Methods("POST")

	protected.HandleFunc("/students", h.AdmitStudent).Methods("POST")
	protected.HandleFunc("/students/{id}/financials", h.StudentFinancials).Methods("GET")
	protected.HandleFunc("/students/{id}/fee", h.ChangeFee).Methods("PUT")
	protected.HandleFunc("/students/{id}/deactivate", h.Deactivate).Methods("POST")
	protected.HandleFunc("/students/{id}/reactivate", h.Reactivate).Methods("POST")
	protected.HandleFunc("/students/{id}/waive", h.WaiveFee).Methods("POST")
	protected.HandleFunc("/students/{id}/seat", h.AssignSeat).Methods("PUT")
	protected.HandleFunc("/students/{id}/seat", h.ReleaseSeat).Methods("DELETE")
	protected.HandleFunc("/payments", h.RecordPayment).Methods("POST")
	protected.HandleFunc("/payments/{id}", h.UpdatePayment).Methods("PUT")
	protected.HandleFunc("/payments/{id}", h.DeletePayment).Methods("DELETE")
	protected.HandleFunc("/seats/{seatId}/status", h.SeatStatus).Methods("GET")
	protected.HandleFunc("/dues", h.DueList).Methods("GET")
	protected.HandleFunc("/alerts", h.Alerts).Methods("GET")
	protected.HandleFunc("/alerts/deactivate", h.DeactivateOverdue).Methods("POST")
	protected.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type feeRequest struct {
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
}

type seatRequest struct {
	SeatID string `json:"seat_id" validate:"required"`
}

// Login handles owner authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AdmitStudent handles student admission
func (h *Handler) AdmitStudent(w http.ResponseWriter, r *http.Request) {
	var req service.AdmissionRequest
	if !h.decode(w, r, &req) {
		return
	}
	student, err := h.svc.AdmitStudent(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

// StudentFinancials returns one student's billing position
func (h *Handler) StudentFinancials(w http.ResponseWriter, r *http.Request) {
	fin, err := h.svc.StudentFinancials(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fin)
}

// ChangeFee sets a new monthly fee effective today
func (h *Handler) ChangeFee(w http.ResponseWriter, r *http.Request) {
	var req feeRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.svc.ChangeFee(r.Context(), id, req.MonthlyFee); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "monthly_fee": req.MonthlyFee.StringFixed(2)})
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deactivated"})
}

func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.Reactivate(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "active"})
}

// RecordPayment stores a payment; amount and discount accept numbers or numeric strings
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var p models.Payment
	if !h.decode(w, r, &p) {
		return
	}
	if err := h.svc.RecordPayment(r.Context(), &p); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// WaiveFee forgives one month of the student's fee
func (h *Handler) WaiveFee(w http.ResponseWriter, r *http.Request) {
	waiver, err := h.svc.WaiveFee(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, waiver)
}

// UpdatePayment corrects a recorded payment
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var p models.Payment
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.log.WithError(err).Debug("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = mux.Vars(r)["id"]
	updated, err := h.svc.UpdatePayment(r.Context(), &p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePayment(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AssignSeat(w http.ResponseWriter, r *http.Request) {
	var req seatRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.svc.AssignSeat(r.Context(), id, req.SeatID); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "seat_id": req.SeatID})
}

func (h *Handler) ReleaseSeat(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.ReleaseSeat(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "seat_id": ""})
}

func (h *Handler) SeatStatus(w http.ResponseWriter, r *http.Request) {
	seat, err := h.svc.SeatStatus(r.Context(), mux.Vars(r)["seatId"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seat)
}

func (h *Handler) DueList(w http.ResponseWriter, r *http.Request) {
	due, err := h.svc.DueList(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if due == nil {
		due = []models.StudentFinancials{}
	}
	writeJSON(w, http.StatusOK, due)
}

func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.Alerts(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// DeactivateOverdue runs the bulk auto-deactivation on demand
func (h *Handler) DeactivateOverdue(w http.ResponseWriter, r *http.Request) {
	rolls, err := h.svc.DeactivateOverdue(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if rolls == nil {
		rolls = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"deactivated": rolls})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// decode reads and validates the JSON body, writing a 400 on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.WithError(err).Debug("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.fail(w, err)
		return false
	}
	return true
}

// fail maps service errors to HTTP status codes
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		http.Error(w, verrs.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, service.ErrDuplicateAadhaar), errors.Is(err, service.ErrSeatTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		h.log.WithError(err).Error("Request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
