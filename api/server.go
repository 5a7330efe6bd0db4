// Package api - Thin, deterministic HTTP layer.
// Responsible only for input ingestion, core orchestration and output
// serialization. Cost, feasibility, DFM and scheduling logic live in
// the core packages.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	shoperrors "shopquote/internal/errors"
	"shopquote/internal/logging"

	"shopquote/core/capacity"
	"shopquote/core/catalog"
	"shopquote/core/dfm"
	"shopquote/core/feasibility"
	"shopquote/core/pricing"
	"shopquote/core/types"
)

// Server is the HTTP API server
type Server struct {
	router    chi.Router
	catalog   *catalog.Catalog
	engine    *pricing.Engine
	scheduler *capacity.Scheduler
	version   string
	log       *zap.Logger
}

// NewServer wires the core components behind the HTTP surface
func NewServer(version string, cat *catalog.Catalog, engine *pricing.Engine, scheduler *capacity.Scheduler) *Server {
	s := &Server{
		catalog:   cat,
		engine:    engine,
		scheduler: scheduler,
		version:   version,
		log:       logging.With(zap.String("component", "api")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/quote", s.handleQuote)
	r.Post("/quote/tiers", s.handleTiers)
	r.Post("/feasibility", s.handleFeasibility)
	r.Post("/dfm", s.handleDFM)
	r.Post("/capacity/reserve", s.handleReserve)
	r.Get("/capacity/slot", s.handleSlot)
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := s.engine.Price(r.Context(), &req.Item, s.catalog)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.log.Info("quote priced",
		zap.String("part", req.Item.PartID),
		zap.String("process", req.Item.Process.String()),
		zap.String("machine", result.MachineID),
		zap.Duration("elapsed", time.Since(start)))
	s.writeJSON(w, http.StatusOK, QuoteResponse{
		QuoteID: uuid.NewString(),
		Result:  result,
	})
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	var req TiersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	tiers, err := s.engine.PriceTiers(r.Context(), &req.Item, s.catalog, req.Quantities)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, TiersResponse{
		QuoteID: uuid.NewString(),
		Tiers:   tiers,
	})
}

func (s *Server) handleFeasibility(w http.ResponseWriter, r *http.Request) {
	var req FeasibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Item.Validate(); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var machine *types.Machine
	for i := range s.catalog.Machines {
		if s.catalog.Machines[i].ID == req.MachineID {
			machine = &s.catalog.Machines[i]
			break
		}
	}
	if machine == nil {
		s.writeDomainError(w, shoperrors.NotFound("machine", req.MachineID))
		return
	}

	material, _ := s.catalog.Material(req.Item.MaterialID)
	result := feasibility.Check(&req.Item, machine, material)
	s.writeJSON(w, http.StatusOK, FeasibilityResponse{
		MachineID: req.MachineID,
		Result:    result,
	})
}

func (s *Server) handleDFM(w http.ResponseWriter, r *http.Request) {
	var req DFMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if !req.Process.Valid() {
		s.writeError(w, string(shoperrors.TypeValidation), "unknown process kind", http.StatusBadRequest)
		return
	}
	if !req.Geometry.Valid() {
		s.writeError(w, string(shoperrors.TypeValidation), "geometry summary is missing or malformed", http.StatusBadRequest)
		return
	}

	ctx := &dfm.Context{
		Process:        req.Process,
		Geometry:       req.Geometry,
		Certifications: req.Certifications,
		Purpose:        req.Purpose,
	}
	if req.MaterialID != "" {
		ctx.Material, _ = s.catalog.Material(req.MaterialID)
	}
	if req.ToleranceID != "" {
		if tol, ok := s.catalog.Tolerance(req.ToleranceID); ok {
			ctx.ToleranceMM = &tol.ValueMM
		}
	}

	s.writeJSON(w, http.StatusOK, DFMResponse{Result: dfm.Analyze(ctx)})
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	var req ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if req.MachineID == "" || req.Minutes <= 0 {
		s.writeError(w, string(shoperrors.TypeValidation), "machine_id and positive minutes are required", http.StatusBadRequest)
		return
	}

	shipDate, err := s.scheduler.Reserve(r.Context(), req.MachineID, req.Minutes, req.LeadTime)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ReserveResponse{
		ReservationID: uuid.NewString(),
		MachineID:     req.MachineID,
		ShipDate:      shipDate.Format("2006-01-02"),
	})
}

func (s *Server) handleSlot(w http.ResponseWriter, r *http.Request) {
	machineID := r.URL.Query().Get("machine_id")
	minutes, err := strconv.ParseFloat(r.URL.Query().Get("minutes"), 64)
	if machineID == "" || err != nil || minutes <= 0 {
		s.writeError(w, string(shoperrors.TypeValidation), "machine_id and positive minutes are required", http.StatusBadRequest)
		return
	}
	lead := types.LeadTimeClass(r.URL.Query().Get("lead_time"))
	if lead == "" {
		lead = types.LeadStandard
	}

	slot, err := s.scheduler.FindSlot(r.Context(), machineID, minutes, lead)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SlotResponse{MachineID: machineID, Slot: slot})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeDomainError maps the error taxonomy onto HTTP statuses
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(shoperrors.TypeInternal)

	if e, ok := err.(*shoperrors.Error); ok {
		code = string(e.Type)
		switch e.Type {
		case shoperrors.TypeValidation, shoperrors.TypeParsing:
			status = http.StatusBadRequest
		case shoperrors.TypeNotFound:
			status = http.StatusNotFound
		case shoperrors.TypeConflict:
			status = http.StatusConflict
		case shoperrors.TypeNotSupported:
			status = http.StatusUnprocessableEntity
		}
	}
	s.writeError(w, code, err.Error(), status)
}
