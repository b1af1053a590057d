package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"invoice-qc/internal/batch"
	"invoice-qc/internal/validate"
)

// Service wires the extraction and validation engines behind the REST API.
// The handlers only marshal requests into the core's data model and relay
// its outputs unchanged.
type Service struct {
	log          *zap.SugaredLogger
	validator    *validate.Validator
	processor    *batch.Processor
	maxBodyBytes int64
}

func NewService(logger *zap.Logger, validator *validate.Validator, processor *batch.Processor, maxBodyBytes int64) *Service {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 16 << 20
	}
	return &Service{
		log:          logger.Sugar(),
		validator:    validator,
		processor:    processor,
		maxBodyBytes: maxBodyBytes,
	}
}

// Router builds the HTTP routes.
func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/validate-json", s.handleValidateJSON).Methods(http.MethodPost)
	r.HandleFunc("/extract-and-validate", s.handleExtractAndValidate).Methods(http.MethodPost)
	return r
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorw("write response", "error", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
