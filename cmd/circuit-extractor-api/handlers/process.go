// Package handlers provides HTTP handlers for the extractor API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/spherical/circuit-extractor/internal/domain"
	"github.com/spherical/circuit-extractor/internal/observability"
	"github.com/spherical/circuit-extractor/internal/pipeline"
	"github.com/spherical/circuit-extractor/internal/process"
)

// Form field names of the upload endpoints.
const (
	FieldFile            = "file"
	FieldInstanceKeyword = "instance_keyword"
	FieldOuterKeyword    = "outer_keyword"
)

// multipartOverhead is allowed on top of the file limit for boundaries and
// the keyword fields.
const multipartOverhead = 1 << 20

// ProcessHandler serves spreadsheet uploads.
type ProcessHandler struct {
	logger  *observability.Logger
	service *process.Service
}

// NewProcessHandler creates a new process handler.
func NewProcessHandler(logger *observability.Logger, service *process.Service) *ProcessHandler {
	return &ProcessHandler{
		logger:  logger,
		service: service,
	}
}

// InspectRowDTO is one enriched row in the inspect response.
type InspectRowDTO struct {
	Row     int               `json:"row"`
	Derived map[string]string `json:"derived"`
}

// InspectResponseDTO represents the API response for inspect.
type InspectResponseDTO struct {
	RunID      string          `json:"runId"`
	Report     pipeline.Report `json:"report"`
	SubsetA    []int           `json:"subsetA"`
	SubsetB    []int           `json:"subsetB"`
	SubsetC    []int           `json:"subsetC"`
	Rows       []InspectRowDTO `json:"rows"`
	DurationMs int64           `json:"durationMs"`
}

// Process handles POST /api/v1/process. The response body is the output
// workbook offered as an attachment.
func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	req, closeFile, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer closeFile()

	resp, err := h.service.Process(r.Context(), req)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	a := resp.Artifact
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, a.Name))
	w.Header().Set("Content-Length", strconv.Itoa(a.Size()))
	w.Header().Set("X-Run-ID", resp.RunID.String())
	w.Header().Set("X-Rows-Input", strconv.Itoa(resp.Report.InputRows))
	w.Header().Set("X-Rows-Output", strconv.Itoa(resp.Report.OutputRows))
	w.Header().Set("X-Rows-Separators", strconv.Itoa(resp.Report.Separators))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		h.logger.Warn().Err(err).Str("run_id", resp.RunID.String()).Msg("Failed to write artifact")
	}
}

// Inspect handles POST /api/v1/inspect. It returns the derived values and
// subset membership as JSON without building an artifact.
func (h *ProcessHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	req, closeFile, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer closeFile()

	resp, err := h.service.Inspect(r.Context(), req)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	res := resp.Result
	dto := InspectResponseDTO{
		RunID:      resp.RunID.String(),
		Report:     resp.Report,
		SubsetA:    rowNumbers(res.Subsets.A),
		SubsetB:    rowNumbers(res.Subsets.B),
		SubsetC:    rowNumbers(res.Subsets.C),
		Rows:       make([]InspectRowDTO, len(res.Enriched)),
		DurationMs: resp.Duration.Milliseconds(),
	}
	for i, e := range res.Enriched {
		derived := make(map[string]string)
		for j, f := range e.Derived.Values() {
			if f.Present {
				derived[pipeline.DerivedColumns[j]] = f.Value
			}
		}
		dto.Rows[i] = InspectRowDTO{Row: e.Index + 1, Derived: derived}
	}

	h.writeJSON(w, http.StatusOK, dto)
}

// parseUpload reads the multipart form. On failure it has already written
// the error response.
func (h *ProcessHandler) parseUpload(w http.ResponseWriter, r *http.Request) (process.Request, func(), bool) {
	cfg := h.service.Config()
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "upload too large",
				fmt.Sprintf("limit is %d bytes", cfg.MaxUploadBytes))
			return process.Request{}, nil, false
		}
		h.writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return process.Request{}, nil, false
	}

	file, header, err := r.FormFile(FieldFile)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file is required", err.Error())
		return process.Request{}, nil, false
	}

	req := process.Request{
		Input:           file,
		Filename:        header.Filename,
		InstanceKeyword: formValue(r.MultipartForm, FieldInstanceKeyword, cfg.DefaultInstanceKeyword),
		OuterKeyword:    formValue(r.MultipartForm, FieldOuterKeyword, cfg.DefaultOuterKeyword),
	}
	closeFile := func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}
	return req, closeFile, true
}

func formValue(form *multipart.Form, key, fallback string) string {
	if vs := form.Value[key]; len(vs) > 0 && strings.TrimSpace(vs[0]) != "" {
		return vs[0]
	}
	return fallback
}

func rowNumbers(rows []pipeline.EnrichedRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Index + 1
	}
	return out
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, process.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}

	switch domain.TypeOf(err) {
	case domain.ErrorTypeValidation, domain.ErrorTypeInput, domain.ErrorTypeIO:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *ProcessHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		h.logger.WithContext(ctx).Error().Err(err).Msg("Processing failed")
	}

	message := http.StatusText(status)
	if status == 499 {
		message = "request cancelled"
	}
	if t := domain.TypeOf(err); t != "" {
		message = string(t) + " error"
	}
	h.writeError(w, status, message, err.Error())
}

func (h *ProcessHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to encode response")
	}
}

func (h *ProcessHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	h.writeJSON(w, status, resp)
}
