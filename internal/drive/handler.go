package drive

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/andresuchdata/salesmap/internal/pipeline/salesreport"
	"github.com/andresuchdata/salesmap/internal/service"
)

type Handler struct {
	service       *Service
	ingestService *IngestService
}

func NewHandler(service *Service, ingestService *IngestService) *Handler {
	return &Handler{
		service:       service,
		ingestService: ingestService,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/drive/files/download", h.DownloadFile).Methods("GET")
	router.HandleFunc("/api/drive/reports", h.RunReport).Methods("POST")
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folderId")
	folderPath := query.Get("path")

	var err error
	if folderPath != "" {
		folderID, err = h.service.FindFolderByPath(r.Context(), folderPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	files, err := h.service.ListFiles(r.Context(), folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", xlsxMimeType)
	w.Header().Set("Content-Disposition", "attachment; filename=input.xlsx")

	if err := h.service.DownloadFile(r.Context(), fileID, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RunReportRequest is the JSON body of POST /api/drive/reports.
type RunReportRequest struct {
	FolderID string             `json:"folderId"`
	Variant  string             `json:"variant"`
	Start    string             `json:"start"`
	End      string             `json:"end"`
	Month    int                `json:"month"`
	M1Price  float64            `json:"m1Price"`
	M2Groups domain.PriceGroups `json:"m2Groups"`
}

// ToReportRequest validates the body and converts it for the report service.
func (b RunReportRequest) ToReportRequest() (service.ReportRequest, error) {
	variant, err := domain.ParseVariant(b.Variant)
	if err != nil {
		return service.ReportRequest{}, err
	}
	start, err := time.Parse("2006-01-02", b.Start)
	if err != nil {
		return service.ReportRequest{}, fmt.Errorf("start must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", b.End)
	if err != nil {
		return service.ReportRequest{}, fmt.Errorf("end must be YYYY-MM-DD")
	}
	return service.ReportRequest{
		Variant:  variant,
		Start:    start,
		End:      end,
		Month:    b.Month,
		M1Price:  b.M1Price,
		M2Groups: b.M2Groups,
	}, nil
}

func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	var body RunReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	req, err := body.ToReportRequest()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.ingestService.RunFolder(r.Context(), body.FolderID, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) ||
			errors.Is(err, salesreport.ErrMissingInput) ||
			errors.Is(err, salesreport.ErrInvalidMonth) ||
			errors.Is(err, salesreport.ErrInvalidDateRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("folder", body.FolderID).Msg("drive report failed")
		http.Error(w, "report generation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":    res.Run.ID,
		"rows":      res.Run.TotalRows,
		"file_name": res.FileName,
		"preview":   res.Preview,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
