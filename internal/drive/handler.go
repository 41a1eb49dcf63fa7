package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/service"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// FolderResolver maps a folder path to its Drive id.
type FolderResolver interface {
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

type Handler struct {
	source        Source
	folders       FolderResolver
	ingestService *IngestService
	defaultFolder string
}

func NewHandler(source Source, folders FolderResolver, ingestService *IngestService, defaultFolder string) *Handler {
	return &Handler{
		source:        source,
		folders:       folders,
		ingestService: ingestService,
		defaultFolder: defaultFolder,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods(http.MethodGet)
	router.HandleFunc("/api/drive/files/download", h.DownloadFile).Methods(http.MethodGet)
	router.HandleFunc("/api/drive/import", h.ImportFiles).Methods(http.MethodPost)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folderId")
	if folderID == "" {
		folderID = h.defaultFolder
	}

	if folderPath := query.Get("path"); folderPath != "" && h.folders != nil {
		id, err := h.folders.FindFolderByPath(r.Context(), folderPath)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrFolderNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, err)
			return
		}
		folderID = id
	}

	files, err := h.source.ListFiles(r.Context(), folderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if files == nil {
		files = []*File{}
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		writeError(w, http.StatusBadRequest, errors.New("fileId parameter is required"))
		return
	}

	f, err := h.source.GetFile(r.Context(), fileID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	if f.MimeType != "" {
		w.Header().Set("Content-Type", f.MimeType)
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))

	if err := h.source.DownloadFile(r.Context(), fileID, w); err != nil {
		log.Error().Err(err).Str("file_id", fileID).Msg("drive: download failed")
	}
}

func (h *Handler) ImportFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	recordsID := query.Get("recordsFileId")
	if recordsID == "" {
		writeError(w, http.StatusBadRequest, errors.New("recordsFileId parameter is required"))
		return
	}

	result, err := h.ingestService.Import(r.Context(), recordsID, query.Get("suppliersFileId"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidImport) || errors.Is(err, service.ErrNoRecords) {
			status = http.StatusBadRequest
		}
		writeError(w, status, fmt.Errorf("ingestion failed: %w", err))
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("drive: encode response failed")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
