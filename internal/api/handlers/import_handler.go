package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	service  *service.ImportService
	maxBytes int64
}

// NewImportHandler bounds request bodies to maxMB megabytes; zero or less
// means 32.
func NewImportHandler(service *service.ImportService, maxMB int64) *ImportHandler {
	if maxMB <= 0 {
		maxMB = 32
	}
	return &ImportHandler{service: service, maxBytes: maxMB << 20}
}

// Import replaces the record store with the uploaded "records" table and,
// when present, the "suppliers" table.
func (h *ImportHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	records, err := c.FormFile("records")
	if err != nil {
		h.formFileError(c, "records", err)
		return
	}

	recordFile, err := readFormFile(records)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid records file", err)
		return
	}
	req := service.ImportRequest{Records: recordFile}

	suppliers, err := c.FormFile("suppliers")
	switch {
	case err == nil:
		supplierFile, err := readFormFile(suppliers)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid suppliers file", err)
			return
		}
		req.Suppliers = &supplierFile
	case !errors.Is(err, http.ErrMissingFile):
		h.formFileError(c, "suppliers", err)
		return
	}

	result, err := h.service.Import(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrNoRecords), errors.Is(err, service.ErrInvalidImport):
		errorResponse(c, http.StatusBadRequest, "import rejected", err)
		return
	case err != nil:
		errorResponse(c, http.StatusInternalServerError, "import failed", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ImportHandler) formFileError(c *gin.Context, field string, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		errorResponse(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds %d MB", h.maxBytes>>20), err)
	case errors.Is(err, http.ErrMissingFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " file is required"})
	default:
		errorResponse(c, http.StatusBadRequest, "invalid "+field+" upload", err)
	}
}

func readFormFile(fh *multipart.FileHeader) (service.ImportFile, error) {
	f, err := fh.Open()
	if err != nil {
		return service.ImportFile{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.ImportFile{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return service.ImportFile{Name: fh.Filename, Data: data}, nil
}
