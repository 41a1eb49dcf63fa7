package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/repository"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/service"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	files    map[string]*File
	contents map[string]string
	folders  map[string][]string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		files:    map[string]*File{},
		contents: map[string]string{},
		folders:  map[string][]string{},
	}
}

func (s *fakeSource) add(folder, id, name, content string) {
	s.files[id] = &File{ID: id, Name: name}
	s.contents[id] = content
	s.folders[folder] = append(s.folders[folder], id)
}

func (s *fakeSource) ListFiles(_ context.Context, folderID string) ([]*File, error) {
	var out []*File
	for _, id := range s.folders[folderID] {
		out = append(out, s.files[id])
	}
	return out, nil
}

func (s *fakeSource) GetFile(_ context.Context, fileID string) (*File, error) {
	f, ok := s.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s not found", fileID)
	}
	return f, nil
}

func (s *fakeSource) DownloadFile(_ context.Context, fileID string, w io.Writer) error {
	content, ok := s.contents[fileID]
	if !ok {
		return fmt.Errorf("file %s not found", fileID)
	}
	_, err := io.WriteString(w, content)
	return err
}

type fakeFolders map[string]string

func (f fakeFolders) FindFolderByPath(_ context.Context, path string) (string, error) {
	id, ok := f[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFolderNotFound, path)
	}
	return id, nil
}

const recordsCSV = "id,state,product,demand\nr1,Delhi,Textiles,12\nr2,Gujarat,Electronics,20\n"

func TestDownloader_DownloadFolder(t *testing.T) {
	src := newFakeSource()
	src.add("folder", "1", "records.csv", recordsCSV)
	src.add("folder", "2", "notes.txt", "skip me")
	src.add("folder", "3", "suppliers.xlsx", "binary")

	dir := t.TempDir()
	files, err := NewDownloader(src).DownloadFolder(context.Background(), DownloadOptions{FolderID: "folder", DownloadDir: dir})
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "records.csv", files[0].Filename)
	assert.Equal(t, int64(len(recordsCSV)), files[0].Size)
	data, err := os.ReadFile(filepath.Join(dir, "records.csv"))
	require.NoError(t, err)
	assert.Equal(t, recordsCSV, string(data))
	assert.Equal(t, "suppliers.xlsx", files[1].Filename)

	_, err = NewDownloader(src).DownloadFolder(context.Background(), DownloadOptions{FolderID: "folder"})
	assert.Error(t, err)
}

func newTestHandler(t *testing.T) (*mux.Router, repository.RecordRepository, string) {
	t.Helper()
	src := newFakeSource()
	src.add("root", "rec", "records.csv", recordsCSV)
	src.add("root", "sup", "suppliers.csv", "name,reliability\nApex Logistics,90\n")
	src.add("reports", "bad", "records.pdf", "%PDF")

	repo := repository.NewMemoryRepository()
	dir := t.TempDir()
	ingest := NewIngestService(src, service.NewImportService(repo, nil, nil, ""), dir)

	router := mux.NewRouter()
	NewHandler(src, fakeFolders{"Reports/2025": "reports"}, ingest, "root").RegisterRoutes(router)
	return router, repo, dir
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler_ListFiles(t *testing.T) {
	router, _, _ := newTestHandler(t)

	rec := serve(router, http.MethodGet, "/api/drive/files")
	require.Equal(t, http.StatusOK, rec.Code)
	var files []File
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
	assert.Len(t, files, 2)

	rec = serve(router, http.MethodGet, "/api/drive/files?path=Reports/2025")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "records.pdf", files[0].Name)

	rec = serve(router, http.MethodGet, "/api/drive/files?path=Missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodGet, "/api/drive/files?folderId=empty")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_DownloadFile(t *testing.T) {
	router, _, _ := newTestHandler(t)

	rec := serve(router, http.MethodGet, "/api/drive/files/download?fileId=rec")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, recordsCSV, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "records.csv")

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/api/drive/files/download").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/drive/files/download?fileId=nope").Code)
}

func TestHandler_ImportFiles(t *testing.T) {
	router, repo, dir := newTestHandler(t)

	rec := serve(router, http.MethodPost, "/api/drive/import?recordsFileId=rec&suppliersFileId=sup")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var result domain.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Records)
	assert.Equal(t, 1, result.Suppliers)

	records, err := repo.ListRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Gujarat", records[1].State)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "downloads are removed after import")

	rec = serve(router, http.MethodPost, "/api/drive/import")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/api/drive/import?recordsFileId=bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ingestion failed"))

	rec = serve(router, http.MethodPost, "/api/drive/import?recordsFileId=nope")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `O\'Brien`, quote("O'Brien"))
	assert.Equal(t, `a\\b`, quote(`a\b`))
}
