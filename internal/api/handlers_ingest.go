package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var errFileTooLarge = errors.New("file too large")

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.HasSuffix(filename, ".pdf") {
		jsonError(w, "Only PDF files are allowed", http.StatusBadRequest)
		return
	}

	// Buffer the upload to disk; the parser reads from a path.
	path := filepath.Join(s.cfg.DataDir, filename)
	if err := saveUpload(path, file, s.cfg.MaxUploadBytes); err != nil {
		if errors.Is(err, errFileTooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "Upload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	chunks, err := s.ingestor.IngestPDF(r.Context(), path)
	if err != nil {
		// The buffered copy is useless without its embeddings.
		os.Remove(path)
		s.log.Error("pdf ingestion failed", "file", filename, "error", err)
		jsonError(w, "Upload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":      fmt.Sprintf("Successfully processed %s", filename),
		"chunks_added": chunks,
	})
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleUploadText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	chunks, err := s.ingestor.IngestText(r.Context(), req.Text)
	if err != nil {
		s.log.Error("text ingestion failed", "error", err)
		jsonError(w, "Text upload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":      "Successfully processed text input",
		"chunks_added": chunks,
	})
}

// saveUpload copies the multipart file to path, refusing files over max
// bytes. A partial file is removed before returning an error.
func saveUpload(path string, file io.Reader, max int64) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}

	n, err := io.Copy(dst, io.LimitReader(file, max+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > max {
		err = errFileTooLarge
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
