package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/meur/modcatalog/internal/models"
	"github.com/meur/modcatalog/internal/upload"
)

const defaultUploadFileName = "mod.exe"

// handleAttachFile runs the admin attach flow for the uploaded multipart "file"
func (s *Server) handleAttachFile(w http.ResponseWriter, r *http.Request) {
	id, ok := modID(w, r)
	if !ok {
		return
	}

	if !s.attacher.CanAttach(id) {
		respondError(w, http.StatusForbidden, "File upload is not allowed for this mod")
		return
	}
	if s.attacher.InFlight(id) {
		respondError(w, http.StatusConflict, "An upload for this mod is already in progress")
		return
	}

	if s.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	mod, err := s.attacher.Attach(r.Context(), id, header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNotPermitted):
			respondError(w, http.StatusForbidden, "File upload is not allowed for this mod")
		case errors.Is(err, upload.ErrAttachInProgress):
			respondError(w, http.StatusConflict, "An upload for this mod is already in progress")
		case errors.Is(err, upload.ErrFileTooLarge):
			respondError(w, http.StatusRequestEntityTooLarge, "File is too large")
		case errors.Is(err, upload.ErrUploadFailed):
			respondError(w, http.StatusBadGateway, "Failed to upload the file")
		default:
			s.respondStoreError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, mod)
}

// handleUploadFile accepts a base64 file for a mod and echoes it back
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	var req models.UploadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FileName == "" {
		req.FileName = defaultUploadFileName
	}
	if req.FileContent == "" || req.ModID == "" {
		respondError(w, http.StatusBadRequest, "Missing file content or mod ID")
		return
	}

	respondJSON(w, http.StatusOK, models.UploadResponse{
		FileID:      newFileID(req.ModID),
		FileName:    req.FileName,
		ModID:       req.ModID,
		FileContent: req.FileContent,
		Uploaded:    true,
	})
}

// handleGetUploadFile is the retrieval side of the upload endpoint.
// Files are served from the catalog, so this only checks the request shape.
func (s *Server) handleGetUploadFile(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("fileId") == "" {
		respondError(w, http.StatusBadRequest, "Missing file ID")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "File retrieval placeholder"})
}

// newFileID is the mod id plus a short random hex suffix
func newFileID(modID string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return modID + "_" + hex[:8]
}
