package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/meur/modcatalog/internal/catalog"
	"github.com/meur/modcatalog/internal/models"
	"go.uber.org/zap"
)

const revisionHeader = "X-Catalog-Revision"

// handleGetCategories returns the category filter options
func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.Categories())
}

// handleGetMods returns the mods matching ?category= and ?q=
func (s *Server) handleGetMods(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = models.CategoryAll
	}
	query := r.URL.Query().Get("q")

	items := catalog.Filter(s.store.List(), category, query)

	w.Header().Set(revisionHeader, strconv.FormatInt(s.revision.Load(), 10))
	respondJSON(w, http.StatusOK, models.ModList{
		Items:      items,
		TotalCount: len(items),
	})
}

// handleGetMod returns a single mod by ID
func (s *Server) handleGetMod(w http.ResponseWriter, r *http.Request) {
	id, ok := modID(w, r)
	if !ok {
		return
	}

	mod, err := s.store.Get(id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mod)
}

// handleCreateMod adds a mod from a JSON body or the upload form.
// The form's file field is accepted but not stored.
func (s *Server) handleCreateMod(w http.ResponseWriter, r *http.Request) {
	var draft models.ModDraft

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if s.opts.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid form")
			return
		}
		draft = models.ModDraft{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
			Author:      r.FormValue("author"),
			Version:     r.FormValue("version"),
		}
	} else if err := decodeJSON(r, &draft); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if draft.Category == "" {
		draft.Category = models.CategoryTools
	}

	mod, err := s.store.Add(draft)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, mod)
}

// handleDownloadMod serves the attached file and counts the download
func (s *Server) handleDownloadMod(w http.ResponseWriter, r *http.Request) {
	id, ok := modID(w, r)
	if !ok {
		return
	}

	mod, err := s.store.Get(id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if !mod.HasFile() {
		s.respondStoreError(w, catalog.ErrFileUnavailable)
		return
	}

	data, err := catalog.DecodeDataURI(mod.DownloadURL)
	if err != nil {
		s.logger.Error("Stored file is unreadable", zap.Int("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Stored file is unreadable")
		return
	}

	if _, err := s.store.RecordDownload(id); err != nil {
		s.respondStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": mod.Name + ".exe"}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// respondStoreError maps catalog errors to HTTP responses
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "name, description, author, and version are required",
			"fields": verr.Fields,
		})
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "Mod not found")
	case errors.Is(err, catalog.ErrFileUnavailable):
		respondError(w, http.StatusNotFound, "File not available for this mod")
	default:
		s.logger.Error("Catalog operation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update catalog")
	}
}

func modID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid mod id")
		return 0, false
	}
	return id, true
}
