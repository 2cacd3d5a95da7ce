package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/readmedraft/readmed/internal/document"
	"github.com/readmedraft/readmed/internal/draft"
	"github.com/readmedraft/readmed/internal/marker"
)

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSetDraft(w http.ResponseWriter, r *http.Request) {
	var d document.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		jsonError(w, "invalid draft: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.store.SetDraft(d)
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleResetDraft(w http.ResponseWriter, r *http.Request) {
	s.store.Reset()
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Save(r.Context()); err != nil {
		jsonError(w, "save failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleResetSaveStatus(w http.ResponseWriter, r *http.Request) {
	s.store.ResetSaveStatus()
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

type addSectionRequest struct {
	Template string `json:"template,omitempty"`
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	var req addSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	var sec document.Section
	if req.Template != "" {
		tmpl, ok := s.catalog.Get(req.Template)
		if !ok {
			jsonError(w, "unknown template: "+req.Template, http.StatusNotFound)
			return
		}
		// The TOC template maps to the reserved id so the store keeps its
		// content regenerated; everything else gets a fresh id per use.
		id := marker.NewID()
		if tmpl.Slug == document.TOCID {
			id = document.TOCID
		}
		sec = document.Section{ID: id, Title: tmpl.Title, Content: tmpl.Content}
	} else {
		if req.Title == "" && req.Content == "" {
			jsonError(w, "template or section body is required", http.StatusBadRequest)
			return
		}
		id := req.ID
		if id == "" {
			id = marker.NewID()
		}
		sec = document.Section{ID: id, Title: req.Title, Content: req.Content}
	}

	s.store.AddSection(sec)
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

type updateSectionRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sectionID")
	var req updateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.UpdateSection(id, req.Title, req.Content); err != nil {
		sectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sectionID")
	if err := s.store.DeleteSection(id); err != nil {
		sectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleToggleSelection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sectionID")
	var req struct {
		Included bool `json:"included"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.ToggleSelection(id, req.Included); err != nil {
		sectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleReorderSelections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order []string `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.store.Reorder(req.Order)
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSetTitle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Included bool   `json:"included"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.store.SetTitle(req.Title, req.Included)
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSyncMarkdown(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Markdown string `json:"markdown"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.store.SyncFromMarkdown(req.Markdown)
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(snap.Draft.Markdown))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	var buf bytes.Buffer
	if err := s.renderer.Convert([]byte(snap.Draft.Markdown), &buf); err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func sectionError(w http.ResponseWriter, err error) {
	if errors.Is(err, draft.ErrSectionNotFound) {
		jsonError(w, "section not found", http.StatusNotFound)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
