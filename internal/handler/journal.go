package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// JournalHandler serves the journal page — the form plus the entry list.
// Templates are parsed once at startup and reused on every request.
type JournalHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewJournalHandler parses the page templates.
// base.html defines the page shell with a {{template "content" .}} slot;
// journal.html fills it via {{define "content"}}.
func NewJournalHandler(templateDir string, logger *slog.Logger) (*JournalHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "journal.html"),
	)
	if err != nil {
		return nil, err
	}

	return &JournalHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleJournal serves the journal page.
func (h *JournalHandler) HandleJournal(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title": "Coffee Journal",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render journal template",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
