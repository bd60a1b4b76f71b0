package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/reportview/internal/doctree"
	"github.com/dgallion1/reportview/internal/page"
	"github.com/dgallion1/reportview/internal/session"
)

type sectionState struct {
	Index    int  `json:"index"`
	Expanded bool `json:"expanded"`
}

type tableState struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Rows           int      `json:"rows"`
	Selected       int      `json:"selected"` // serial of the selected row, 0 when none
	Headers        []string `json:"headers"`
	AdvancedHidden bool     `json:"advanced_hidden"`
}

// pageState is the observable state of a live page after an event.
type pageState struct {
	SessionID       string               `json:"session_id"`
	CollapseLabel   string               `json:"collapse_label"`
	AllCollapsed    bool                 `json:"all_collapsed"`
	SidebarExpanded bool                 `json:"sidebar_expanded"`
	Sections        []sectionState       `json:"sections"`
	Tables          []tableState         `json:"tables"`
	Scrolls         []page.ScrollRequest `json:"scrolls"`
	Copied          []string             `json:"copied"`
}

func snapshot(sess *session.Session, p *page.Page) pageState {
	st := pageState{
		SessionID:       sess.ID,
		CollapseLabel:   p.Collapse.Label(),
		AllCollapsed:    p.Collapse.AllCollapsed(),
		SidebarExpanded: p.Sidebar.Expanded(),
		Sections:        make([]sectionState, 0, p.Outline.Len()),
		Tables:          make([]tableState, 0, len(p.Tables)),
		Scrolls:         sess.Scrolls(),
		Copied:          sess.Copied(),
	}
	for _, s := range p.Outline.Sections() {
		st.Sections = append(st.Sections, sectionState{Index: s.Index, Expanded: p.Outline.Expanded(s.Index)})
	}
	for _, t := range p.Tables {
		ts := tableState{
			ID:             t.ID(),
			Title:          t.Title(),
			Rows:           t.Len(),
			Headers:        t.Headers(),
			AdvancedHidden: t.AdvancedHidden(),
		}
		if i, ok := t.Selected(); ok {
			ts.Selected = i + 1
		}
		st.Tables = append(st.Tables, ts)
	}
	if st.Scrolls == nil {
		st.Scrolls = []page.ScrollRequest{}
	}
	if st.Copied == nil {
		st.Copied = []string{}
	}
	return st
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		if errors.Is(err, session.ErrLimitReached) {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		s.log.Error("create session failed", "error", err)
		jsonError(w, "failed to load report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var resp struct {
		pageState
		Title   string           `json:"title"`
		Outline *doctree.DocTree `json:"outline"`
	}
	sess.Do(func(p *page.Page) error {
		resp.pageState = snapshot(sess, p)
		resp.Title = p.Title
		resp.Outline = p.Tree()
		return nil
	})
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRenderPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := sess.Do(func(p *page.Page) error { return p.Render(w) })
	if err != nil {
		s.log.Error("render page failed", "session_id", sess.ID, "error", err)
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var tree *doctree.DocTree
	sess.Do(func(p *page.Page) error {
		tree = p.Tree()
		return nil
	})
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withPage(w, r, func(p *page.Page) error { return nil })
}

type clickRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.withPage(w, r, func(p *page.Page) error {
		_, err := p.ClickID(req.ID)
		return err
	})
}

// session resolves the session named in the URL, writing a 404 if absent.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// withPage runs fn on the session's page and answers with the resulting
// page state.
func (s *Server) withPage(w http.ResponseWriter, r *http.Request, fn func(p *page.Page) error) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var st pageState
	err := sess.Do(func(p *page.Page) error {
		if err := fn(p); err != nil {
			return err
		}
		st = snapshot(sess, p)
		return nil
	})
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, page.ErrNoSection),
		errors.Is(err, page.ErrNoTable),
		errors.Is(err, page.ErrNoRow),
		errors.Is(err, page.ErrNoElement):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
