package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/reportview/internal/dom"
	"github.com/dgallion1/reportview/internal/page"
)

func (s *Server) handleToggleSection(w http.ResponseWriter, r *http.Request) {
	i, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	s.withPage(w, r, func(p *page.Page) error {
		_, err := p.ToggleSection(i)
		return err
	})
}

type keyRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleSectionKey(w http.ResponseWriter, r *http.Request) {
	i, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	var req keyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Key == "" {
		jsonError(w, "key is required", http.StatusBadRequest)
		return
	}
	s.withPage(w, r, func(p *page.Page) error {
		_, err := p.KeySection(i, req.Key)
		return err
	})
}

func (s *Server) handleCollapseAll(w http.ResponseWriter, r *http.Request) {
	s.withPage(w, r, func(p *page.Page) error {
		p.CollapseAll()
		return nil
	})
}

type navigateRequest struct {
	Href string `json:"href"`
}

type navigateResponse struct {
	pageState
	Intercepted bool   `json:"intercepted"`
	TargetID    string `json:"target_id,omitempty"`
	Expanded    []int  `json:"expanded"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var resp navigateResponse
	sess.Do(func(p *page.Page) error {
		res := p.Navigate(req.Href)
		resp.Intercepted = res.Intercepted
		if res.Target != nil {
			resp.TargetID = dom.ID(res.Target)
		}
		resp.Expanded = res.Expanded
		if resp.Expanded == nil {
			resp.Expanded = []int{}
		}
		resp.pageState = snapshot(sess, p)
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSelectRow(w http.ResponseWriter, r *http.Request) {
	row, ok := intParam(w, r, "row")
	if !ok {
		return
	}
	id := chi.URLParam(r, "tableID")
	s.withPage(w, r, func(p *page.Page) error {
		_, err := p.SelectRow(id, row)
		return err
	})
}

func (s *Server) handleResetTable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tableID")
	s.withPage(w, r, func(p *page.Page) error {
		_, err := p.ResetTable(id)
		return err
	})
}

func (s *Server) handleToggleAdvanced(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tableID")
	s.withPage(w, r, func(p *page.Page) error {
		_, err := p.ToggleAdvanced(id)
		return err
	})
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		jsonError(w, "invalid "+name+": "+chi.URLParam(r, name), http.StatusBadRequest)
		return 0, false
	}
	return v, true
}
