package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vindo333/extractor/internal/doctree"
	"github.com/vindo333/extractor/internal/pipeline"
)

const errMissingParams = "Missing required parameters"

// urlItem accepts either a bare URL string or {"link": ..., "html": ...,
// "contentType": ...}.
type urlItem struct {
	Link        string `json:"link"`
	HTML        string `json:"html,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

func (u *urlItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		u.Link = s
		return nil
	}
	type plain urlItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("url entry must be a string or an object with a link: %w", err)
	}
	*u = urlItem(p)
	return nil
}

type extractRequest struct {
	URLs           []urlItem `json:"urls"`
	APIKey         string    `json:"apiKey"`
	Language       string    `json:"language"`
	IncludeOutline bool      `json:"includeOutline"`
}

// decodeExtractRequest reads and validates the body shared by the sync and
// async extract endpoints. It writes the error response itself.
func (s *Server) decodeExtractRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)

	var body extractRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxRequestBytes), http.StatusRequestEntityTooLarge)
			return pipeline.Request{}, false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return pipeline.Request{}, false
	}

	var sources []pipeline.Source
	for _, u := range body.URLs {
		link := strings.TrimSpace(u.Link)
		if link == "" {
			continue
		}
		src := pipeline.Source{URL: link, ContentType: u.ContentType}
		if u.HTML != "" {
			src.Body = []byte(u.HTML)
			if src.ContentType == "" {
				src.ContentType = "text/html"
			}
		}
		sources = append(sources, src)
	}

	credential := body.APIKey
	if credential == "" {
		credential = s.cfg.APIKey()
	}
	if len(sources) == 0 || credential == "" {
		jsonError(w, errMissingParams, http.StatusBadRequest)
		return pipeline.Request{}, false
	}

	language := body.Language
	if language == "" {
		language = s.cfg.DefaultLanguage
	}
	return pipeline.Request{
		Sources:        sources,
		Credential:     credential,
		Language:       language,
		IncludeOutline: body.IncludeOutline,
	}, true
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeExtractRequest(w, r)
	if !ok {
		return
	}
	s.log.Info("starting extraction", "urls", len(req.Sources), "language", req.Language)
	writeJSON(w, http.StatusOK, s.orchestrator.Run(r.Context(), req))
}

type hierarchyRequest struct {
	Headings []doctree.Heading `json:"headings"`
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)

	var body hierarchyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	for i, h := range body.Headings {
		if h.Level < 1 || h.Level > 6 {
			jsonError(w, fmt.Sprintf("heading %d: level must be 1..6", i), http.StatusBadRequest)
			return
		}
	}
	writeJSON(w, http.StatusOK, doctree.BuildHierarchy(body.Headings))
}
