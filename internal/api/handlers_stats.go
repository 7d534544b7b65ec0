package api

import "net/http"

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	p := s.extractor.Provider()
	writeJSON(w, http.StatusOK, map[string]any{
		"provider": p.Name(),
		"model":    p.Model(),
		"stats":    s.extractor.Stats(),
	})
}
