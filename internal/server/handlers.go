package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/observability"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/pipeline"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type formatsBody struct {
	Formats  []string `json:"formats"`
	Palettes []string `json:"palettes"`
	MaxSize  int      `json:"max_size"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, formatsBody{
		Formats:  pipeline.Formats(),
		Palettes: palette.Names(),
		MaxSize:  s.cfg.MaxSize,
	})
}

func (s *Server) handleTiling(w http.ResponseWriter, r *http.Request) {
	params, err := s.decodeParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), params.Options())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(params.Format))
	w.Header().Set("X-Run-ID", res.RunID)
	w.Header().Set("X-Seed", strconv.FormatUint(res.Options.Seed, 10))
	w.Header().Set("X-Forbidden", fmt.Sprintf("%d,%d", res.Tiling.Forbidden.Row, res.Tiling.Forbidden.Col))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[params.Format])
}

// writeError maps coded errors to a status and a JSON body. Errors without a
// code are internal.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.IsClientError(err) {
		status = http.StatusBadRequest
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
