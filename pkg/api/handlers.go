package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/boxlayout/pkg/buildinfo"
	"github.com/matzehuels/boxlayout/pkg/errors"
	boxio "github.com/matzehuels/boxlayout/pkg/io"
	"github.com/matzehuels/boxlayout/pkg/layout"
	"github.com/matzehuels/boxlayout/pkg/pipeline"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	root, ok := s.readTree(w, r)
	if !ok {
		return
	}
	opts := pipeline.Options{StrictIDs: queryBool(r, "strict"), Refresh: queryBool(r, "refresh")}

	l, hit, err := s.runner.ResolveWithCacheInfo(r.Context(), root, opts)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	data, err := boxio.MarshalLayout(l, root.ID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		StrictIDs: queryBool(r, "strict"),
		Refresh:   queryBool(r, "refresh"),
		Formats:   []string{format},
		Style:     r.URL.Query().Get("style"),
		Labels:    queryBool(r, "labels"),
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.respondErr(w, r, err)
		return
	}

	root, ok := s.readTree(w, r)
	if !ok {
		return
	}
	res, err := s.runner.Execute(r.Context(), root, opts)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.RenderHit))
	w.Header().Set("X-Run-ID", res.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// readTree decodes the request body, responding with an error itself when
// decoding fails.
func (s *Server) readTree(w http.ResponseWriter, r *http.Request) (layout.Root, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.respondError(w, r, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), "request body exceeds "+strconv.Itoa(MaxBodyBytes)+" bytes")
			return layout.Root{}, false
		}
		s.respondErr(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read body"))
		return layout.Root{}, false
	}
	root, err := boxio.ParseTree(body, boxio.FormatJSON)
	if err != nil {
		s.respondErr(w, r, err)
		return layout.Root{}, false
	}
	return root, true
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch code := errors.GetCode(err); {
	case code == errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.IsValidation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// message returns the text of the outermost coded error in the chain.
func message(err error) string {
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		switch c := e.(type) {
		case *errors.Error:
			if c.Cause != nil {
				return c.Message + ": " + c.Cause.Error()
			}
			return c.Message
		case interface{ Code() errors.Code }:
			return e.Error()
		}
	}
	return err.Error()
}

func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	msg := message(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFromContext(r.Context()), "err", err)
		if code == "" {
			code = string(errors.ErrCodeInternal)
		}
		msg = "internal server error"
	}
	s.respondError(w, r, status, code, msg)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	s.respondJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}
