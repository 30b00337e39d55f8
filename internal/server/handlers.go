package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/hardref/pkg/buildinfo"
	"github.com/matzehuels/hardref/pkg/errors"
	"github.com/matzehuels/hardref/pkg/hardref"
	"github.com/matzehuels/hardref/pkg/pipeline"
	"github.com/matzehuels/hardref/pkg/report"
	"github.com/matzehuels/hardref/pkg/snapshot"
)

// SnapshotPayload carries an inline snapshot in one of two encodings.
type SnapshotPayload struct {
	Snapshot     json.RawMessage `json:"snapshot,omitempty"`
	SnapshotTOML string          `json:"snapshot_toml,omitempty"`
}

// decode parses whichever encoding is present.
func (p SnapshotPayload) decode() (*snapshot.Snapshot, error) {
	hasJSON := len(p.Snapshot) > 0 && string(p.Snapshot) != "null"
	hasTOML := strings.TrimSpace(p.SnapshotTOML) != ""
	switch {
	case hasJSON && hasTOML:
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot and snapshot_toml are mutually exclusive")
	case hasJSON:
		return snapshot.Decode(p.Snapshot, snapshot.FormatJSON)
	case hasTOML:
		return snapshot.Decode([]byte(p.SnapshotTOML), snapshot.FormatTOML)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot is required")
	}
}

// ScanRequest is the body of POST /v1/scan.
type ScanRequest struct {
	SnapshotPayload
	Blueprint          string `json:"blueprint,omitempty"`
	Format             string `json:"format,omitempty"`
	Sites              bool   `json:"sites,omitempty"`
	Sizes              bool   `json:"sizes,omitempty"`
	SkipFunctionLocals bool   `json:"skip_function_locals,omitempty"`
	Refresh            bool   `json:"refresh,omitempty"`
}

// ScanResponse is the JSON body returned for json (or unset) formats.
type ScanResponse struct {
	Result     *hardref.Result `json:"result"`
	Cached     bool            `json:"cached"`
	DurationMS int64           `json:"duration_ms"`
}

// BlueprintsResponse is the body returned by POST /v1/blueprints.
type BlueprintsResponse struct {
	Blueprints []string `json:"blueprints"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

var contentTypes = map[report.Format]string{
	report.FormatText: "text/plain; charset=utf-8",
	report.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	report.FormatSVG:  "image/svg+xml",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	snap, err := req.decode()
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := report.FormatJSON
	if req.Format != "" {
		if format, err = report.ParseFormat(req.Format); err != nil {
			s.writeError(w, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.ScanTimeout)
	defer cancel()

	opts := pipeline.Options{
		Snapshot:           snap,
		Blueprint:          req.Blueprint,
		SkipFunctionLocals: req.SkipFunctionLocals,
		Refresh:            req.Refresh,
		Sites:              req.Sites,
		Sizes:              req.Sizes,
		Registry:           s.opts.Registry,
	}
	// JSON is wrapped in ScanResponse below rather than rendered by the pipeline
	if format != report.FormatJSON {
		opts.Format = string(format)
	}

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "scan exceeded %s", s.opts.ScanTimeout)
		}
		s.writeError(w, err)
		return
	}

	if opts.Format == "" {
		writeJSON(w, http.StatusOK, ScanResponse{
			Result:     res.Scan,
			Cached:     res.CacheInfo.ScanHit,
			DurationMS: res.Stats.ScanTime.Milliseconds(),
		})
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Report)
}

func (s *Server) handleBlueprints(w http.ResponseWriter, r *http.Request) {
	var req SnapshotPayload
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := req.decode()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BlueprintsResponse{Blueprints: snap.Names()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.opts.Logger.Error("request failed", "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: errors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
