package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/pipeline"
)

const heroTOML = `
[[packages]]
name = "/Game/BP_Hero"
size = 10
dependencies = ["/Game/Weapons/Rifle", "/Game/UI/Crosshair"]

[[packages]]
name = "/Game/Weapons/Rifle"
size = 100
type = "Blueprint"

[[packages]]
name = "/Game/UI/Crosshair"
size = 5

[[blueprints]]
path = "/Game/BP_Hero.BP_Hero_C"

  [[blueprints.event_graphs]]
  name = "EventGraph"

    [[blueprints.event_graphs.nodes]]
    id = "fire"
    kind = "call_function"
    title = "Fire"
    target = "/Game/Weapons/Rifle.Rifle_C:Fire"

[[blueprints]]
path = "/Game/BP_Villain.BP_Villain_C"
`

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	opts.Logger = log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, opts.Logger)
	ts := httptest.NewServer(New(runner, opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestScanJSON(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := post(t, ts, "/v1/scan", ScanRequest{
		SnapshotPayload: SnapshotPayload{SnapshotTOML: heroTOML},
		Blueprint:       "BP_Hero",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body ScanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Result.Groups, 2)
	assert.Equal(t, asset.PackageID("/Game/Weapons/Rifle"), body.Result.Groups[0].Package)
	assert.Equal(t, "Fire", body.Result.Groups[0].Sites[0].Label)
	assert.False(t, body.Result.Groups[1].Identified())
}

func TestScanInlineJSONSnapshot(t *testing.T) {
	ts := newTestServer(t, Options{})

	snap := `{
		"packages": [
			{"name": "/Game/BP_Lamp", "size": 1, "dependencies": ["/Game/Mesh/Lamp"]},
			{"name": "/Game/Mesh/Lamp", "size": 40, "type": "StaticMesh"}
		],
		"blueprints": [{"path": "/Game/BP_Lamp.BP_Lamp_C"}]
	}`
	resp := post(t, ts, "/v1/scan", map[string]any{"snapshot": json.RawMessage(snap)})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ScanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Result.Groups, 1)
	assert.Equal(t, int64(40), body.Result.Groups[0].Size)
}

func TestScanReportFormats(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"dot", "text/vnd.graphviz; charset=utf-8", `"/Game/BP_Hero" -> "/Game/Weapons/Rifle"`},
		{"text", "text/plain; charset=utf-8", "Rifle"},
		{"DOT", "text/vnd.graphviz; charset=utf-8", `"/Game/BP_Hero" -> "/Game/Weapons/Rifle"`},
		{" Text ", "text/plain; charset=utf-8", "Rifle"},
		{"JSON", "application/json", `"groups"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, ts, "/v1/scan", ScanRequest{
				SnapshotPayload: SnapshotPayload{SnapshotTOML: heroTOML},
				Blueprint:       "BP_Hero",
				Format:          tt.format,
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.contains)
		})
	}
}

func TestScanErrors(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"no snapshot", ScanRequest{Blueprint: "BP_Hero"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown blueprint", ScanRequest{SnapshotPayload: SnapshotPayload{SnapshotTOML: heroTOML}, Blueprint: "BP_Nobody"}, http.StatusNotFound, "BLUEPRINT_NOT_FOUND"},
		{"bad format", ScanRequest{SnapshotPayload: SnapshotPayload{SnapshotTOML: heroTOML}, Blueprint: "BP_Hero", Format: "pdf"}, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad snapshot", ScanRequest{SnapshotPayload: SnapshotPayload{SnapshotTOML: "[[packages]]\nsize = -1\n"}}, http.StatusBadRequest, "INVALID_SNAPSHOT"},
		{"unknown field", map[string]any{"blueprint": "x", "depth": 3}, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/scan", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, string(decodeError(t, resp).Code))
		})
	}
}

func TestScanWrongContentType(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Post(ts.URL+"/v1/scan", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestScanInjectedRegistry(t *testing.T) {
	reg := asset.NewMemoryRegistry()
	reg.Add(asset.PackageMetadata{ID: "/Game/BP_Hero", Size: 1}, "/Game/Weapons/Rifle")
	reg.Add(asset.PackageMetadata{ID: "/Game/Weapons/Rifle", Size: 999})
	ts := newTestServer(t, Options{Registry: reg})

	resp := post(t, ts, "/v1/scan", ScanRequest{
		SnapshotPayload: SnapshotPayload{SnapshotTOML: heroTOML},
		Blueprint:       "BP_Hero",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ScanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Result.Groups, 1)
	assert.Equal(t, int64(999), body.Result.Groups[0].Size)
}

func TestBlueprints(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := post(t, ts, "/v1/blueprints", SnapshotPayload{SnapshotTOML: heroTOML})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body BlueprintsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"/Game/BP_Hero.BP_Hero_C", "/Game/BP_Villain.BP_Villain_C"}, body.Blueprints)
}

func TestSnapshotPayloadBothEncodings(t *testing.T) {
	_, err := SnapshotPayload{Snapshot: json.RawMessage(`{}`), SnapshotTOML: heroTOML}.decode()
	assert.Error(t, err)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv := New(pipeline.NewRunner(nil, nil, log.New(io.Discard)), Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
