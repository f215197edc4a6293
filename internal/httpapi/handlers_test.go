package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/codec"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/formation"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/hub"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/linkstore"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/metrics"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/types"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return SetupRoutes(Deps{
		Hub:     hub.NewHub(ctx, nil, nil),
		Links:   linkstore.NewMemory(),
		Metrics: metrics.New(),
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), "unexpected rune %q", r)
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessions_CreateFromLinkAndGet(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodPost, "/sessions?units=2,5,3&formation=Wall;2,5", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.Code, 6)
	require.NotNil(t, created.State)
	assert.Len(t, created.State.Roster, 3)
	assert.Equal(t, "Wall", created.State.Formation.Name)
	u, ok := created.State.Formation.At(0, 0)
	require.True(t, ok)
	assert.Equal(t, "Archers", u.Name)

	rec = do(t, srv, http.MethodGet, "/sessions/"+created.Code, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got types.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.State.Share, got.State.Share)

	rec = do(t, srv, http.MethodDelete, "/sessions/"+created.Code, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSessions_CreateEmpty(t *testing.T) {
	rec := do(t, newServer(t), http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Empty(t, created.State.Roster)
	assert.Equal(t, formation.DefaultName, created.State.Formation.Name)
}

func TestSessions_NotFound(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/sessions/NOPE00", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLinks(t *testing.T) {
	srv := newServer(t)

	cases := []struct {
		name      string
		body      string
		status    int
		units     string
		formation string
	}{
		{name: "bad json", body: "{", status: http.StatusBadRequest},
		{name: "canonicalized units", body: `{"units":"2,5,1;2,5,2;junk"}`, status: http.StatusCreated, units: "2,5,3"},
		{name: "empty link", body: `{}`, status: http.StatusCreated},
		{
			name:      "formation",
			body:      `{"formation":"Wall;2,5"}`,
			status:    http.StatusCreated,
			formation: "Wall;2,5" + strings.Repeat(";"+codec.EmptyTile, formation.Tiles-1),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/links", tc.body)
			require.Equal(t, tc.status, rec.Code)
			if tc.status != http.StatusCreated {
				return
			}
			var created types.LinkResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
			assert.Equal(t, tc.units, created.Units)
			assert.Equal(t, tc.formation, created.Formation)

			rec = do(t, srv, http.MethodGet, "/links/"+created.Code, "")
			require.Equal(t, http.StatusOK, rec.Code)
			var got types.LinkResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, created, got)

			q := codec.LinkQuery(got.Query)
			assert.Equal(t, tc.units, q.Get(codec.QueryUnits))
			assert.Equal(t, tc.formation, q.Get(codec.QueryFormation))
		})
	}

	rec := do(t, srv, http.MethodGet, "/links/NOPE00", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCanonical_KeepsEmptyBlobsEmpty(t *testing.T) {
	link := Canonical(codec.New(catalog.Default()), "", "")
	assert.Empty(t, link.Units)
	assert.Empty(t, link.Formation)
}

func TestMetricsRoute(t *testing.T) {
	srv := newServer(t)
	do(t, srv, http.MethodPost, "/links", `{"units":"2,5,1"}`)
	rec := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "planner_links_total")
}
