package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/loadcases"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/vessels"
	testdb "github.com/abhee15/navarch-studio-sub003/internal/testing"
	"github.com/abhee15/navarch-studio-sub003/pkg/logger"
)

// setupRouter wires the hydro handlers over a box barge: L=100, B=10,
// depth 10, with a seawater loadcase at KG=2.
func setupRouter(t *testing.T) (*chi.Mux, func()) {
	t.Helper()
	db, cleanup := testdb.NewTestDB(t, "fleet")

	testdb.SeedVessel(t, db, "barge", "Box Barge")
	testdb.SeedLoadcase(t, db, "lc-1", "barge",
		decimal.RequireFromString("1.025"), decimal.NewFromInt(2))
	// Stability sweeps need a target displacement: full load at draft 4.
	_, err := db.Exec(`UPDATE loadcases SET target_displacement = '4100' WHERE id = 'lc-1'`)
	require.NoError(t, err)

	geoRepo := vessels.NewGeometryRepository(db.Conn(), logger.Discard())
	stations, waterlines, offsets := testdb.BoxGeometry(100, 5, 10, 5, 9)
	_, err = geoRepo.ReplaceGeometry("barge", stations, waterlines, offsets)
	require.NoError(t, err)

	lcRepo := loadcases.NewRepository(db.Conn(), logger.Discard())
	service := hydro.NewService(geoRepo, lcRepo, nil, 0, logger.Discard())

	r := chi.NewRouter()
	NewHandlers(service, nil, logger.Discard()).RegisterRoutes(r)
	return r, cleanup
}

func postJSON(t *testing.T, r *chi.Mux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestComputeAtBoxBarge(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/vessels/barge/hydrostatics/", `{"loadcase_id":"lc-1","draft":"4"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res hydro.HydroResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))

	// 100 x 10 x 4 box at rho 1.025.
	assert.True(t, res.DispVolume.Sub(decimal.NewFromInt(4000)).Abs().LessThan(decimal.RequireFromString("0.01")),
		"DispVolume = %s", res.DispVolume)
	assert.True(t, res.DispWeight.Sub(decimal.NewFromInt(4100)).Abs().LessThan(decimal.RequireFromString("0.01")),
		"DispWeight = %s", res.DispWeight)
	assert.True(t, res.KB.Sub(decimal.NewFromInt(2)).Abs().LessThan(decimal.RequireFromString("0.001")),
		"KB = %s", res.KB)
}

func TestComputeAtUnknownVessel(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/vessels/ghost/hydrostatics/", `{"loadcase_id":"lc-1","draft":"4"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComputeAtZeroDraft(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/vessels/barge/hydrostatics/", `{"loadcase_id":"lc-1","draft":"0"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestComputeTable(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/vessels/barge/hydrostatics/table",
		`{"loadcase_id":"lc-1","drafts":["2","4","6"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp tableResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Results, 3)
	assert.Nil(t, resp.Export)
	assert.True(t, resp.Results[0].Draft.LessThan(resp.Results[2].Draft))
}

func TestComputeTableEmptyDrafts(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/vessels/barge/hydrostatics/table", `{"loadcase_id":"lc-1","drafts":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSolveTrimHitsTargetWeight(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/vessels/barge/trim/solve",
		`{"loadcase_id":"lc-1","target":"4100","initial_fwd":"3","initial_aft":"3"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res hydro.TrimSolverResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	require.True(t, res.Converged)
	assert.True(t, res.DraftFwd.Sub(decimal.NewFromInt(4)).Abs().LessThan(decimal.RequireFromString("0.01")),
		"DraftFwd = %s", res.DraftFwd)
}

func TestGenerateCurves(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/vessels/barge/curves/",
		`{"loadcase_id":"lc-1","types":["displacement","kb"],"min_draft":"1","max_draft":"6","points":6}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp curvesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Curves, 2)
	assert.Len(t, resp.Curves[0].Points, 6)
}

func TestBonjeanCurves(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/vessels/barge/curves/bonjean",
		`{"min_draft":"1","max_draft":"6","points":4}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp bonjeanResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Curves, 5)
	assert.Len(t, resp.Curves[0].Points, 4)
}

func TestComputeStabilityWithCriteria(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/loadcases/lc-1/stability",
		`{"min_angle":"0","max_angle":"30","increment":"10","check_criteria":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp stabilityResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Curve)
	assert.Len(t, resp.Curve.Points, 4)
	require.NotNil(t, resp.Criteria)
}

func TestComputeStabilityUnknownLoadcase(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	w := postJSON(t, r, "/loadcases/ghost/stability",
		`{"min_angle":"0","max_angle":"30","increment":"10"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
