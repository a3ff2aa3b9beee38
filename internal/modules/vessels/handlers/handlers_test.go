package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhee15/navarch-studio-sub003/internal/modules/vessels"
	testdb "github.com/abhee15/navarch-studio-sub003/internal/testing"
	"github.com/abhee15/navarch-studio-sub003/pkg/logger"
)

func setupRouter(t *testing.T) (*chi.Mux, func()) {
	t.Helper()
	db, cleanup := testdb.NewTestDB(t, "fleet")
	repo := vessels.NewRepository(db.Conn(), logger.Discard())
	geoRepo := vessels.NewGeometryRepository(db.Conn(), logger.Discard())
	service := vessels.NewService(repo, geoRepo, logger.Discard())

	r := chi.NewRouter()
	NewHandlers(service, logger.Discard()).RegisterRoutes(r)
	return r, cleanup
}

const boxCSV = `station_index,x,waterline_index,z,half_breadth
0,0,0,0,5
0,0,1,10,5
1,50,0,0,5
1,50,1,10,5
2,100,0,0,5
2,100,1,10,5
`

func createVessel(t *testing.T, r *chi.Mux, name string) string {
	t.Helper()
	body := strings.NewReader(`{"name":"` + name + `","length_pp":"100"}`)
	req := httptest.NewRequest("POST", "/vessels/", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var v vessels.Vessel
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v.ID
}

func TestCreateAndGetVessel(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	id := createVessel(t, r, "Test Barge")

	req := httptest.NewRequest("GET", "/vessels/"+id+"/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var v vessels.Vessel
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	assert.Equal(t, "Test Barge", v.Name)
	require.NotNil(t, v.LengthPP)
	assert.Equal(t, "100", v.LengthPP.String())
}

func TestCreateVesselRejectsEmptyName(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	req := httptest.NewRequest("POST", "/vessels/", strings.NewReader(`{"name":""}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetVesselNotFound(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/vessels/ghost/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteVessel(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	id := createVessel(t, r, "Doomed")

	req := httptest.NewRequest("DELETE", "/vessels/"+id+"/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest("GET", "/vessels/"+id+"/", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportAndExportGeometry(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	id := createVessel(t, r, "Box")

	req := httptest.NewRequest("PUT", "/vessels/"+id+"/geometry", strings.NewReader(boxCSV))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var summary vessels.GeometrySummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 3, summary.Stations)
	assert.Equal(t, int64(1), summary.Version)

	req = httptest.NewRequest("GET", "/vessels/"+id+"/geometry", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "station_index,x,waterline_index,z,half_breadth")
	assert.Contains(t, w.Body.String(), "2,100,1,10,5")
}

func TestImportGeometryFromArchive(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	id := createVessel(t, r, "Box")

	// An offsets archive as a lines tool would export it.
	path := filepath.Join(t.TempDir(), "lines.db")
	archive, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = archive.Exec(`
		CREATE TABLE offsets (
			station_index   INTEGER NOT NULL,
			x               TEXT NOT NULL,
			waterline_index INTEGER NOT NULL,
			z               TEXT NOT NULL,
			half_breadth    TEXT NOT NULL
		)
	`)
	require.NoError(t, err)
	for _, row := range [][5]string{
		{"0", "0", "0", "0", "5"}, {"0", "0", "1", "10", "5"},
		{"1", "50", "0", "0", "5"}, {"1", "50", "1", "10", "5"},
		{"2", "100", "0", "0", "5"}, {"2", "100", "1", "10", "5"},
	} {
		_, err = archive.Exec("INSERT INTO offsets VALUES (?, ?, ?, ?, ?)",
			row[0], row[1], row[2], row[3], row[4])
		require.NoError(t, err)
	}
	require.NoError(t, archive.Close())

	body, err := json.Marshal(map[string]string{"path": path})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/vessels/"+id+"/geometry/archive", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary vessels.GeometrySummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 3, summary.Stations)
	assert.Equal(t, 2, summary.Waterlines)
	assert.Equal(t, 6, summary.Offsets)

	// Archive imports export through the regular CSV endpoint.
	req = httptest.NewRequest("GET", "/vessels/"+id+"/geometry", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2,100,1,10,5")
}

func TestImportGeometryFromArchiveMissingFile(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	id := createVessel(t, r, "Box")

	body := strings.NewReader(`{"path":"` + filepath.Join(t.TempDir(), "absent.db") + `"}`)
	req := httptest.NewRequest("POST", "/vessels/"+id+"/geometry/archive", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportGeometryFromArchiveEmptyPath(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	id := createVessel(t, r, "Box")

	req := httptest.NewRequest("POST", "/vessels/"+id+"/geometry/archive", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportGeometryBadCSV(t *testing.T) {
	r, cleanup := setupRouter(t)
	defer cleanup()

	id := createVessel(t, r, "Box")

	req := httptest.NewRequest("PUT", "/vessels/"+id+"/geometry", strings.NewReader("not,a,table\n1,2,3\n"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
