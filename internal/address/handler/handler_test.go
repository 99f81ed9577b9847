package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"residentportal/internal/address"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	New(address.NewService(address.DevSource()), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListCities(t *testing.T) {
	w := get(newRouter(), "/address/provinces/P0314/cities")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Places []address.Place `json:"places"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []address.Place{{Code: "C031403", Name: "City of Malolos"}}, body.Places)
}

func TestListUnknownParent(t *testing.T) {
	w := get(newRouter(), "/address/regions/R99/provinces")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolve(t *testing.T) {
	w := get(newRouter(), "/address/resolve?region=R03&province=P0314&city=C031403&barangay=B0314030")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bulihan, City of Malolos, Bulacan, Central Luzon")

	w = get(newRouter(), "/address/resolve?region=R03")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
