package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopenguins/internal/config"
	"gopenguins/internal/testkit"
)

func TestContainer_InitAndServe(t *testing.T) {
	path, err := testkit.NewTestKit().WriteRawCSV(t.TempDir(), 3)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Data.File = path
	cfg.Server.GinMode = "test"

	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))
	defer c.Shutdown(context.Background())

	species, err := c.Dataset.Species()
	require.NoError(t, err)
	assert.Len(t, species, 3)

	dashboard, err := c.UI()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	dashboard.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/features", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	dashboard.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/eda/charts?species=Gentoo", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "heatmap")
}

func TestContainer_MissingData(t *testing.T) {
	cfg := config.Default()
	cfg.Data.File = t.TempDir() + "/missing.csv"

	c, err := New(cfg)
	require.NoError(t, err)
	assert.Error(t, c.Init(context.Background()))

	_, err = c.UI()
	assert.Error(t, err)
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
