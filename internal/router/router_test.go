package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-management/config"
	"github.com/oksasatya/go-user-management/internal/container"
	"github.com/oksasatya/go-user-management/internal/interface/middleware"
	"github.com/oksasatya/go-user-management/internal/interface/web"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(t *testing.T, debug bool) *gin.Engine {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		DBDriver:            "memory",
		ImageStore:          "local",
		UploadDir:           t.TempDir(),
		SessionStore:        "memory",
		SessionCookieName:   "sid",
		DebugMetricsEnabled: debug,
	}
	c, err := container.New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	tpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tpl)
	r.Use(middleware.Session(c.Cookies, cfg.SessionCookieName, cfg.SessionTTL))

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRoutes_AtSiteRoot(t *testing.T) {
	r := newEngine(t, false)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/add").Code)
	assert.Equal(t, http.StatusFound, serve(r, http.MethodGet, "/edit/unknown").Code)
	assert.Equal(t, http.StatusFound, serve(r, http.MethodGet, "/delete/unknown").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/missing.png").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/debug/vars").Code)
}

func TestRoutes_DebugVarsWhenEnabled(t *testing.T) {
	r := newEngine(t, true)

	w := serve(r, http.MethodGet, "/debug/vars")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memstats")
}
