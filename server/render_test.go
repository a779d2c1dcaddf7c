package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"internmatch/handlers"
	"internmatch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererParsesEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for name := range pageTitles {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			err := r.Render(rec, http.StatusOK, name, models.PageData{Form: map[string]string{}})
			require.NoError(t, err)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRenderFlashesAndNav(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, handlers.TemplateIndex, models.PageData{
		IsLoggedIn: true,
		Flashes:    []models.Flash{{Category: models.FlashWarning, Message: "<b>careful</b>"}},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "&lt;b&gt;careful&lt;/b&gt;")
	assert.Contains(t, body, "warning")
	assert.Contains(t, body, `href="/logout"`)
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "missing", models.PageData{})
	assert.Error(t, err)
	assert.Zero(t, rec.Body.Len())
}
