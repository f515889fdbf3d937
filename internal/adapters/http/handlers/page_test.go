package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

func TestPageHandler_Index(t *testing.T) {
	f := newWidgetFixture(t)

	page, err := NewPageHandler(f.handler, "Random Quote")
	require.NoError(t, err)
	page.RegisterPageRoutes(f.router)

	t.Run("before any quote", func(t *testing.T) {
		w := f.get("/")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "<title>Random Quote</title>")
		assert.Contains(t, w.Body.String(), "Add Quote")
		assert.Contains(t, w.Body.String(), "/api/v1/widget/image")
	})

	t.Run("renders current quote escaped", func(t *testing.T) {
		f.client.EXPECT().RandomQuote(mock.Anything).
			Return(domain.Quote{Text: "<b>bold</b> move", Author: "Tester"}, nil).Once()
		f.widget.Refresh().Refresh(t.Context())

		w := f.get("/")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "&lt;b&gt;bold&lt;/b&gt; move")
		assert.Contains(t, w.Body.String(), "- Tester")
		assert.Contains(t, w.Body.String(), "#A1B2C3")
	})
}
