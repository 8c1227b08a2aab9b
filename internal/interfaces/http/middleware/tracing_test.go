package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	t.Run("disabled adds nothing", func(t *testing.T) {
		assert.Empty(t, Tracing(TracingConfig{ServiceName: "goldbook"}))
	})

	t.Run("spans are named after the route and carry the request id", func(t *testing.T) {
		spans := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

		engine := gin.New()
		engine.Use(RequestID())
		engine.Use(Tracing(TracingConfig{ServiceName: "goldbook", Enabled: true, TracerProvider: tp})...)
		engine.GET("/api/v1/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/api/v1/items/7", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		ended := spans.Ended()
		require.Len(t, ended, 1)
		assert.Contains(t, ended[0].Name(), "/api/v1/items/:id")
		assert.Contains(t, ended[0].Attributes(), attribute.String("request_id", "req-42"))
	})
}
