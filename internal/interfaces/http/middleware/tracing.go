package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are not traced, typically health checks
	SkipPaths []string
	// TracerProvider overrides the global provider
	TracerProvider trace.TracerProvider
}

// Tracing starts a server span per request via otelgin and annotates it
// with the request and user IDs
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	opts := []otelgin.Option{
		otelgin.WithFilter(func(r *http.Request) bool {
			return !slices.Contains(cfg.SkipPaths, r.URL.Path)
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	base := otelgin.Middleware(cfg.ServiceName, opts...)

	return func(c *gin.Context) {
		// otelgin runs the rest of the chain inside its own c.Next
		c.Set(spanAnnotatorKey, true)
		base(c)
	}
}

const spanAnnotatorKey = "tracing_enabled"

// SpanAttributes must follow Tracing. It sets request_id before the handlers
// run and user_id once authentication has happened.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(spanAnnotatorKey) {
			c.Next()
			return
		}
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}

		c.Next()

		if userID := c.GetString(UserIDKey); userID != "" {
			span.SetAttributes(attribute.String("user.id", userID))
		}
	}
}
