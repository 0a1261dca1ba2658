package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/yourusername/open-isbn/docs"
	"github.com/yourusername/open-isbn/pkg/auth"
	"github.com/yourusername/open-isbn/pkg/config"
	"github.com/yourusername/open-isbn/pkg/index"
	"github.com/yourusername/open-isbn/pkg/isbn"
	"github.com/yourusername/open-isbn/pkg/metrics"
	"github.com/yourusername/open-isbn/pkg/provider"
)

// Gateway holds the collaborators the HTTP handlers share.
type Gateway struct {
	cfg     config.Config
	table   *isbn.RangeTable
	parsers map[string]*isbn.Parser
	store   provider.Provider
	index   *index.Manager
	metrics *metrics.Metrics
	keys    *auth.APIKeyChecker
	tokens  *auth.TokenService
}

func NewGateway(cfg config.Config, table *isbn.RangeTable, store provider.Provider, idx *index.Manager, m *metrics.Metrics) *Gateway {
	if table == nil {
		table = isbn.DefaultRangeTable()
	}
	both := isbn.NewParser(table, isbn.FormBoth)
	gw := &Gateway{
		cfg:   cfg,
		table: table,
		parsers: map[string]*isbn.Parser{
			standardLegacy: both,
			standard2005:   both,
			standard2017:   isbn.NewParser(table, isbn.Form13),
		},
		store:   store,
		index:   idx,
		metrics: m,
		keys:    auth.NewAPIKeyChecker(cfg.APIKey, cfg.APIKeyHash),
	}
	if cfg.JWTSecret != "" {
		gw.tokens = auth.NewTokenService(cfg.JWTSecret)
	}
	return gw
}

// --- Error Handling ---

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Detail)
}

func AbortWithError(c *gin.Context, code int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}

	if code >= http.StatusInternalServerError {
		slog.Error("api error", "path", c.Request.URL.Path, "status", code, "message", message, "error", err)
	} else {
		slog.Debug("api error", "path", c.Request.URL.Path, "status", code, "message", message, "error", err)
	}

	body := gin.H{
		"status":  "error",
		"error":   message,
		"detail":  detail,
		"code":    code,
		"traceId": c.GetString("TraceID"),
	}
	if kind := isbn.KindOf(err); kind != isbn.KindNone && kind != isbn.KindUnknown {
		body["kind"] = kind
	}
	c.AbortWithStatusJSON(code, body)
}

// abortWithISBNError maps a parse failure onto 422 for bad input and 400 for
// misuse of the API such as an unknown format selector.
func abortWithISBNError(c *gin.Context, err error) {
	code := http.StatusBadRequest
	if isbn.IsDataError(err) {
		code = http.StatusUnprocessableEntity
	}
	AbortWithError(c, code, "ISBN rejected", err)
}

// --- Middleware ---

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("TraceID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, strconv.Itoa(c.Writer.Status()), start)
	}
}

var errUnauthorized = errors.New("invalid API key or token")

// authMiddleware accepts an API key (X-API-Key header or apikey query) or a
// bearer JWT. With neither configured every request passes.
func authMiddleware(keys *auth.APIKeyChecker, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !keys.Enabled() && tokens == nil {
			c.Next()
			return
		}

		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			apiKey = c.Query("apikey")
		}
		if apiKey != "" && keys.Check(apiKey) {
			c.Set("username", "api-key-user")
			c.Set("role", "admin")
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if tokens != nil && strings.HasPrefix(authHeader, "Bearer ") {
			claims, err := tokens.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err == nil {
				c.Set("username", claims.Username)
				c.Set("role", claims.Role)
				c.Next()
				return
			}
		}

		AbortWithError(c, http.StatusUnauthorized, "Unauthorized", errUnauthorized)
	}
}

func setupRouter(gw *Gateway) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(otelgin.Middleware(gw.cfg.ServiceName))
	r.Use(metricsMiddleware(gw.metrics))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-API-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "time": time.Now()})
	})
	r.GET("/metrics", gin.WrapH(gw.metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(authMiddleware(gw.keys, gw.tokens))
	{
		api.GET("/isbn/parse", gw.handleParse)
		api.GET("/isbn/validate", gw.handleValidate)
		api.GET("/isbn/check-digit", gw.handleCheckDigit)
		api.POST("/isbn/batch", gw.handleBatch)

		api.GET("/groups", gw.handleGroups)
		api.GET("/groups/search", gw.handleGroupSearch)

		api.POST("/records", gw.handleCreateRecord)
		api.GET("/records", gw.handleListRecords)
		api.GET("/records/stats", gw.handleRecordStats)
		api.GET("/records/:isbn", gw.handleGetRecord)

		api.POST("/marc/isbns", gw.handleMARCISBNs)
	}

	return r
}
