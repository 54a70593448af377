// Package api assembles the HTTP surface: middleware, /api/v1 routes, metrics and the dashboard.
package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"nii-stress/internal/api/handlers"
	"nii-stress/internal/api/middleware"
	"nii-stress/internal/api/models"
)

type RouterOptions struct {
	CORSOrigins []string
	// StaticDir holds a built dashboard (index.html plus assets/). Empty or missing disables it.
	StaticDir string
}

// NewRouter builds the gin engine. The caller picks the gin mode.
func NewRouter(env *handlers.Env, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSOrigins...))
	router.Use(env.Metrics.Middleware())

	stress := handlers.NewStressHandler(env)
	attribution := handlers.NewAttributionHandler(env)
	gap := handlers.NewGapHandler(env)
	projection := handlers.NewProjectionHandler(env)
	scenarios := handlers.NewScenarioHandler(env)
	curves := handlers.NewCurveHandler(env)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if env.Metrics != nil {
		router.GET("/metrics", gin.WrapH(env.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/nii", stress.ComputeNII)
		v1.POST("/sweep", stress.Sweep)
		v1.POST("/waterfall", stress.Waterfall)
		v1.POST("/attribution", attribution.Attribute)
		v1.POST("/gap", gap.GapAndDV01)
		v1.POST("/projection", projection.Project)

		v1.GET("/scenarios", scenarios.ListScenarios)
		v1.GET("/curve", curves.Current)
		v1.GET("/curve/history", curves.History)
	}

	serveDashboard(router, opts.StaticDir)
	return router
}

// serveDashboard serves the SPA: static assets, and index.html for every non-API path.
func serveDashboard(router *gin.Engine, dir string) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		slog.Info("static directory not found, skipping dashboard", slog.String("dir", dir))
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	index := filepath.Join(dir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(index)
	})
	slog.Info("serving dashboard", slog.String("dir", dir))
}
