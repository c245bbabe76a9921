// Package server is the web front-end: it serves the upload forms, pushes
// the files to the remote scheduling service and renders the results.
package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Raof-Rasti/timetabling-project/internal/client"
	"github.com/Raof-Rasti/timetabling-project/internal/config"
	"github.com/Raof-Rasti/timetabling-project/internal/logger"
	"github.com/Raof-Rasti/timetabling-project/internal/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Server is the gateway HTTP server.
type Server struct {
	router *gin.Engine
	cfg    *config.AppConfig
	single *client.Client
	batch  *client.Client
	store  *store.Store
	log    zerolog.Logger
}

// NewServer wires the gateway against the configured scheduling service.
func NewServer(cfg *config.AppConfig, st *store.Store) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second

	s := &Server{
		router: gin.Default(),
		cfg:    cfg,
		single: client.New(cfg.API.BaseURL, client.WithTimeout(timeout)),
		batch:  client.New(cfg.BatchBase(), client.WithTimeout(timeout)),
		store:  st,
		log:    logger.New("server", cfg.Server.DevMode),
	}

	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))
	s.router.SetHTMLTemplate(tmpl)
	s.router.MaxMultipartMemory = cfg.API.MaxUploadMB << 20

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.SinglePage)
	s.router.POST("/schedule", s.SubmitSingle)

	s.router.GET("/batch", s.BatchPage)
	s.router.POST("/schedule/batch", s.SubmitBatch)

	s.router.GET("/template", s.DownloadTemplate)
	s.router.GET("/history", s.HistoryPage)

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
