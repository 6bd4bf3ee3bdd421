// Package service serves a directory of world descriptors over HTTP so tools
// can inspect what the loader made of them.
package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/df-mc/atomic"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/smell-of-curry/ambf-world/ambfworld/catalog"
	"github.com/smell-of-curry/ambf-world/ambfworld/world"
)

// maxDescriptorSize bounds the body accepted by the validate endpoint.
const maxDescriptorSize = 1 << 20

// Service holds the last loaded catalog and the router serving it.
type Service struct {
	log    *slog.Logger
	loader *world.Loader

	fsys fs.FS
	root string
	key  string

	catalog atomic.Value[*catalog.Catalog]
	router  *gin.Engine

	mu     sync.Mutex
	srv    *http.Server
	closed bool

	c    chan struct{}
	once sync.Once
}

// New creates a service serving the descriptors under root in fsys. When key is
// not empty, every request must carry it in the authorization header.
func New(log *slog.Logger, loader *world.Loader, fsys fs.FS, root, key string) *Service {
	s := &Service{
		log:    log,
		loader: loader,
		fsys:   fsys,
		root:   root,
		key:    key,
		c:      make(chan struct{}),
	}
	s.catalog.Store(catalog.New(nil))
	if err := s.Reload(); err != nil {
		log.Error("failed to load world catalog", "path", root, "error", err)
	}
	s.setupGin()
	return s
}

// Reload re-reads the descriptor directory. The previous catalog stays in
// place when the directory cannot be read.
func (s *Service) Reload() error {
	c, err := catalog.ReadAll(s.fsys, s.root, s.loader, nil)
	if err != nil {
		return err
	}
	s.catalog.Store(c)
	s.log.Debug("world catalog loaded", "path", s.root, "worlds", len(c.Entries()), "failed", len(c.Failed()))
	return nil
}

// Catalog ...
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog.Load()
}

// Handler ...
func (s *Service) Handler() http.Handler {
	return s.router
}

// Start listens on addr and reloads the catalog every interval until Close is
// called. A zero interval disables reloading. It blocks until the server stops,
// and returns immediately if the service was already closed.
func (s *Service) Start(addr string, interval time.Duration) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	s.srv = srv
	s.mu.Unlock()

	if interval > 0 {
		go s.startTicking(interval)
	}

	s.log.Info("Serving world descriptors", "address", addr, "path", s.root)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// startTicking reloads the catalog periodically.
func (s *Service) startTicking(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-s.c:
			return
		case <-t.C:
			if err := s.Reload(); err != nil {
				s.log.Warn("failed to reload world catalog", "path", s.root, "error", err)
			}
		}
	}
}

// Close stops reloading and shuts the server down.
func (s *Service) Close() error {
	var err error
	s.once.Do(func() {
		close(s.c)

		s.mu.Lock()
		s.closed = true
		srv := s.srv
		s.mu.Unlock()

		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = srv.Shutdown(ctx)
		}
	})
	return err
}

// setupGin sets up the routes of the service.
func (s *Service) setupGin() {
	router := gin.New()
	router.Use(gin.Recovery())
	if s.key != "" {
		router.Use(func(c *gin.Context) {
			if c.GetHeader("authorization") != s.key {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.Next()
		})
	}

	router.GET("/worlds", s.handleList)
	router.GET("/worlds/*path", s.handleWorld)
	router.POST("/validate", s.handleValidate)
	s.router = router
}

// summary describes one catalog entry.
type summary struct {
	Path     string   `json:"path"`
	OK       bool     `json:"ok"`
	Kind     string   `json:"kind,omitempty"`
	Error    string   `json:"error,omitempty"`
	Lights   []string `json:"lights,omitempty"`
	Cameras  []string `json:"cameras,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func summarize(e catalog.Entry) summary {
	sum := summary{
		Path:     e.Path,
		OK:       e.OK(),
		Warnings: warningStrings(e.Warnings),
	}
	if e.Err != nil {
		sum.Kind = world.Kind(e.Err)
		sum.Error = e.Err.Error()
		return sum
	}
	sum.Lights = e.World.LightNames
	sum.Cameras = e.World.CameraNames
	return sum
}

func warningStrings(w world.Warnings) []string {
	return lo.Map(w, func(v *world.InvalidValueError, _ int) string {
		return v.Error()
	})
}

// handleList ...
func (s *Service) handleList(c *gin.Context) {
	c.JSON(http.StatusOK, lo.Map(s.Catalog().Entries(), func(e catalog.Entry, _ int) summary {
		return summarize(e)
	}))
}

// handleWorld ...
func (s *Service) handleWorld(c *gin.Context) {
	p := path.Join(s.root, strings.TrimPrefix(c.Param("path"), "/"))
	e, ok := s.Catalog().Find(p)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"reason": "no world found"})
		return
	}
	if !e.OK() {
		c.JSON(http.StatusUnprocessableEntity, summarize(e))
		return
	}
	c.JSON(http.StatusOK, e.World)
}

// handleValidate loads the request body as a descriptor.
func (s *Service) handleValidate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDescriptorSize)
	data, err := c.GetRawData()
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	_, warnings, err := s.loader.Load(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"ok":    false,
			"kind":  world.Kind(err),
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"warnings": warningStrings(warnings),
	})
}
