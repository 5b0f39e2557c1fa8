// Package remote exposes the metronome on the local network: a small HTTP
// API for control and a UDP beacon answering discovery probes, so a phone on
// the same Wi-Fi can drive the tempo from across the room.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DiscoveryPort answers discovery broadcasts.
	DiscoveryPort = 45833
	// HTTPPort serves the control API.
	HTTPPort = 45834

	discoveryMagic = "DRUM_METRONOME_DISCOVER"
)

// Status is the instance snapshot every endpoint and discovery reply carries.
type Status struct {
	Name     string `json:"name"`
	Bpm      int    `json:"bpm"`
	Running  bool   `json:"running"`
	HTTPPort int    `json:"http_port"`
}

// Controller is the slice of the metronome the remote surface may drive.
// Mutations must be applied before the call returns, so responses report the
// state they produced.
type Controller interface {
	Status() Status
	Start()
	Stop()
	SetBpm(bpm int)
}

// InstanceName returns a unique advertised name for this process.
func InstanceName() string {
	return "stix-" + uuid.NewString()[:8]
}

// Server is the HTTP control surface.
type Server struct {
	ctrl Controller
	srv  *http.Server
}

func NewServer(ctrl Controller, port int) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{ctrl: ctrl}
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) router() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/status", s.status)
	r.POST("/start", s.start)
	r.POST("/stop", s.stop)
	r.POST("/tempo", s.tempo)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return r
}

// ListenAndServe blocks until Shutdown. A closed server is not an error.
func (s *Server) ListenAndServe() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.Status())
}

func (s *Server) start(c *gin.Context) {
	s.ctrl.Start()
	c.JSON(http.StatusOK, s.ctrl.Status())
}

func (s *Server) stop(c *gin.Context) {
	s.ctrl.Stop()
	c.JSON(http.StatusOK, s.ctrl.Status())
}

func (s *Server) tempo(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	raw, ok := body["bpm"]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing bpm"})
		return
	}
	bpm, ok := coerceBpm(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bpm"})
		return
	}
	s.ctrl.SetBpm(bpm)
	c.JSON(http.StatusOK, s.ctrl.Status())
}

// coerceBpm accepts any JSON value that reads as a number: floats truncate,
// numeric strings parse. Range policy is the controller's business.
func coerceBpm(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return int(i), true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}
