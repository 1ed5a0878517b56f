// Package server exposes the solar system over HTTP: body tables and
// positions as JSON, a websocket stream of live frames driven by client key
// events, and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/san-kum/solarsim/internal/analysis"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/orbit"
	"github.com/san-kum/solarsim/internal/sim"
)

// Factory builds a fresh simulation for one stream.
type Factory func() (*sim.Simulation, error)

type Server struct {
	cfg     config.ServerConfig
	newSim  Factory
	metrics *Metrics
	limiter *RateLimiter
	logger  *slog.Logger

	upgrader websocket.Upgrader

	// sys answers the JSON endpoints; CalculatePositions mutates it.
	mu        sync.Mutex
	sys       *orbit.System
	startTime float64
}

// New serves sys for the JSON endpoints at startTime unless a request
// names another time. Every websocket stream gets its own simulation from
// newSim.
func New(cfg config.ServerConfig, sys *orbit.System, startTime float64, newSim Factory) *Server {
	s := &Server{
		cfg:       cfg,
		newSim:    newSim,
		metrics:   NewMetrics(),
		limiter:   NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:    slog.With("component", "server"),
		sys:       sys,
		startTime: startTime,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// Handler returns the routed, rate limited and CORS wrapped handler.
func (s *Server) Handler() http.Handler {
	logger := s.logger.With("operation", "setup")
	mux := http.NewServeMux()

	mux.Handle("GET /api/health", s.metrics.Instrument("health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /api/bodies", s.metrics.Instrument("bodies", http.HandlerFunc(s.handleBodies)))
	mux.Handle("GET /api/bodies/{name}", s.metrics.Instrument("body", http.HandlerFunc(s.handleBody)))
	mux.Handle("GET /api/frame", s.metrics.Instrument("frame", http.HandlerFunc(s.handleFrame)))
	mux.HandleFunc("GET /ws", s.handleStream)
	mux.Handle("GET /metrics", s.metrics.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	logger.Info("routes configured",
		"endpoints", []string{"/api/health", "/api/bodies", "/api/bodies/{name}", "/api/frame", "/ws", "/metrics"},
		"allowed_origins", s.cfg.AllowedOrigins,
		"requests_per_second", s.cfg.RequestsPerSecond,
	)
	return c.Handler(s.limiter.Middleware(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	if s.limiter != nil {
		go s.limiter.Cleanup(ctx, time.Minute)
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Bodies    int    `json:"bodies"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := s.sys.Len()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Bodies:    n,
	})
}

// BodyInfo is the static description of a body.
type BodyInfo struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Parent         string  `json:"parent,omitempty"`
	DistanceKm     float64 `json:"distance_km"`
	OrbitalPeriod  float64 `json:"orbital_period_days"`
	RotationPeriod float64 `json:"rotation_period_days"`
	RadiusKm       float64 `json:"radius_km"`
}

func (s *Server) handleBodies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	bodies := s.sys.Bodies()
	s.mu.Unlock()

	out := make([]BodyInfo, len(bodies))
	for i, b := range bodies {
		info := BodyInfo{
			ID:             i,
			Name:           b.Name,
			DistanceKm:     b.Distance,
			OrbitalPeriod:  b.OrbitalPeriod,
			RotationPeriod: b.RotationPeriod,
			RadiusKm:       b.Radius,
		}
		if b.HasParent() {
			info.Parent = bodies[b.Parent].Name
		}
		out[i] = info
	}
	writeJSON(w, http.StatusOK, out)
}

// PoseJSON is a body's state at one instant. Positions are kilometres.
type PoseJSON struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Position  [3]float64 `json:"position"`
	SpinAngle float64    `json:"spin_deg"`
	RadiusKm  float64    `json:"radius_km"`
}

type FrameResponse struct {
	Time   float64    `json:"time"`
	Bodies []PoseJSON `json:"bodies"`
}

func posesJSON(poses []orbit.Pose) []PoseJSON {
	out := make([]PoseJSON, len(poses))
	for i, p := range poses {
		out[i] = PoseJSON{
			ID:        int(p.ID),
			Name:      p.Name,
			Position:  [3]float64{p.Position.X, p.Position.Y, p.Position.Z},
			SpinAngle: p.SpinAngle,
			RadiusKm:  p.Radius,
		}
	}
	return out
}

// timeParam reads ?t=, defaulting to the server start time.
func (s *Server) timeParam(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("t")
	if raw == "" {
		return s.startTime, nil
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("%w: t must be a finite number, got %q", errBadRequest, raw)
	}
	return t, nil
}

// posesAt evaluates the shared system at t.
func (s *Server) posesAt(t float64) []orbit.Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sys.CalculatePositions(t)
	return s.sys.Poses()
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("handler", "frame")
	t, err := s.timeParam(r)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, FrameResponse{Time: t, Bodies: posesJSON(s.posesAt(t))})
}

// BodyResponse is one body's pose plus its distance and light time from
// the sun.
type BodyResponse struct {
	PoseJSON
	Time          float64 `json:"time"`
	SunDistanceKm float64 `json:"sun_distance_km"`
	LightTimeSec  float64 `json:"light_time_s"`
}

func (s *Server) handleBody(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("handler", "body")
	t, err := s.timeParam(r)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	name := r.PathValue("name")

	s.mu.Lock()
	id, err := s.sys.Lookup(name)
	if err != nil {
		s.mu.Unlock()
		writeError(w, r, logger, fmt.Errorf("%w: %q", err, name))
		return
	}
	s.sys.CalculatePositions(t)
	pose := s.sys.Poses()[id]
	s.mu.Unlock()

	d := pose.Position.Length()
	writeJSON(w, http.StatusOK, BodyResponse{
		PoseJSON:      posesJSON([]orbit.Pose{pose})[0],
		Time:          t,
		SunDistanceKm: d,
		LightTimeSec:  analysis.LightTime(d).Seconds(),
	})
}

// InputMessage is a key event sent by a stream client.
type InputMessage struct {
	Key  string `json:"key"`
	Down bool   `json:"down"`
}

// FrameMessage is one streamed frame. Camera is in scene units.
type FrameMessage struct {
	Number      uint64     `json:"frame"`
	Time        float64    `json:"time"`
	TimeSpeed   float64    `json:"time_speed"`
	Camera      [3]float64 `json:"camera"`
	CameraSpeed float64    `json:"camera_speed"`
	ShowOrbits  bool       `json:"show_orbits"`
	Intent      string     `json:"intent"`
	Bodies      []PoseJSON `json:"bodies"`
}

func frameMessage(f sim.Frame) FrameMessage {
	return FrameMessage{
		Number:      f.Number,
		Time:        f.Time,
		TimeSpeed:   f.TimeSpeed,
		Camera:      [3]float64{f.Camera.X, f.Camera.Y, f.Camera.Z},
		CameraSpeed: f.CameraSpeed,
		ShowOrbits:  f.ShowOrbits,
		Intent:      f.Intent.String(),
		Bodies:      posesJSON(f.Poses),
	}
}

// handleStream runs a private simulation for the connection. Client key
// events feed a latch; frames are written at the configured stream rate.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("handler", "stream", "remote_addr", r.RemoteAddr)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	simulation, err := s.newSim()
	if err != nil {
		logger.Error("creating stream simulation failed", "error", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "simulation unavailable"))
		return
	}
	simulation.AddObserver(s.metrics)
	s.metrics.StreamOpened()
	defer s.metrics.StreamClosed()
	logger.Info("stream opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	latch := &control.Latch{}
	go func() {
		defer cancel()
		for {
			var in InputMessage
			if err := conn.ReadJSON(&in); err != nil {
				return
			}
			if !latch.Key(in.Key, in.Down) {
				logger.Debug("ignoring unbound key", "key", in.Key)
			}
		}
	}()

	err = sim.Run(ctx, simulation, latch, s.cfg.StreamFPS, func(f sim.Frame) bool {
		if s.cfg.WriteTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		return conn.WriteJSON(frameMessage(f)) == nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("stream ended", "error", err)
		return
	}
	logger.Info("stream closed", "frames", simulation.Frames())
}
