// Package api exposes the arranger over HTTP.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/PlateArrange/internal/engine"
	"github.com/piwi3910/PlateArrange/internal/export"
	"github.com/piwi3910/PlateArrange/internal/logging"
	"github.com/piwi3910/PlateArrange/internal/model"
)

// ObjectSpec is one line of the requested object list.
type ObjectSpec struct {
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Height   float64 `json:"height"`
	Quantity int     `json:"quantity"`
}

// ArrangeRequest is the body of POST /arrange. Config takes precedence over
// Profile; with neither the default config is used. Sort defaults to true.
type ArrangeRequest struct {
	Config  *model.Config `json:"config,omitempty"`
	Profile string        `json:"profile,omitempty"`
	Objects []ObjectSpec  `json:"objects"`
	Sort    *bool         `json:"sort,omitempty"`
}

// ArrangeResponse carries the result and, on failure, the error text.
type ArrangeResponse struct {
	Plates     []model.PlateResult          `json:"plates"`
	Unplaced   []model.UnplacedFootprint    `json:"unplaced"`
	Violations map[string][]model.Violation `json:"violations,omitempty"`
	Error      string                       `json:"error,omitempty"`
}

// Server holds the router and its dependencies.
type Server struct {
	router *gin.Engine
	log    *slog.Logger
}

// NewRouter returns a gin engine with /arrange, /profiles and /healthz mounted.
func NewRouter(log *slog.Logger) *gin.Engine {
	return NewServer(log).router
}

// NewServer builds the server. A nil logger discards output.
func NewServer(log *slog.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	s := &Server{router: router, log: log}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/profiles", s.handleProfiles)
	s.router.POST("/arrange", s.handleArrange)
}

func (s *Server) handleProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, model.PrinterProfiles)
}

func (s *Server) handleArrange(c *gin.Context) {
	var req ArrangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ArrangeResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	cfg, err := resolveConfig(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ArrangeResponse{Error: err.Error()})
		return
	}

	fps, err := buildFootprints(req.Objects)
	if err != nil {
		c.JSON(http.StatusBadRequest, ArrangeResponse{Error: err.Error()})
		return
	}

	opts := engine.DefaultOptions()
	if req.Sort != nil {
		opts.SortByHeight = *req.Sort
	}
	arranger := engine.New(engine.StaticSource{Config: cfg}, opts, s.log)
	result, err := arranger.Arrange(fps)
	export.AssignLabels(&result)

	resp := ArrangeResponse{
		Plates:     result.Plates,
		Unplaced:   result.Unplaced,
		Violations: violationsByPlate(result),
	}
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, engine.ErrNoProgress):
		resp.Error = err.Error()
		c.JSON(http.StatusUnprocessableEntity, resp)
	case errors.Is(err, model.ErrInvalidConfig):
		resp.Error = err.Error()
		c.JSON(http.StatusBadRequest, resp)
	default:
		s.log.Error("arrange failed", "err", err)
		resp.Error = err.Error()
		c.JSON(http.StatusInternalServerError, resp)
	}
}

func resolveConfig(req ArrangeRequest) (model.Config, error) {
	var cfg model.Config
	switch {
	case req.Config != nil:
		cfg = *req.Config
	case req.Profile != "":
		p, ok := model.GetProfile(req.Profile)
		if !ok {
			return model.Config{}, fmt.Errorf("%w: unknown printer profile %q", model.ErrInvalidConfig, req.Profile)
		}
		cfg = p.Config
	default:
		cfg = model.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// buildFootprints expands each ObjectSpec into Quantity box solids (at least one).
func buildFootprints(specs []ObjectSpec) ([]model.Footprint, error) {
	if len(specs) == 0 {
		return nil, errors.New("no objects given")
	}
	var fps []model.Footprint
	for i, o := range specs {
		if o.Width <= 0 || o.Depth <= 0 || o.Height < 0 || o.Quantity < 0 {
			return nil, fmt.Errorf("object %d: width and depth must be positive, height and quantity must not be negative", i+1)
		}
		name := o.Name
		if name == "" {
			name = "Object " + strconv.Itoa(i+1)
		}
		qty := max(o.Quantity, 1)
		if len(fps)+qty > model.MaxObjects {
			return nil, fmt.Errorf("too many objects, limit is %d", model.MaxObjects)
		}
		for range qty {
			fps = append(fps, model.NewBoxSolid(name, o.Width, o.Depth, o.Height))
		}
	}
	return fps, nil
}

func violationsByPlate(result model.ArrangeResult) map[string][]model.Violation {
	v := engine.CheckResult(result)
	if len(v) == 0 {
		return nil
	}
	out := make(map[string][]model.Violation, len(v))
	for plate, list := range v {
		out[strconv.Itoa(plate)] = list
	}
	return out
}
