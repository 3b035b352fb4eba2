package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"catalog/internal/logger"
	"catalog/internal/pipeline"
)

// RunnerFactory builds a pipeline run for the requested source and mode.
// Sources: "export", "platform". Modes: "full", "primary".
type RunnerFactory func(sourceName, mode string) (*pipeline.Pipeline, error)

type ImportHandler struct {
	factory RunnerFactory
	logger  *logger.Logger

	mu      sync.Mutex
	running bool
	last    *pipeline.Report
	lastErr string
}

func NewImportHandler(factory RunnerFactory, logger *logger.Logger) *ImportHandler {
	return &ImportHandler{
		factory: factory,
		logger:  logger,
	}
}

type startImportRequest struct {
	Source string `json:"source"`
	Mode   string `json:"mode"`
}

// Start kicks off a pipeline run in the background. Only one run at a time.
func (h *ImportHandler) Start(c *gin.Context) {
	var req startImportRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Source == "" {
		req.Source = "export"
	}
	if req.Mode == "" {
		req.Mode = "full"
	}

	p, err := h.factory(req.Source, req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "An import is already running"})
		return
	}
	h.running = true
	h.mu.Unlock()

	go func() {
		report, err := p.Run(context.Background())

		h.mu.Lock()
		defer h.mu.Unlock()
		h.running = false
		h.last = report
		h.lastErr = ""
		if err != nil {
			h.lastErr = err.Error()
			h.logger.Error("Import run failed: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status": "started",
		"source": req.Source,
		"mode":   req.Mode,
	})
}

func (h *ImportHandler) Status(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"running":     h.running,
		"last_report": h.last,
		"last_error":  h.lastErr,
	})
}
