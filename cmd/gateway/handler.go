// In file: cmd/gateway/handler.go
package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/dileep-u-k/weather-agent/internal/api"
	"github.com/dileep-u-k/weather-agent/internal/planner"
	"github.com/dileep-u-k/weather-agent/internal/tools"
	"github.com/dileep-u-k/weather-agent/internal/weather"

	"github.com/gin-gonic/gin"
)

// =================================================================================
// Gateway Handler
// =================================================================================
// Every route goes through the Planner, so the subject heuristic and the tool
// selection live in one place. Failures are never allowed to escape as panics;
// they are classified and written as an api.ErrorResponse.
// =================================================================================

const msgInvalidTools = "Tools parameter must be a non-empty array"

// Error kinds reported in the "kind" field of an error body.
const (
	kindInvalidPayload      = "invalid_payload"
	kindInvalidPlannerInput = "invalid_planner_input"
	kindNoMatchingTool      = "no_matching_tool"
	kindLocationNotFound    = "location_not_found"
	kindUpstreamUnavailable = "upstream_unavailable"
	kindInternal            = "internal"
)

type GatewayHandler struct {
	planner  *planner.Planner
	registry *tools.Registry
	profiler *tools.Profiler // nil when Redis is not configured
}

func NewGatewayHandler(p *planner.Planner, registry *tools.Registry, profiler *tools.Profiler) *GatewayHandler {
	return &GatewayHandler{
		planner:  p,
		registry: registry,
		profiler: profiler,
	}
}

// HandleRunTool plans and executes a single tool call and responds with the raw tool payload.
// The client's tools array only has to be non-empty; planning runs against the
// gateway's own registry, so the weather tool is always reachable here.
func (h *GatewayHandler) HandleRunTool(c *gin.Context) {
	req, ok := bindRunToolRequest(c)
	if !ok {
		return
	}

	_, result, err := h.planner.Run(c.Request.Context(), req.Messages, h.registry.ListSchemas())
	if err != nil {
		h.respondError(c, err)
		return
	}

	log.Printf("Tool %s returned %d bytes", result.ToolName, len(result.Payload))
	c.Data(http.StatusOK, "application/json; charset=utf-8", result.Payload)
}

// HandleChatCompletion returns the planner's decision as a chat-completion envelope.
// Unlike /run-tool, the planner only chooses among the tools the client offered.
func (h *GatewayHandler) HandleChatCompletion(c *gin.Context) {
	req, ok := bindRunToolRequest(c)
	if !ok {
		return
	}

	completion, err := h.planner.Complete(c.Request.Context(), req.Model, req.Messages, req.Tools)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, completion)
}

// HandleListTools advertises the schemas of every registered tool.
func (h *GatewayHandler) HandleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.registry.ListSchemas()})
}

// HandleToolProfile reports the invocation statistics of one tool.
func (h *GatewayHandler) HandleToolProfile(c *gin.Context) {
	name := c.Param("name")
	if h.profiler == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "tool profiling is disabled (REDIS_ADDR is not set)"})
		return
	}
	if _, err := h.registry.Resolve(name); err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error(), Kind: string(tools.KindToolNotFound)})
		return
	}
	profile, err := h.profiler.GetProfile(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "failed to read tool profile: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// HandleHealth reports liveness and build information.
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "build": GetBuildInfo()})
}

// --- HELPER FUNCTIONS ---

// bindRunToolRequest decodes the body and enforces a non-empty tools array.
// It writes the 400 response itself and reports false when the request is unusable.
func bindRunToolRequest(c *gin.Context) (*api.RunToolRequest, bool) {
	var req api.RunToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Rejected request body: %v", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request: " + err.Error(), Kind: kindInvalidPayload})
		return nil, false
	}
	if len(req.Tools) == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidTools, Kind: kindInvalidPayload})
		return nil, false
	}
	log.Printf("--- New Request (Messages: %d, Tools: %d) ---", len(req.Messages), len(req.Tools))
	return &req, true
}

func (h *GatewayHandler) respondError(c *gin.Context, err error) {
	status, kind := classifyError(err)
	log.Printf("❌ Request failed (%s): %v", kind, err)
	c.JSON(status, api.ErrorResponse{
		Error: err.Error(),
		Kind:  kind,
		Stack: errorChain(err),
	})
}

// classifyError maps an error to an HTTP status and a kind. Provider errors are
// checked before tool errors because a failed tool body wraps them.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, planner.ErrInvalidPlannerInput):
		return http.StatusBadRequest, kindInvalidPlannerInput
	case errors.Is(err, tools.ErrInvalidArguments):
		return http.StatusBadRequest, string(tools.KindInvalidArguments)
	case errors.Is(err, planner.ErrNoMatchingTool):
		return http.StatusInternalServerError, kindNoMatchingTool
	case errors.Is(err, weather.ErrLocationNotFound):
		return http.StatusInternalServerError, kindLocationNotFound
	case errors.Is(err, weather.ErrUpstreamUnavailable):
		return http.StatusInternalServerError, kindUpstreamUnavailable
	case errors.Is(err, tools.ErrToolNotFound):
		return http.StatusInternalServerError, string(tools.KindToolNotFound)
	case errors.Is(err, tools.ErrToolExecutionFailed):
		return http.StatusInternalServerError, string(tools.KindToolExecutionFailed)
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

// errorChain flattens the wrapped errors beneath err, outermost first.
// It is the diagnostic detail returned in the "stack" field.
func errorChain(err error) []string {
	var chain []string
	queue := []error{err}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e == nil {
			continue
		}
		chain = append(chain, e.Error())
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			queue = append(queue, u.Unwrap())
		case interface{ Unwrap() []error }:
			queue = append(queue, u.Unwrap()...)
		}
	}
	return chain
}
