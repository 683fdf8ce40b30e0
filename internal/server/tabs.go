package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/learntabs/internal/tabs"
)

type Planner interface {
	Plan(ctx context.Context, in tabs.Instruction) tabs.GenerateResponse
}

type Retriever interface {
	Retrieve(ctx context.Context, in tabs.Instruction) []tabs.GeneratedTab
}

// TabsHandler serves the GENERATE_TABS message and a raw retrieval view.
type TabsHandler struct {
	Planner   Planner
	Retriever Retriever
}

func (h *TabsHandler) Register(g *echo.Group) {
	g.POST("/plan", h.plan)
	g.POST("/retrieve", h.retrieve)
}

type planResponse struct {
	OK   bool                  `json:"ok"`
	Plan tabs.GenerateResponse `json:"plan"`
}

type retrieveResponse struct {
	OK   bool                `json:"ok"`
	Tabs []tabs.GeneratedTab `json:"tabs"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (h *TabsHandler) plan(c echo.Context) error {
	in, err := bindInstruction(c)
	if err != nil {
		return err
	}
	if h.Planner == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "planner not configured")
	}
	resp := h.Planner.Plan(c.Request().Context(), in)
	if resp.Tabs == nil {
		resp.Tabs = []tabs.GeneratedTab{}
	}
	return c.JSON(http.StatusOK, planResponse{OK: true, Plan: resp})
}

func (h *TabsHandler) retrieve(c echo.Context) error {
	in, err := bindInstruction(c)
	if err != nil {
		return err
	}
	if h.Retriever == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "retriever not configured")
	}
	found := h.Retriever.Retrieve(c.Request().Context(), in)
	if found == nil {
		found = []tabs.GeneratedTab{}
	}
	return c.JSON(http.StatusOK, retrieveResponse{OK: true, Tabs: found})
}

func bindInstruction(c echo.Context) (tabs.Instruction, error) {
	var in tabs.Instruction
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return in, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if in.Query() == "" {
		return in, echo.NewHTTPError(http.StatusBadRequest, "goal is required")
	}
	return in, nil
}
