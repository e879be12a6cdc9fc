package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/cinescope/internal/filters"
)

type reduceRequest struct {
	State *filters.State  `json:"state"`
	Event json.RawMessage `json:"event"`
}

// handleReduceFilters applies one event to a caller-held state without
// touching the server-side filters screen.
func (h *Handler) handleReduceFilters(c *gin.Context) {
	var req reduceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	event, err := filters.DecodeEvent(req.Event)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	state := filters.Baseline()
	if req.State != nil {
		state = *req.State
	}
	c.JSON(http.StatusOK, filters.Reduce(state, event))
}

func (h *Handler) handleGetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Filters.State())
}

func (h *Handler) handleFilterEvent(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	event, err := filters.DecodeEvent(data)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.services.Filters.Dispatch(event))
}

// handleFilterReference loads countries and languages into the filters screen.
func (h *Handler) handleFilterReference(c *gin.Context) {
	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.Filters
	vm.LoadReference()
	vm.Wait()

	screen := vm.State()
	if h.failState(c, screen.Reference) {
		return
	}
	c.JSON(http.StatusOK, screen)
}
