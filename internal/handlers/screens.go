package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/viewmodel"
)

// Screen endpoints drive the app-scoped home, search and discover screens.
// Unlike the page-addressed routes they accumulate pages: "more" appends the
// next page to what the screen already holds.

func sectionParam(c *gin.Context) (viewmodel.Section, bool) {
	switch s := viewmodel.Section(c.Param("section")); s {
	case viewmodel.SectionTrending, viewmodel.SectionPopular, viewmodel.SectionTopRated:
		return s, true
	}
	badRequest(c, "unknown section: "+c.Param("section"))
	return "", false
}

// handleHomeScreen serves ?type=movie|tv&window=day|week. Rows are loaded on
// first use and when the type or window changes.
func (h *Handler) handleHomeScreen(c *gin.Context) {
	var mediaType models.MediaType
	if raw := c.Query("type"); raw != "" {
		mt, ok := models.ParseMediaType(raw)
		if !ok || (mt != models.MediaTypeMovie && mt != models.MediaTypeTV) {
			badRequest(c, "unsupported media type: "+raw)
			return
		}
		mediaType = mt
	}
	window := models.TimeWindow(c.Query("window"))
	if window != "" && window != models.TimeWindowDay && window != models.TimeWindowWeek {
		badRequest(c, "window must be day or week")
		return
	}

	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.HomeScreen
	st := vm.State()
	if !vm.Loaded() || (mediaType != "" && mediaType != st.MediaType) {
		vm.Update(func(s viewmodel.HomeState) viewmodel.HomeState {
			if mediaType != "" {
				s.MediaType = mediaType
			}
			if window != "" {
				s.Window = window
			}
			return s
		})
		vm.Load()
	} else if window != "" && window != st.Window {
		vm.SetWindow(window)
	}
	vm.Wait()
	c.JSON(http.StatusOK, vm.State())
}

func (h *Handler) handleHomeMore(c *gin.Context) {
	h.homeSection(c, h.services.HomeScreen.LoadMore)
}

func (h *Handler) handleHomeRetry(c *gin.Context) {
	h.homeSection(c, h.services.HomeScreen.Retry)
}

func (h *Handler) homeSection(c *gin.Context, action func(viewmodel.Section)) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}

	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.HomeScreen
	if !vm.Loaded() {
		vm.Load()
		vm.Wait()
	}
	action(section)
	vm.Wait()
	c.JSON(http.StatusOK, vm.State().Sections[section])
}

type searchScreenRequest struct {
	Query     string           `json:"query"`
	MediaType models.MediaType `json:"media_type"`
}

// handleSearchScreen records the query typed so far. The search itself runs
// after a quiet period, so the response is the state at the time of the call
// and callers poll GET for the results.
func (h *Handler) handleSearchScreen(c *gin.Context) {
	var req searchScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.MediaType != "" {
		if _, ok := models.ParseMediaType(string(req.MediaType)); !ok {
			badRequest(c, "unsupported media type: "+string(req.MediaType))
			return
		}
	}

	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.SearchScreen
	st := vm.State()
	typeChanged := req.MediaType != "" && req.MediaType != st.MediaType
	switch {
	case typeChanged && req.Query == st.Query:
		// same text, new scope: rerun without waiting for a quiet period
		vm.SetMediaType(req.MediaType)
	case typeChanged:
		vm.Update(func(s viewmodel.SearchState) viewmodel.SearchState {
			s.MediaType = req.MediaType
			return s
		})
		vm.SetQuery(req.Query)
	default:
		vm.SetQuery(req.Query)
	}
	c.JSON(http.StatusAccepted, vm.State())
}

func (h *Handler) handleGetSearchScreen(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.SearchScreen.State())
}

func (h *Handler) handleSearchMore(c *gin.Context) {
	if strings.TrimSpace(h.services.SearchScreen.State().Query) == "" {
		badRequest(c, "no active search")
		return
	}
	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.SearchScreen
	vm.LoadMore()
	vm.Wait()
	c.JSON(http.StatusOK, vm.State())
}

func (h *Handler) handleSearchRetry(c *gin.Context) {
	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.SearchScreen
	vm.Retry()
	vm.Wait()
	c.JSON(http.StatusOK, vm.State())
}

type discoverScreenRequest struct {
	MediaType models.MediaType `json:"media_type"`
}

// handleApplyDiscover reruns discover with the filters currently applied on
// the filters screen.
func (h *Handler) handleApplyDiscover(c *gin.Context) {
	var req discoverScreenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	if req.MediaType != "" && req.MediaType != models.MediaTypeMovie && req.MediaType != models.MediaTypeTV {
		badRequest(c, "unsupported media type: "+string(req.MediaType))
		return
	}

	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.DiscoverScreen
	st := vm.State()
	if req.MediaType != "" && req.MediaType != st.MediaType {
		vm.Update(func(s viewmodel.DiscoverState) viewmodel.DiscoverState {
			s.Query = h.services.Filters.Query()
			return s
		})
		vm.SetMediaType(req.MediaType)
	} else {
		if len(st.Genres) == 0 {
			vm.LoadGenres()
		}
		vm.Apply(h.services.Filters.Query())
	}
	vm.Wait()

	if h.failState(c, vm.State().Results.Refresh) {
		return
	}
	c.JSON(http.StatusOK, vm.State())
}

func (h *Handler) handleGetDiscoverScreen(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.DiscoverScreen.State())
}

func (h *Handler) handleDiscoverMore(c *gin.Context) {
	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.DiscoverScreen
	vm.LoadMore()
	vm.Wait()
	c.JSON(http.StatusOK, vm.State())
}

func (h *Handler) handleDiscoverRetry(c *gin.Context) {
	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.DiscoverScreen
	vm.Retry()
	vm.Wait()
	c.JSON(http.StatusOK, vm.State())
}
