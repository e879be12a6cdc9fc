package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/repository"
	"github.com/amaumene/cinescope/internal/result"
	"github.com/amaumene/cinescope/internal/viewmodel"
)

// authResult waits for the auth screen and renders its state.
func (h *Handler) authResult(c *gin.Context, vm *viewmodel.AuthViewModel) {
	vm.Wait()
	auth := vm.State()
	if h.failState(c, auth.Status) {
		return
	}
	c.JSON(http.StatusOK, auth)
}

func (h *Handler) handleRequestToken(c *gin.Context) {
	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.Auth
	vm.RequestToken()
	h.authResult(c, vm)
}

// handleCreateSession completes the sign-in started by /auth/token once the
// user approved the token on TMDB.
func (h *Handler) handleCreateSession(c *gin.Context) {
	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.Auth
	if vm.State().RequestToken == "" {
		badRequest(c, "no pending request token")
		return
	}
	vm.CompleteSession()
	h.authResult(c, vm)
}

func (h *Handler) handleLogout(c *gin.Context) {
	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.Auth
	vm.Logout()
	h.authResult(c, vm)
}

func (h *Handler) handleAccount(c *gin.Context) {
	user, err := h.services.User.CurrentUser().Get()
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "NOT_SIGNED_IN", "message": "no active session"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func collectionParam(c *gin.Context) (repository.Collection, bool) {
	kind := repository.Collection(c.Param("kind"))
	if kind != repository.CollectionWatchlist && kind != repository.CollectionFavorite {
		badRequest(c, "kind must be watchlist or favorite")
		return "", false
	}
	return kind, true
}

func (h *Handler) handleCollection(c *gin.Context) {
	kind, ok := collectionParam(c)
	if !ok {
		return
	}
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	h.respondPage(c, page, func(ctx context.Context, page int) result.Result[models.MediaResponseInfo] {
		return h.services.User.Collection(ctx, kind, mediaType, page)
	})
}

type collectionRequest struct {
	MediaType models.MediaType `json:"media_type"`
	MediaID   int              `json:"media_id"`
	On        bool             `json:"on"`
}

func (h *Handler) handleSetCollection(c *gin.Context) {
	kind, ok := collectionParam(c)
	if !ok {
		return
	}
	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if (req.MediaType != models.MediaTypeMovie && req.MediaType != models.MediaTypeTV) || req.MediaID <= 0 {
		badRequest(c, "media_type and media_id are required")
		return
	}

	ctx := c.Request.Context()
	if kind == repository.CollectionWatchlist {
		respondDone(h, c, h.services.User.SetWatchlist(ctx, req.MediaType, req.MediaID, req.On))
		return
	}
	respondDone(h, c, h.services.User.SetFavorite(ctx, req.MediaType, req.MediaID, req.On))
}

func (h *Handler) handleLists(c *gin.Context) {
	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.Lists
	vm.Load()
	vm.Wait()

	lists := vm.State()
	if h.failState(c, lists.Status) {
		return
	}
	c.JSON(http.StatusOK, lists)
}

type createListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleCreateList(c *gin.Context) {
	h.screens.Lock()
	defer h.screens.Unlock()

	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(c, "name is required")
		return
	}

	vm := h.services.Lists
	vm.CreateList(req.Name, req.Description)
	vm.Wait()

	lists := vm.State()
	if h.failState(c, lists.Create) {
		return
	}
	c.JSON(http.StatusCreated, lists)
}

func (h *Handler) handleListDetails(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	respond(h, c, h.services.User.ListDetails(c.Request.Context(), id, page))
}

func (h *Handler) handleDeleteList(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res := h.services.User.DeleteList(c.Request.Context(), id)
	if res.IsSuccess() {
		h.screens.Lock()
		h.services.Lists.Load()
		h.services.Lists.Wait()
		h.screens.Unlock()
	}
	respondDone(h, c, res)
}

type listItemRequest struct {
	MediaID int `json:"media_id"`
}

func (h *Handler) handleAddListItem(c *gin.Context) {
	h.mutateList(c, h.services.Lists.AddToList)
}

func (h *Handler) handleRemoveListItem(c *gin.Context) {
	h.mutateList(c, h.services.Lists.RemoveFromList)
}

// mutateList runs one add or remove through the lists screen so a second
// mutation on a list that is still busy is refused with 409.
func (h *Handler) mutateList(c *gin.Context, mutate func(listID, mediaID int) bool) {
	listID, ok := idParam(c)
	if !ok {
		return
	}
	var req listItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.MediaID <= 0 {
		badRequest(c, "media_id is required")
		return
	}

	h.screens.Lock()
	defer h.screens.Unlock()

	vm := h.services.Lists
	if _, found := findList(vm.State().Lists, listID); !found {
		vm.Load()
		vm.Wait()
		if _, found := findList(vm.State().Lists, listID); !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND", "message": "unknown list"})
			return
		}
	}

	if !mutate(listID, req.MediaID) {
		c.JSON(http.StatusConflict, gin.H{"error": "LIST_BUSY", "message": "another change to this list is in progress"})
		return
	}
	vm.Wait()

	list, _ := findList(vm.State().Lists, listID)
	if h.failState(c, list.AddState) {
		return
	}
	c.JSON(http.StatusOK, list)
}

func findList(lists []models.MyList, id int) (models.MyList, bool) {
	for _, l := range lists {
		if l.ID == id {
			return l, true
		}
	}
	return models.MyList{}, false
}
