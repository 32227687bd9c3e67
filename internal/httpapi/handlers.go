package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storyweave/internal/engine"
	"storyweave/internal/store"
)

type Handlers struct {
	svc *engine.Service
}

func NewHandlers(svc *engine.Service) *Handlers {
	return &Handlers{svc: svc}
}

type createEncounterRequest struct {
	Root *bool `json:"root"`
}

type duplicateRequest struct {
	Owner string `json:"owner"`
}

type updateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

type routeLabelRequest struct {
	Label string `json:"label"`
}

type routeTargetRequest struct {
	Target *int64 `json:"target"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type encounterListResponse struct {
	Encounters []store.NodeSummary `json:"encounters"`
}

type descendantsResponse struct {
	RootID int64   `json:"root_id"`
	IDs    []int64 `json:"ids"`
}

func (h *Handlers) CreateEncounter(c *gin.Context) {
	var req createEncounterRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
	}
	root := true
	if req.Root != nil {
		root = *req.Root
	}

	id, err := h.svc.CreateEncounter(c.Request.Context(), actorFrom(c), root)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *Handlers) DuplicateEncounter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req duplicateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
	}
	actor := actorFrom(c)
	owner := store.ActorID(req.Owner)
	if owner.IsZero() {
		owner = actor
	}

	newID, err := h.svc.DuplicateEncounter(c.Request.Context(), id, owner, actor)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: newID})
}

func (h *Handlers) UpdateEncounter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.svc.UpdateEncounterField(c.Request.Context(), id, req.Field, req.Value, actorFrom(c)); err != nil {
		respondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) GetEncounter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.svc.FetchEncounter(c.Request.Context(), id, actorFrom(c), publicScope(c))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	RespondOK(c, detail)
}

func (h *Handlers) ListUnlinked(c *gin.Context) {
	nodes, err := h.svc.ListUnlinkedNodes(c.Request.Context())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	RespondOK(c, encounterListResponse{Encounters: nodes})
}

func (h *Handlers) ListStorylines(c *gin.Context) {
	roots, err := h.svc.ListRootNodes(c.Request.Context(), actorFrom(c), publicScope(c))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	RespondOK(c, encounterListResponse{Encounters: roots})
}

func (h *Handlers) Descendants(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ids, err := h.svc.Descendants(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	RespondOK(c, descendantsResponse{RootID: id, IDs: ids})
}

func (h *Handlers) DeleteStoryline(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteStoryline(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) CreateRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	routeID, err := h.svc.CreateRoute(c.Request.Context(), id, actor, actor)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: routeID})
}

func (h *Handlers) UpdateRouteLabel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req routeLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.svc.UpdateRouteLabel(c.Request.Context(), id, req.Label, actorFrom(c)); err != nil {
		respondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) SetRouteTarget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req routeTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.svc.SetRouteTarget(c.Request.Context(), id, req.Target, actorFrom(c)); err != nil {
		respondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) DeleteRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteRoute(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, string(engine.KindValidation), fmt.Errorf("invalid id %q", raw))
		return 0, false
	}
	return id, true
}

func publicScope(c *gin.Context) bool {
	return c.Query("scope") == "public"
}
