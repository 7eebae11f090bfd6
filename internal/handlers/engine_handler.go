package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sparkmeet/spark-backend/internal/app"
	"github.com/sparkmeet/spark-backend/internal/engine"
	svcErr "github.com/sparkmeet/spark-backend/internal/errors"
)

// EngineHandler exposes the swipe & match engine over HTTP. It only
// parses, delegates and maps errors; every business rule lives in the
// engine.
type EngineHandler struct {
	appCtx *app.AppContext
	engine *engine.Engine
}

func NewEngineHandler(appCtx *app.AppContext) *EngineHandler {
	return &EngineHandler{
		appCtx: appCtx,
		engine: engine.New(appCtx),
	}
}

func fail(c *gin.Context, err error) {
	status, msg := svcErr.Map(err)
	c.JSON(status, gin.H{"error": msg})
}

func parseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		fail(c, svcErr.Validation(param+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

type putSwipeRequest struct {
	ActorID  uint64 `json:"actor_id" binding:"required"`
	TargetID uint64 `json:"target_id" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
}

// PutSwipe records a decision. 409 when an active swipe for the pair
// already exists.
func (h *EngineHandler) PutSwipe(c *gin.Context) {
	var req putSwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, svcErr.Validation("actor_id, target_id and kind are required"))
		return
	}

	h.appCtx.Logger.Debug("PutSwipe called", "actor", req.ActorID, "target", req.TargetID, "kind", req.Kind)

	res, err := h.engine.RecordSwipe(c.Request.Context(), req.ActorID, req.TargetID, req.Kind, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{
		"swipe_id": res.Swipe.ID,
		"matched":  res.Matched,
	}
	if res.Matched {
		body["match_id"] = res.Match.ID
	}
	c.JSON(http.StatusOK, body)
}

type undoRequest struct {
	ActorID uint64 `json:"actor_id" binding:"required"`
}

// UndoSwipe revokes the actor's most recent active swipe. 404 when
// there is nothing to undo.
func (h *EngineHandler) UndoSwipe(c *gin.Context) {
	var req undoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, svcErr.Validation("actor_id is required"))
		return
	}

	res, err := h.engine.UndoLastSwipe(c.Request.Context(), req.ActorID)
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{
		"swipe_id":  res.Swipe.ID,
		"target_id": res.Swipe.TargetID,
		"kind":      res.Swipe.Kind,
		"unmatched": res.Unmatched,
	}
	if res.Unmatched {
		body["match_id"] = res.Match.ID
	}
	c.JSON(http.StatusOK, body)
}

// RebuildQueue recomputes the viewer's discovery queue and reports how
// many entries were written.
func (h *EngineHandler) RebuildQueue(c *gin.Context) {
	viewerID, ok := parseID(c, "viewerID")
	if !ok {
		return
	}

	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fail(c, svcErr.Validation("size must be a positive integer"))
			return
		}
		size = n
	}

	written, err := h.engine.RebuildQueue(c.Request.Context(), viewerID, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries_written": written})
}

// ReadQueue returns the viewer's ranked candidates.
func (h *EngineHandler) ReadQueue(c *gin.Context) {
	viewerID, ok := parseID(c, "viewerID")
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fail(c, svcErr.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.engine.ReadQueue(c.Request.Context(), viewerID, limit)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		out = append(out, gin.H{
			"candidate_id":        e.CandidateID,
			"compatibility_score": e.Score,
			"priority":            e.Priority,
		})
	}
	c.JSON(http.StatusOK, gin.H{"candidates": out})
}

// ReadMatches lists a user's matches with optional status filter and
// cursor pagination.
func (h *EngineHandler) ReadMatches(c *gin.Context) {
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}

	var token *string
	if raw := c.Query("page_token"); raw != "" {
		token = &raw
	}

	matches, next, err := h.engine.ReadMatches(c.Request.Context(), userID, c.Query("status"), token, 20)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		out = append(out, gin.H{
			"match_id":         m.ID,
			"low_user_id":      m.LowUserID,
			"high_user_id":     m.HighUserID,
			"status":           m.Status,
			"matched_at":       m.MatchedAt,
			"last_activity_at": m.LastActivityAt,
		})
	}
	body := gin.H{"matches": out}
	if next != nil {
		body["next_page_token"] = *next
	}
	c.JSON(http.StatusOK, body)
}

// CountMatches returns the user's active match count (cache-first).
func (h *EngineHandler) CountMatches(c *gin.Context) {
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}

	count, err := h.engine.CountMatches(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ReadAnalytics returns the user's counters summed over the period.
func (h *EngineHandler) ReadAnalytics(c *gin.Context) {
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}

	period := c.DefaultQuery("period", "day")
	summary, err := h.engine.ReadAnalytics(c.Request.Context(), userID, period)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
