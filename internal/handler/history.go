package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetConversationHistory godoc
// @Summary      Conversation history
// @Description  Returns the logged conversation turns for a user in timestamp order.
// @Tags         History
// @Accept       json
// @Produce      json
// @Param        user_id query     int  true   "Stable numeric user identity"
// @Param        limit   query     int  false  "Maximum number of turns (default all)"
// @Success      200     {object}  map[string][]models.Turn "history: [turns]"
// @Failure      400     {object}  map[string]string "Missing or invalid user_id"
// @Failure      500     {object}  map[string]string "Internal server error"
// @Router       /api/history [get]
func (g *ChatGateway) GetConversationHistory(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	turns, err := g.store.GetTurnsByUser(c.Request.Context(), userID, limit)
	if err != nil {
		log.Printf("GetConversationHistory(): failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": turns})
}

// GetPlanHistory godoc
// @Summary      Plan history
// @Description  Returns all versioned plans for a user, newest first. The plan with
// @Description  a null end_time is the currently active one.
// @Tags         History
// @Accept       json
// @Produce      json
// @Param        user_id query     int  true  "Stable numeric user identity"
// @Success      200     {object}  map[string][]models.Plan "plans: [plan records]"
// @Failure      400     {object}  map[string]string "Missing or invalid user_id"
// @Failure      500     {object}  map[string]string "Internal server error"
// @Router       /api/plans [get]
func (g *ChatGateway) GetPlanHistory(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	plans, err := g.store.GetPlansByUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("GetPlanHistory(): failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}
