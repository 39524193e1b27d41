package handlers

import (
	"net/http"

	"pizzabot-api/config"
	"pizzabot-api/models"
	"pizzabot-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetMenu returns the catalog (public). Optional filters: branch code
// and category, mirroring what the chatbot offers in conversation.
func GetMenu(c *gin.Context) {
	snap, err := config.Store.Get(c.Request.Context(), "menu")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	branch := c.Query("branch")
	category := c.Query("category")

	items := []models.MenuItem{}
	for _, child := range snap.Children() {
		var item models.MenuItem
		if err := child.Decode(&item); err != nil {
			continue
		}
		if branch != "" && !item.SoldAt(branch) {
			continue
		}
		if category != "" && string(item.Category) != category {
			continue
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"menu":  items,
	})
}

// ListBranches returns all branches (public)
func ListBranches(c *gin.Context) {
	snap, err := config.Store.Get(c.Request.Context(), "branches")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch branches"})
		return
	}
	branches := []models.Branch{}
	for _, child := range snap.Children() {
		var b models.Branch
		if err := child.Decode(&b); err != nil {
			continue
		}
		branches = append(branches, b)
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(branches),
		"branches": branches,
	})
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	info := []gin.H{}
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{
			"from":  t.From,
			"to":    t.To,
			"actor": t.Actor,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"description":     "PizzaBot Order Lifecycle State Machine",
	})
}
