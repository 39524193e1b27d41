package handlers

import (
	"net/http"

	"pizzabot-api/config"
	"pizzabot-api/models"

	"github.com/gin-gonic/gin"
)

type MenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Price       float64         `json:"price" binding:"required,gte=0"`
	Description string          `json:"description"`
	Category    models.Category `json:"category" binding:"required,oneof=Vegetarian Non-Vegetarian"`
	Branches    []string        `json:"branches" binding:"required,min=1"`
	ImageURL    string          `json:"imageURL"`
}

// UpsertMenuItem creates or replaces a catalog entry (admin only)
func UpsertMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itemID := c.Param("itemId")
	item := models.MenuItem{
		ID:          itemID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Branches:    req.Branches,
		ImageURL:    req.ImageURL,
	}
	if err := config.Store.Set(c.Request.Context(), "menu/"+itemID, item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save menu item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item saved", "item": item})
}

type BranchRequest struct {
	Name      string  `json:"name" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// UpsertBranch creates or replaces a branch record (admin only)
func UpsertBranch(c *gin.Context) {
	var req BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code := c.Param("code")
	branch := models.Branch{
		Code:      code,
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := config.Store.Set(c.Request.Context(), "branches/"+code, branch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save branch"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Branch saved", "branch": branch})
}

// AdminGetAllUsers lists registered users without password hashes
func AdminGetAllUsers(c *gin.Context) {
	snap, err := config.Store.Get(c.Request.Context(), "users")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	users := []models.User{}
	for _, child := range snap.Children() {
		var user models.User
		if err := child.Decode(&user); err != nil {
			continue
		}
		user.ID = child.Key
		user.PasswordHash = ""
		users = append(users, user)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}
