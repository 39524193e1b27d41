package handlers

import (
	"net/http"

	"pizzabot-api/config"
	"pizzabot-api/middleware"
	"pizzabot-api/models"
	"pizzabot-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetAllOrders returns every order across users, grouped by customer,
// with a per-status summary (employee and deliveryman).
func GetAllOrders(c *gin.Context) {
	snap, err := config.Store.Get(c.Request.Context(), "orders")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	summary := map[string]int{}
	orders := []gin.H{}
	for _, userSnap := range snap.Children() {
		for _, orderSnap := range userSnap.Children() {
			var order models.Order
			if err := orderSnap.Decode(&order); err != nil {
				continue
			}
			summary[string(order.Status)]++
			orders = append(orders, gin.H{
				"customer_id": userSnap.Key,
				"order_id":    orderSnap.Key,
				"item":        order.ItemName,
				"payment":     order.Payment,
				"status":      order.Status,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus applies a lifecycle transition to an order. The
// caller's role is the state-machine actor, so an employee cannot mark
// an order delivered and a deliveryman cannot confirm one.
func UpdateOrderStatus(c *gin.Context) {
	actor := string(middleware.GetRole(c))
	userID := c.Param("userId")
	orderID := c.Param("orderId")
	path := "orders/" + userID + "/" + orderID

	ctx := c.Request.Context()
	snap, err := config.Store.Get(ctx, path)
	if err != nil || !snap.Exists() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	var order models.Order
	if err := snap.Decode(&order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read order"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, actor); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot update order",
			"reason":        err.Error(),
			"current_state": order.Status,
		})
		return
	}

	prev := order.Status
	order.Status = req.Status
	if err := config.Store.Set(ctx, path, order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order status updated",
		"order_id": orderID,
		"from":     prev,
		"to":       order.Status,
	})
}

// CancelOrder lets a customer cancel their own order while the state
// machine still allows it.
func CancelOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID := c.Param("orderId")
	path := "orders/" + userID + "/" + orderID

	ctx := c.Request.Context()
	snap, err := config.Store.Get(ctx, path)
	if err != nil || !snap.Exists() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	var order models.Order
	if err := snap.Decode(&order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read order"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, "customer"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot cancel order",
			"reason":        err.Error(),
			"current_state": order.Status,
		})
		return
	}

	prev := order.Status
	order.Status = models.StatusCancelled
	if err := config.Store.Set(ctx, path, order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order cancelled successfully",
		"order_id": orderID,
		"from":     prev,
	})
}
