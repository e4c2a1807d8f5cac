package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"store-service/internal/catalog"
	"store-service/internal/models"
	"store-service/internal/service"
	"store-service/internal/session"
	"store-service/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sidContextKey = "sid"

// Handler contains HTTP handlers
type Handler struct {
	storeService    *service.StoreService
	checkoutService *service.CheckoutService
	sessions        session.Store
	cookieName      string
	cookieMaxAge    int
	corsOrigins     []string
	sanitizer       *bluemonday.Policy
}

// NewHandler creates a new HTTP handler
func NewHandler(
	storeService *service.StoreService,
	checkoutService *service.CheckoutService,
	sessions session.Store,
	cookieName string,
	cookieMaxAge int,
	corsOrigins []string,
) *Handler {
	return &Handler{
		storeService:    storeService,
		checkoutService: checkoutService,
		sessions:        sessions,
		cookieName:      cookieName,
		cookieMaxAge:    cookieMaxAge,
		corsOrigins:     corsOrigins,
		sanitizer:       bluemonday.StrictPolicy(),
	}
}

// AddItemRequest is the body for adding an item to the cart
type AddItemRequest struct {
	ItemName string `json:"item_name" binding:"required"`
}

// CartResponse is the cart payload returned by cart endpoints
type CartResponse struct {
	Items     []models.CartLine `json:"items"`
	TotalCost int64             `json:"total_cost"`
	ItemCount int               `json:"item_count"`
	Message   string            `json:"message,omitempty"`
}

// CheckoutResponse is returned on a successful checkout
type CheckoutResponse struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	TotalPaid   int64  `json:"total_paid"`
	ItemCount   int    `json:"item_count"`
	Status      string `json:"status"`
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     h.corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(h.sessionMiddleware())
	{
		v1.GET("/menu", h.getMenu)
		v1.GET("/menu/:category", h.getMenuByCategory)
		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addItem)
		v1.DELETE("/cart/items/:name", h.removeItem)
		v1.DELETE("/cart", h.clearCart)
		v1.POST("/checkout", h.checkout)
		v1.GET("/orders/:id", h.getOrder)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// getMenu returns the full menu
func (h *Handler) getMenu(c *gin.Context) {
	c.JSON(http.StatusOK, h.storeService.Menu())
}

// getMenuByCategory returns menu items for one category
func (h *Handler) getMenuByCategory(c *gin.Context) {
	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown category",
		})
		return
	}

	c.JSON(http.StatusOK, h.storeService.MenuByCategory(category))
}

// getCart returns the current session's cart
func (h *Handler) getCart(c *gin.Context) {
	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, CartResponse{
		Items:     cart.Items,
		TotalCost: cart.TotalCost,
		ItemCount: cart.ItemCount,
	})
}

// addItem adds one unit of a menu item to the cart. The mutated cart is
// validated before it is saved; a cart that fails validation is not
// persisted, so the session keeps its previous consistent state.
func (h *Handler) addItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	itemName := h.sanitize(req.ItemName)
	if itemName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Item name is required",
		})
		return
	}

	item, err := h.storeService.GetItem(itemName)
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": "Item not found",
		})
		return
	}

	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	cart.AddItem(item)

	if err := h.storeService.ValidateCart(cart); err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	if !h.saveCart(c, cart) {
		return
	}

	util.CartItemsAddedTotal.Inc()
	c.JSON(http.StatusOK, CartResponse{
		Items:     cart.Items,
		TotalCost: cart.TotalCost,
		ItemCount: cart.ItemCount,
		Message:   "Added " + item.Name + " to cart",
	})
}

// removeItem removes a whole cart line. A missing line is still a 200;
// absence is a valid outcome.
func (h *Handler) removeItem(c *gin.Context) {
	itemName := h.sanitize(c.Param("name"))

	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	removed := cart.RemoveItem(itemName)
	if removed {
		if !h.saveCart(c, cart) {
			return
		}
		util.CartItemsRemovedTotal.Inc()
	}

	message := "Removed " + itemName + " from cart"
	if !removed {
		message = "Item " + itemName + " not in cart"
	}

	c.JSON(http.StatusOK, CartResponse{
		Items:     cart.Items,
		TotalCost: cart.TotalCost,
		ItemCount: cart.ItemCount,
		Message:   message,
	})
}

// clearCart empties the session's cart
func (h *Handler) clearCart(c *gin.Context) {
	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	cart.Clear()
	if !h.saveCart(c, cart) {
		return
	}

	c.JSON(http.StatusOK, CartResponse{
		Items:     cart.Items,
		TotalCost: cart.TotalCost,
		ItemCount: cart.ItemCount,
		Message:   "Cart cleared",
	})
}

// checkout validates the cart, persists it as an order and empties the
// session
func (h *Handler) checkout(c *gin.Context) {
	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	if err := h.storeService.ValidateCart(cart); err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	order, err := h.checkoutService.Checkout(c.Request.Context(), cart)
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"error":   "Checkout failed",
			"details": err.Error(),
		})
		return
	}

	cart.Clear()
	if !h.saveCart(c, cart) {
		return
	}

	c.JSON(http.StatusCreated, CheckoutResponse{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		TotalPaid:   order.TotalAmount,
		ItemCount:   order.ItemCount,
		Status:      order.Status,
	})
}

// getOrder returns a persisted order with its items
func (h *Handler) getOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	order, items, err := h.checkoutService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

// sessionMiddleware ensures every request carries a session ID cookie
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(h.cookieName)
		if err != nil || sid == "" {
			sid = uuid.New().String()
			c.SetCookie(h.cookieName, sid, h.cookieMaxAge, "/", "", false, true)
		}
		c.Set(sidContextKey, sid)
		c.Next()
	}
}

// sanitize strips markup from user-supplied item names before they reach
// a menu lookup
func (h *Handler) sanitize(text string) string {
	return h.sanitizer.Sanitize(strings.TrimSpace(text))
}

func (h *Handler) loadCart(c *gin.Context) (*models.Cart, bool) {
	sid := c.GetString(sidContextKey)
	cart, err := h.sessions.Load(c.Request.Context(), sid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return nil, false
	}
	return cart, true
}

func (h *Handler) saveCart(c *gin.Context, cart *models.Cart) bool {
	sid := c.GetString(sidContextKey)
	if err := h.sessions.Save(c.Request.Context(), sid, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save cart",
		})
		return false
	}
	return true
}

// statusForError maps domain errors to HTTP status codes at the
// transport boundary
func statusForError(err error) int {
	switch {
	case errors.Is(err, catalog.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCartTooLarge),
		errors.Is(err, service.ErrItemNotInMenu),
		errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
