package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jegatheesh001/billzen-server/internal/ledger"
	"github.com/Jegatheesh001/billzen-server/internal/models"
	"github.com/Jegatheesh001/billzen-server/internal/service"
)

// Handler holds the HTTP handlers for the API
type Handler struct {
	svc       service.Service
	jwtSecret []byte
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, jwtSecret string) *Handler {
	return &Handler{svc: svc, jwtSecret: []byte(jwtSecret)}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(MetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/api/auth")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/login", h.login)
	}

	api := router.Group("/api")
	api.Use(AuthMiddleware(h.jwtSecret))
	{
		api.GET("/users", h.listUsers)
		api.POST("/users", h.createUser)
		api.PATCH("/users/:id", h.updateUser)

		api.GET("/expenses", h.listExpenses)
		api.POST("/expenses", h.createExpense)
		api.PATCH("/expenses/:id", h.updateExpense)
		api.DELETE("/expenses/:id", h.deleteExpense)
		api.POST("/expenses/bulk-delete", h.bulkDeleteExpenses)

		api.GET("/events", h.listEvents)
		api.POST("/events", h.createEvent)
		api.PATCH("/events/:id", h.updateEvent)
		api.DELETE("/events/:id", h.deleteEvent)

		api.GET("/categories", h.listCategories)
		api.POST("/categories", h.createCategory)
		api.POST("/categories/rename", h.renameCategory)
		api.DELETE("/categories/:name", h.deleteCategory)

		api.GET("/debts", h.getDebts)
		api.POST("/settlements", h.recordSettlement)
	}
}

// respondError maps core error kinds to HTTP status codes. This is the only
// place errors turn into user-visible responses; the engine, composer and
// service report them upward untouched.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *ledger.ValidationError
		refErr        *service.ReferentialError
		storeErr      *service.StoreError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrDuplicateCategory), errors.Is(err, service.ErrEmailTaken):
		writeError(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.As(err, &refErr):
		writeError(c, http.StatusUnprocessableEntity, "REFERENTIAL_INCONSISTENCY", err.Error())
	case errors.Is(err, ledger.ErrSettlementCategoryUnavailable):
		writeError(c, http.StatusBadGateway, "SETTLEMENT_CATEGORY_UNAVAILABLE", err.Error())
	case errors.As(err, &storeErr):
		writeError(c, http.StatusInternalServerError, "STORE_FAILURE", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

func badRequest(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}
