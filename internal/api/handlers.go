package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jegatheesh001/billzen-server/internal/models"
)

// Authentication handlers

func (h *Handler) signUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// User handlers

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.UsersResponse{Status: "success", Users: users})
}

func (h *Handler) createUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.UserResponse{Status: "success", User: user})
}

func (h *Handler) updateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.UserResponse{Status: "success", User: user})
}

// Expense handlers

func (h *Handler) listExpenses(c *gin.Context) {
	expenses, err := h.svc.ListExpenses(c.Request.Context(), c.Query("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ExpensesResponse{Status: "success", Expenses: expenses})
}

func (h *Handler) createExpense(c *gin.Context) {
	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	expense, err := h.svc.CreateExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ExpenseResponse{Status: "success", Expense: expense})
}

func (h *Handler) updateExpense(c *gin.Context) {
	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	expense, err := h.svc.UpdateExpense(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ExpenseResponse{Status: "success", Expense: expense})
}

func (h *Handler) deleteExpense(c *gin.Context) {
	if err := h.svc.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DeletedResponse{Status: "success", Deleted: 1})
}

func (h *Handler) bulkDeleteExpenses(c *gin.Context) {
	var req models.BulkDeleteExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	deleted, err := h.svc.DeleteExpenses(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DeletedResponse{Status: "success", Deleted: deleted})
}

// Event handlers

func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.svc.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EventsResponse{Status: "success", Events: events})
}

func (h *Handler) createEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	event, err := h.svc.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.EventResponse{Status: "success", Event: event})
}

func (h *Handler) updateEvent(c *gin.Context) {
	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	event, err := h.svc.UpdateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.EventResponse{Status: "success", Event: event})
}

func (h *Handler) deleteEvent(c *gin.Context) {
	if err := h.svc.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DeletedResponse{Status: "success", Deleted: 1})
}

// Category handlers

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CategoriesResponse{Status: "success", Categories: categories})
}

func (h *Handler) createCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.CategoryResponse{Status: "success", Category: category})
}

func (h *Handler) renameCategory(c *gin.Context) {
	var req models.RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	name, updated, err := h.svc.RenameCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RenameCategoryResponse{
		Status:          "success",
		Name:            name,
		UpdatedExpenses: updated,
	})
}

func (h *Handler) deleteCategory(c *gin.Context) {
	cleared, err := h.svc.DeleteCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DeleteCategoryResponse{
		Status:          "success",
		ClearedExpenses: cleared,
	})
}

// Balance and settlement handlers

func (h *Handler) getDebts(c *gin.Context) {
	debts, err := h.svc.GetDebts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DebtsResponse{Status: "success", Debts: debts})
}

func (h *Handler) recordSettlement(c *gin.Context) {
	var req models.RecordSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	expense, err := h.svc.RecordSettlement(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ExpenseResponse{Status: "success", Expense: expense})
}
