package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"psychic-poker/internal/middleware"
	"psychic-poker/internal/service"
	"psychic-poker/internal/service/poker"
	"psychic-poker/internal/ws"
	appErr "psychic-poker/pkg/errors"
	"psychic-poker/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(services.Solver)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/psychic/v1")
	{
		v1.POST("/solve", handler.Solve)
		v1.POST("/solve/batch", handler.SolveBatch)
		v1.GET("/solutions/:id", handler.GetSolution)
		v1.GET("/stats", handler.Stats)
	}

	adminGroup := r.Group("/admin")
	{
		adminGroup.POST("/auth/login", handler.AdminLogin)

		protected := adminGroup.Group("/")
		protected.Use(middleware.AdminAuthRequired(services.Issuer))
		{
			protected.GET("/solutions", handler.AdminListSolutions)
			protected.DELETE("/solutions/:id", handler.AdminDeleteSolution)
		}
	}

	r.GET("/ws/solve", wsHandler.HandleSolveWS)
}

type solveBody struct {
	Line string       `json:"line"`
	Hand []poker.Card `json:"hand"`
	Deck []poker.Card `json:"deck"`
}

func (b solveBody) toDeal() (poker.Deal, error) {
	if strings.TrimSpace(b.Line) != "" {
		return poker.ParseDeal(b.Line)
	}
	if len(b.Hand) == 0 && len(b.Deck) == 0 {
		return poker.Deal{}, fmt.Errorf("%w: line or hand/deck required", appErr.ErrInvalidDeal)
	}
	return poker.NewDeal(b.Hand, b.Deck)
}

type batchBody struct {
	Lines []string `json:"lines" binding:"required"`
}

type adminLoginBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Solve(c *gin.Context) {
	var body solveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	deal, err := body.toDeal()
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.Solver.Solve(c.Request.Context(), deal)
	if err != nil {
		h.handleSolverError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *Handler) SolveBatch(c *gin.Context) {
	var body batchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.Solver.SolveLines(c.Request.Context(), body.Lines)
	if err != nil {
		h.handleSolverError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *Handler) GetSolution(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	sol, err := h.services.Solver.GetSolution(c.Request.Context(), id)
	if err != nil {
		h.handleSolverError(c, err)
		return
	}
	response.Success(c, sol)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.services.Solver.Stats(c.Request.Context())
	if err != nil {
		h.handleSolverError(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var body adminLoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.services.Admin.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, appErr.ErrAdminNotFound), errors.Is(err, appErr.ErrInvalidAdminPassword):
			status = http.StatusUnauthorized
		case errors.Is(err, appErr.ErrAdminDisabled):
			status = http.StatusForbidden
		}
		response.Error(c, status, err.Error())
		return
	}

	response.Success(c, resp)
}

func (h *Handler) AdminListSolutions(c *gin.Context) {
	page, err := parsePositiveIntQuery(c, "page", 1)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	size, err := parsePositiveIntQuery(c, "size", 20)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.Solver.ListSolutions(c.Request.Context(), page, size)
	if err != nil {
		h.handleSolverError(c, err)
		return
	}
	response.Success(c, gin.H{
		"items": result.Items,
		"total": result.Total,
		"page":  page,
		"size":  size,
	})
}

func (h *Handler) AdminDeleteSolution(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	adminID, _ := getAdminID(c)
	if err := h.services.Admin.DeleteSolution(c.Request.Context(), adminID, id); err != nil {
		h.handleSolverError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

func (h *Handler) handleSolverError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appErr.ErrInvalidDeal),
		errors.Is(err, appErr.ErrInvalidCard),
		errors.Is(err, appErr.ErrDuplicateCard),
		errors.Is(err, appErr.ErrEmptyBatch):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, appErr.ErrBatchTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, appErr.ErrSolutionNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErr.ErrStorageDisabled):
		response.Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}

func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func parsePositiveIntQuery(c *gin.Context, key string, defaultVal int) (int, error) {
	val := c.Query(key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return parsed, nil
}

func getAdminID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.ContextAdminIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
