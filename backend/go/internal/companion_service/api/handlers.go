package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"Lumina_AI/backend/go/internal/companion_service/service"
	"Lumina_AI/backend/go/internal/companion_service/store"
	"Lumina_AI/backend/go/internal/models"
	"Lumina_AI/backend/go/pkg/logger"
)

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	auth         *service.AuthService
	orchestrator *service.Orchestrator
	decomposer   *service.Decomposer
	sessions     store.SessionStore
	goals        store.GoalStore
	log          *logger.Logger
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(
	auth *service.AuthService,
	orchestrator *service.Orchestrator,
	decomposer *service.Decomposer,
	sessions store.SessionStore,
	goals store.GoalStore,
	log *logger.Logger,
) *Handler {
	return &Handler{
		auth:         auth,
		orchestrator: orchestrator,
		decomposer:   decomposer,
		sessions:     sessions,
		goals:        goals,
		log:          log,
	}
}

// --- 认证 ---

// RegisterRequest 定义了邮箱注册请求的 JSON 结构。
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// Register 处理邮箱注册请求。
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "注册成功", "user_id": user.ID})
}

// LoginRequest 定义了登录请求的 JSON 结构。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 处理登录请求并返回 JWT。
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me 返回当前用户信息。
func (h *Handler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"is_active": user.IsActive,
	})
}

// --- 会话管理 ---

// CreateChatRequest 定义了创建会话请求的 JSON 结构。
type CreateChatRequest struct {
	Title string `json:"title"`
}

// CreateChat 创建一个新会话并注册到用户的会话索引。
func (h *Handler) CreateChat(c *gin.Context) {
	// 空请求体也是合法的，使用默认标题。
	var req CreateChatRequest
	_ = c.ShouldBindJSON(&req)
	if req.Title == "" {
		req.Title = "New Chat"
	}

	uid := strconv.FormatUint(uint64(currentUserID(c)), 10)
	meta, err := h.sessions.CreateChat(c.Request.Context(), uid, req.Title)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "会话服务不可用"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

// ListChats 返回用户的会话列表，按创建时间降序。
func (h *Handler) ListChats(c *gin.Context) {
	uid := strconv.FormatUint(uint64(currentUserID(c)), 10)
	c.JSON(http.StatusOK, h.sessions.ListChats(c.Request.Context(), uid))
}

// DeleteChat 删除会话及其消息日志。
func (h *Handler) DeleteChat(c *gin.Context) {
	uid := strconv.FormatUint(uint64(currentUserID(c)), 10)
	h.sessions.DeleteChat(c.Request.Context(), uid, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// RenameChatRequest 定义了重命名会话请求的 JSON 结构。
type RenameChatRequest struct {
	Title string `json:"title" binding:"required"`
}

// RenameChat 更新会话标题。
func (h *Handler) RenameChat(c *gin.Context) {
	var req RenameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := strconv.FormatUint(uint64(currentUserID(c)), 10)
	h.sessions.RenameChat(c.Request.Context(), uid, c.Param("id"), req.Title)
	c.JSON(http.StatusOK, gin.H{"status": "renamed"})
}

// ChatHistory 返回会话的完整消息日志，最旧在前。
func (h *Handler) ChatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.History(c.Request.Context(), c.Param("id")))
}

// --- 对话轮次 ---

// ChatRequest 定义了一轮对话请求的 JSON 结构。
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	ChatID  string `json:"chat_id" binding:"required"`
}

// Chat 处理一轮对话。编排器从不失败：生成链路彻底不可用时返回固定
// 的道歉回复。
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	userName := ""
	if user, err := h.auth.GetUser(c.Request.Context(), userID); err == nil {
		userName = user.FullName
	}

	result := h.orchestrator.Respond(c.Request.Context(), userID, req.ChatID, req.Message, userName)
	c.JSON(http.StatusOK, gin.H{
		"response":       result.Response,
		"chat_id":        req.ChatID,
		"mode":           result.Mode,
		"title":          result.Title,
		"memory_updated": result.MemoryUpdated,
		"created_goal":   result.CreatedGoal,
	})
}

// --- 目标管理 ---

// CreateGoalRequest 定义了创建目标请求的 JSON 结构。
type CreateGoalRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Duration     int    `json:"duration" binding:"required,min=1"`
	DurationUnit string `json:"duration_unit" binding:"required,oneof=days weeks months"`
	Priority     string `json:"priority" binding:"omitempty,oneof=High Medium Low"`
	Granularity  string `json:"granularity" binding:"omitempty,oneof=daily weekly"`
}

// CreateGoal 创建目标并立即做一次分解，生成有序的子任务计划。
func (h *Handler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	subtasks := h.decomposer.Decompose(c.Request.Context(), req.Title, req.Duration, req.DurationUnit, req.Granularity)
	data, err := json.Marshal(subtasks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	goal := &models.Goal{
		UserID:       currentUserID(c),
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		DurationUnit: req.DurationUnit,
		Priority:     req.Priority,
		Status:       models.StatusNotStarted,
		Subtasks:     datatypes.JSON(data),
	}
	if err := h.goals.Create(c.Request.Context(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goal)
}

// ListGoals 返回用户的目标列表。
func (h *Handler) ListGoals(c *gin.Context) {
	goals, err := h.goals.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goals)
}

// UpdateSubtaskRequest 定义了更新子任务完成状态的 JSON 结构。
type UpdateSubtaskRequest struct {
	Completed bool `json:"completed"`
}

// UpdateSubtask 切换目标中单个子任务的完成状态。
func (h *Handler) UpdateSubtask(c *gin.Context) {
	goalID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的目标 ID 格式"})
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的子任务序号"})
		return
	}

	var req UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.goals.GetByID(c.Request.Context(), currentUserID(c), uint(goalID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "目标不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var subtasks []models.Subtask
	if len(goal.Subtasks) > 0 {
		if err := json.Unmarshal(goal.Subtasks, &subtasks); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "子任务数据损坏"})
			return
		}
	}
	if index < 0 || index >= len(subtasks) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "子任务序号越界"})
		return
	}

	subtasks[index].Completed = req.Completed
	data, err := json.Marshal(subtasks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	goal.Subtasks = datatypes.JSON(data)

	if err := h.goals.Update(c.Request.Context(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goal)
}

// DeleteGoal 删除目标。
func (h *Handler) DeleteGoal(c *gin.Context) {
	goalID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的目标 ID 格式"})
		return
	}
	if err := h.goals.Delete(c.Request.Context(), currentUserID(c), uint(goalID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
