package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"taskman/models"
	"taskman/pkg/paging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// taskFilters captures the optional query filters on the task list.
type taskFilters struct {
	Status      models.TaskStatus
	Priority    models.TaskPriority
	IsCompleted *bool
	Search      string
}

// parseTaskFilters reads and validates the filter query params.
func parseTaskFilters(c *gin.Context) (taskFilters, error) {
	var f taskFilters
	if v := c.Query("status"); v != "" {
		f.Status = models.TaskStatus(v)
		if !f.Status.Valid() {
			return f, fmt.Errorf("invalid status %q", v)
		}
	}
	if v := c.Query("priority"); v != "" {
		f.Priority = models.TaskPriority(v)
		if !f.Priority.Valid() {
			return f, fmt.Errorf("invalid priority %q", v)
		}
	}
	if v := c.Query("is_completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid is_completed %q", v)
		}
		f.IsCompleted = &b
	}
	if v := c.Query("search"); v != "" {
		if len(v) > 100 {
			return f, fmt.Errorf("search too long (max 100)")
		}
		f.Search = v
	}
	return f, nil
}

// apply adds the filter conditions to a task query.
func (f taskFilters) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.IsCompleted != nil {
		q = q.Where("is_completed = ?", *f.IsCompleted)
	}
	if f.Search != "" {
		q = q.Where("title ILIKE ?", "%"+f.Search+"%")
	}
	return q
}

type taskListResponse struct {
	Items    []models.Task `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Pages    int           `json:"pages"`
}

func listTasksHandler(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing user id"})
		return
	}
	f, err := parseTaskFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = paging.Clamp(page, pageSize, cfg.DefaultPageSize, cfg.MaxPageSize)

	key := taskListCacheKey(uid, page, pageSize, f)
	if raw, hit := appCache.Get(key); hit {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	q := f.apply(db.Model(&models.Task{}).Where("user_id = ?", uid))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	tasks := []models.Task{}
	// id DESC tiebreak keeps pages non-overlapping for equal timestamps
	if err := q.Order("created_at DESC, id DESC").
		Offset(paging.Offset(page, pageSize)).Limit(pageSize).
		Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	resp := taskListResponse{
		Items:    tasks,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    paging.Pages(total, pageSize),
	}
	appCache.Set(key, resp)
	c.JSON(http.StatusOK, resp)
}

func createTaskHandler(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing user id"})
		return
	}
	var req struct {
		Title       string     `json:"title" binding:"required,max=200"`
		Description string     `json:"description" binding:"max=2000"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task := models.Task{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		DueDate:     req.DueDate,
	}
	if req.Priority != "" {
		p := models.TaskPriority(req.Priority)
		if !p.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid priority %q", req.Priority)})
			return
		}
		task.Priority = p
	}
	if err := db.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	appCache.DeletePattern(taskListPattern(uid))
	c.JSON(http.StatusCreated, task)
}

// findOwnedTask loads a task scoped to the owner; foreign tasks read as not found.
func findOwnedTask(uid uint, id string) (*models.Task, error) {
	var task models.Task
	if err := db.Where("user_id = ?", uid).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func getTaskHandler(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing user id"})
		return
	}
	id := c.Param("id")
	taskID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	key := taskCacheKey(uid, uint(taskID))
	if raw, hit := appCache.Get(key); hit {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}
	task, err := findOwnedTask(uid, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	appCache.Set(key, task)
	c.JSON(http.StatusOK, task)
}

func updateTaskHandler(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing user id"})
		return
	}
	task, err := findOwnedTask(uid, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status"`
		Priority    *string    `json:"priority"`
		IsCompleted *bool      `json:"is_completed"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		if *req.Title == "" || len(*req.Title) > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title must be 1-200 characters"})
			return
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		if len(*req.Description) > 2000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "description too long (max 2000)"})
			return
		}
		task.Description = *req.Description
	}
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid status %q", *req.Status)})
			return
		}
		task.Status = s
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		if !p.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid priority %q", *req.Priority)})
			return
		}
		task.Priority = p
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
		// completing a task also moves it to done
		if task.IsCompleted {
			task.Status = models.StatusDone
		}
	}
	if err := db.Save(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	appCache.Delete(taskCacheKey(uid, task.ID))
	appCache.DeletePattern(taskListPattern(uid))
	c.JSON(http.StatusOK, task)
}

func deleteTaskHandler(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing user id"})
		return
	}
	task, err := findOwnedTask(uid, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if err := db.Delete(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	appCache.Delete(taskCacheKey(uid, task.ID))
	appCache.DeletePattern(taskListPattern(uid))
	c.Status(http.StatusNoContent)
}
