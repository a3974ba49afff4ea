package main

import (
	"net/http/httptest"
	"testing"

	"taskman/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filtersFromQuery(t *testing.T, query string) (taskFilters, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/tasks?"+query, nil)
	return parseTaskFilters(c)
}

func TestParseTaskFilters(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		f, err := filtersFromQuery(t, "")
		require.NoError(t, err)
		assert.Empty(t, f.Status)
		assert.Empty(t, f.Priority)
		assert.Nil(t, f.IsCompleted)
		assert.Empty(t, f.Search)
	})

	t.Run("all set", func(t *testing.T) {
		f, err := filtersFromQuery(t, "status=in_progress&priority=high&is_completed=false&search=groceries")
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, f.Status)
		assert.Equal(t, models.PriorityHigh, f.Priority)
		require.NotNil(t, f.IsCompleted)
		assert.False(t, *f.IsCompleted)
		assert.Equal(t, "groceries", f.Search)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := filtersFromQuery(t, "status=started")
		assert.Error(t, err)
	})

	t.Run("bad priority", func(t *testing.T) {
		_, err := filtersFromQuery(t, "priority=urgent")
		assert.Error(t, err)
	})

	t.Run("bad is_completed", func(t *testing.T) {
		_, err := filtersFromQuery(t, "is_completed=maybe")
		assert.Error(t, err)
	})
}

func TestTaskEnums(t *testing.T) {
	valid := []models.TaskStatus{models.StatusTodo, models.StatusInProgress, models.StatusDone, models.StatusArchived}
	for _, s := range valid {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, models.TaskStatus("deleted").Valid())
	assert.False(t, models.TaskStatus("").Valid())

	for _, p := range []models.TaskPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical} {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, models.TaskPriority("urgent").Valid())
}

func TestTaskCacheKeys(t *testing.T) {
	done := true
	f1 := taskFilters{Status: models.StatusTodo}
	f2 := taskFilters{Status: models.StatusTodo, IsCompleted: &done}

	k1 := taskListCacheKey(1, 1, 20, f1)
	k2 := taskListCacheKey(1, 1, 20, f2)
	assert.NotEqual(t, k1, k2, "different filters must produce different keys")

	// stable across calls
	assert.Equal(t, k1, taskListCacheKey(1, 1, 20, f1))

	// different users never collide and both match their invalidation pattern prefix
	assert.NotEqual(t, taskListCacheKey(1, 1, 20, f1), taskListCacheKey(2, 1, 20, f1))
	assert.Contains(t, k1, "tasks:1:")
	assert.Equal(t, "tasks:1:*", taskListPattern(1))
	assert.Equal(t, "task:1:9", taskCacheKey(1, 9))
	assert.Equal(t, "task:1:*", taskPattern(1))
}

// nil cache must behave as a silent miss everywhere
func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	_, hit := c.Get("k")
	assert.False(t, hit)
	c.Set("k", "v")
	c.Delete("k")
	c.DeletePattern("k*")
}
