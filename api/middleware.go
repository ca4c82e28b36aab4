package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aerodesk/aircheckin/internal/domain"
	"github.com/aerodesk/aircheckin/internal/metrics"
	"github.com/aerodesk/aircheckin/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const agentContextKey = "checkin_agent"

// RequestID tags every request so log lines from one submission correlate.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func Observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// RequireAgent resolves the staff identity for this request from the
// X-Agent-ID header. Workflows receive the resolved agent explicitly; no
// ambient per-process agent exists.
func RequireAgent(agents repository.AgentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		agentID := c.GetHeader("X-Agent-ID")
		if agentID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-Agent-ID header required"})
			return
		}
		agent, err := agents.GetByAgentID(c.Request.Context(), agentID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unknown or inactive agent"})
			return
		}
		c.Set(agentContextKey, agent)
		c.Next()
	}
}

func agentFrom(c *gin.Context) *domain.CheckInAgent {
	v, ok := c.Get(agentContextKey)
	if !ok {
		return nil
	}
	agent, _ := v.(*domain.CheckInAgent)
	return agent
}
