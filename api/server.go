// Package api exposes the agent over HTTP: one endpoint to submit
// natural-language queries and two to inspect or reset the session memory.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkombe/loanlens/agent"
	"go.uber.org/zap"
)

// Query is the request body of POST /query.
type Query struct {
	Text string `json:"text" binding:"required"`
}

// MemoryMessage is one conversation turn as exposed over the API.
type MemoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewRouter builds the HTTP router over the given agent.
func NewRouter(queryAgent *agent.QueryAgent, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.Default()

	router.POST("/query", func(c *gin.Context) {
		var q Query
		if err := c.ShouldBindJSON(&q); err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "request body must contain a text field"})
			return
		}

		response, err := queryAgent.ProcessQuery(c.Request.Context(), q.Text)
		if err != nil {
			logger.Error("query processing failed", zap.String("query", q.Text), zap.Error(err))
			c.IndentedJSON(http.StatusUnprocessableEntity, gin.H{
				"error":       err.Error(),
				"explanation": "The query could not be executed against the loan data.",
			})
			return
		}
		c.IndentedJSON(http.StatusOK, response)
	})

	router.GET("/memory", func(c *gin.Context) {
		history := queryAgent.Memory().History()
		messages := make([]MemoryMessage, 0, len(history))
		for _, msg := range history {
			messages = append(messages, MemoryMessage{Role: msg.Role, Content: msg.Content})
		}
		c.IndentedJSON(http.StatusOK, gin.H{"messages": messages})
	})

	router.DELETE("/memory", func(c *gin.Context) {
		queryAgent.Memory().Reset()
		c.IndentedJSON(http.StatusOK, gin.H{"status": "Memory reset successfully"})
	})

	return router
}
