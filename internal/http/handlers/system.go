package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"blogapi/internal/http/response"
)

// Root greets the API client.
func (a *API) Root(c *gin.Context) {
	response.Success(c, gin.H{"message": "blog api"}, "welcome", response.CodeSuccess)
}

// Health is a liveness probe; it never touches the database.
func (a *API) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"}, "healthy", response.CodeSuccess)
}

// DBCheck verifies database connectivity and reports the server version.
func (a *API) DBCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var version string
	if err := a.db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		response.Error(c, "database unavailable", response.CodeDatabaseError, nil, err.Error())
		return
	}

	response.Success(c, gin.H{"mysql_version": version}, "database reachable", response.CodeSuccess)
}
