package api

import (
	"database/sql"
	"log"

	"github.com/gin-gonic/gin"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/http/handlers"
	"blogapi/internal/http/middleware"
	"blogapi/internal/http/response"
	"blogapi/internal/obs"
)

// NewRouter wires the middleware chain and the route table. Stage order is
// fixed here: request-id first, then logging wrapping everything below it,
// with the recovery fallback innermost so recorded failures unwind through
// the logger.
func NewRouter(cfg config.Config, db *sql.DB, authSvc *auth.Service) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		obs.Instrument(),
		middleware.CORS(),
		middleware.Recovery(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, "route not found", response.CodeResourceNotFound, nil, "")
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, "method not allowed", response.CodeMethodNotAllowed, nil, "")
	})

	a := handlers.New(db, authSvc)
	requireAuth := middleware.RequireAuth(authSvc)

	r.GET("/", a.Root)
	r.GET("/health", a.Health)
	r.GET("/metrics", obs.Handler())

	api := r.Group("/api")
	api.Use(middleware.RateLimit(50, 100))
	{
		api.GET("/db-check", a.DBCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", a.Login)
		authGroup.POST("/register", a.CreateUser)

		users := api.Group("/users")
		users.GET("", a.ListUsers)
		users.GET("/:id", a.GetUser)
		users.POST("", a.CreateUser)
		users.PUT("/:id", requireAuth, a.UpdateUser)
		users.DELETE("/:id", requireAuth, a.DeleteUser)

		posts := api.Group("/posts")
		posts.GET("", a.ListPosts)
		posts.GET("/:id", a.GetPost)
		posts.GET("/:id/pdf", a.PostPDF)
		posts.POST("", requireAuth, a.CreatePost)
		posts.PUT("/:id", requireAuth, a.UpdatePost)
		posts.DELETE("/:id", requireAuth, a.DeletePost)
	}

	return r
}
