// Package handlers contains the route handlers. All collaborators arrive
// through the API struct at startup; handlers never reach for globals.
package handlers

import (
	"database/sql"

	"blogapi/internal/auth"
	"blogapi/internal/repositories"
)

type API struct {
	db    *sql.DB
	users *repositories.UserRepository
	posts *repositories.PostRepository
	auth  *auth.Service
}

func New(db *sql.DB, authSvc *auth.Service) *API {
	return &API{
		db:    db,
		users: repositories.NewUserRepository(db),
		posts: repositories.NewPostRepository(db),
		auth:  authSvc,
	}
}
