package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin"

	"blogapi/internal/auth"
	"blogapi/internal/domain"
	"blogapi/internal/http/middleware"
	"blogapi/internal/http/response"
	"blogapi/internal/utils"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type userPayload struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
}

func validateUserPayload(req userPayload, requirePassword bool) []response.FieldError {
	var errs []response.FieldError
	if req.Username == "" || len(req.Username) > 50 {
		errs = append(errs, response.FieldError{Field: "username", Message: "username is required and must be at most 50 characters"})
	}
	if req.Email == "" || len(req.Email) > 100 || !emailPattern.MatchString(req.Email) {
		errs = append(errs, response.FieldError{Field: "email", Message: "email must be a valid address of at most 100 characters"})
	}
	if requirePassword && (req.Password == "" || len(req.Password) > 255) {
		errs = append(errs, response.FieldError{Field: "password", Message: "password is required and must be at most 255 characters"})
	}
	return errs
}

// CreateUser registers a new account. Validation happens before any
// storage access.
func (a *API) CreateUser(c *gin.Context) {
	var req userPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "invalid payload", response.CodeValidationError, nil, "")
		return
	}

	if errs := validateUserPayload(req, true); len(errs) > 0 {
		response.Error(c, "validation failed, check the submitted fields", response.CodeValidationError, errs, "")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		response.Error(c, "failed to hash password", response.CodeInternalError, nil, err.Error())
		return
	}

	user, err := a.users.Create(c.Request.Context(), req.Username, req.Email, hash, req.AvatarURL, req.Bio)
	if err != nil {
		if domain.IsConflict(err) {
			response.Error(c, "username or email already exists", response.CodeDuplicateResource, nil, "")
			return
		}
		response.Error(c, "failed to create user", response.CodeDatabaseError, nil, err.Error())
		return
	}

	utils.LogEvent(response.RequestID(c), "users", "created", user.Username)
	response.Success(c, user, "user created", response.CodeCreated)
}

func (a *API) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := a.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			response.Error(c, "user not found", response.CodeResourceNotFound, nil, "")
			return
		}
		response.Error(c, "failed to query user", response.CodeDatabaseError, nil, err.Error())
		return
	}

	response.Success(c, user, "user retrieved", response.CodeSuccess)
}

func (a *API) ListUsers(c *gin.Context) {
	page, pageSize, errs := pageParams(c)
	if len(errs) > 0 {
		response.Error(c, "invalid query parameters", response.CodeParamError, errs, "")
		return
	}

	users, total, err := a.users.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, "failed to list users", response.CodeDatabaseError, nil, err.Error())
		return
	}

	response.Page(c, users, response.PageOf(page, pageSize, total), "users retrieved")
}

// UpdateUser lets an authenticated user edit their own profile only.
func (a *API) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !a.requireSelf(c, id) {
		return
	}

	var req userPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "invalid payload", response.CodeValidationError, nil, "")
		return
	}
	if errs := validateUserPayload(req, false); len(errs) > 0 {
		response.Error(c, "validation failed, check the submitted fields", response.CodeValidationError, errs, "")
		return
	}

	user, err := a.users.Update(c.Request.Context(), id, req.Username, req.Email, req.AvatarURL, req.Bio)
	if err != nil {
		switch {
		case domain.IsNotFound(err):
			response.Error(c, "user not found", response.CodeResourceNotFound, nil, "")
		case domain.IsConflict(err):
			response.Error(c, "username or email already exists", response.CodeDuplicateResource, nil, "")
		default:
			response.Error(c, "failed to update user", response.CodeDatabaseError, nil, err.Error())
		}
		return
	}

	response.Success(c, user, "user updated", response.CodeSuccess)
}

func (a *API) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !a.requireSelf(c, id) {
		return
	}

	if err := a.users.Delete(c.Request.Context(), id); err != nil {
		if domain.IsNotFound(err) {
			response.Error(c, "user not found", response.CodeResourceNotFound, nil, "")
			return
		}
		response.Error(c, "failed to delete user", response.CodeDatabaseError, nil, err.Error())
		return
	}

	utils.LogEvent(response.RequestID(c), "users", "deleted", c.Param("id"))
	response.Success(c, nil, "user deleted", response.CodeSuccess)
}

// requireSelf rejects requests targeting another user's account.
func (a *API) requireSelf(c *gin.Context, id int64) bool {
	identity, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, "authentication required", response.CodeUnauthorized, nil, "")
		c.Abort()
		return false
	}
	uid, err := identity.UserID()
	if err != nil || uid != id {
		response.Error(c, "cannot modify another user's account", response.CodeAccessDenied, nil, "")
		c.Abort()
		return false
	}
	return true
}
