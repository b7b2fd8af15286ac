package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"blogapi/internal/auth"
	"blogapi/internal/domain"
	"blogapi/internal/http/response"
	"blogapi/internal/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials against the stored argon2id hash and issues the
// identity token. Wrong login and wrong password answer identically.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "invalid payload", response.CodeValidationError, nil, "")
		return
	}

	login := strings.TrimSpace(req.Email)
	if login == "" || req.Password == "" {
		response.Error(c, "email and password are required", response.CodeValidationError,
			[]response.FieldError{
				{Field: "email", Message: "email is required"},
				{Field: "password", Message: "password is required"},
			}, "")
		return
	}

	user, err := a.users.GetByLogin(c.Request.Context(), login)
	if err != nil {
		if domain.IsNotFound(err) {
			response.Error(c, "invalid email or password", response.CodeUnauthorized, nil, "")
			return
		}
		response.Error(c, "failed to query user", response.CodeDatabaseError, nil, err.Error())
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		utils.LogEvent(response.RequestID(c), "auth", "login_rejected", "password mismatch")
		response.Error(c, "invalid email or password", response.CodeUnauthorized, nil, "")
		return
	}

	token, err := a.auth.GenerateUserToken(strconv.FormatInt(user.ID, 10), user.Username, user.Email)
	if err != nil {
		response.Error(c, "failed to issue token", response.CodeInternalError, nil, err.Error())
		return
	}

	// Best effort; a failed stamp must not fail the login.
	_ = a.users.TouchLastLogin(c.Request.Context(), user.ID)

	response.Success(c, gin.H{"token": token, "user": user}, "login successful", response.CodeSuccess)
}
