package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"blogapi/internal/domain"
	"blogapi/internal/http/middleware"
	"blogapi/internal/http/response"
	"blogapi/internal/repositories"
	"blogapi/internal/utils"
)

type postPayload struct {
	Title   string  `json:"title"`
	Slug    string  `json:"slug"`
	Content string  `json:"content"`
	Excerpt *string `json:"excerpt"`
	Status  string  `json:"status"`
}

func validatePostPayload(req postPayload) []response.FieldError {
	var errs []response.FieldError
	if req.Title == "" || len(req.Title) > 200 {
		errs = append(errs, response.FieldError{Field: "title", Message: "title is required and must be at most 200 characters"})
	}
	if req.Content == "" {
		errs = append(errs, response.FieldError{Field: "content", Message: "content is required"})
	}
	if req.Status != "" && !domain.ValidPostStatus(req.Status) {
		errs = append(errs, response.FieldError{Field: "status", Message: "status must be draft, published or archived"})
	}
	return errs
}

// ListPosts supports page/pageSize plus optional status and inclusive
// startDate/endDate (YYYY-MM-DD) filters.
func (a *API) ListPosts(c *gin.Context) {
	page, pageSize, errs := pageParams(c)

	status := c.Query("status")
	if status != "" && !domain.ValidPostStatus(status) {
		errs = append(errs, response.FieldError{Field: "status", Message: "status must be draft, published or archived"})
	}
	startDate := c.Query("startDate")
	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			errs = append(errs, response.FieldError{Field: "startDate", Message: "startDate must be formatted YYYY-MM-DD"})
		}
	}
	endDate := c.Query("endDate")
	if endDate != "" {
		if _, err := time.Parse("2006-01-02", endDate); err != nil {
			errs = append(errs, response.FieldError{Field: "endDate", Message: "endDate must be formatted YYYY-MM-DD"})
		}
	}
	if len(errs) > 0 {
		response.Error(c, "invalid query parameters", response.CodeValidationError, errs, "")
		return
	}

	posts, total, err := a.posts.List(c.Request.Context(), repositories.PostFilter{
		Page:      page,
		PageSize:  pageSize,
		Status:    status,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		response.Error(c, "failed to list posts", response.CodeDatabaseError, nil, err.Error())
		return
	}

	response.Page(c, posts, response.PageOf(page, pageSize, total), "posts retrieved")
}

func (a *API) GetPost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	post, err := a.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			response.Error(c, "post not found", response.CodeResourceNotFound, nil, "")
			return
		}
		response.Error(c, "failed to query post", response.CodeDatabaseError, nil, err.Error())
		return
	}

	response.Success(c, post, "post retrieved", response.CodeSuccess)
}

func (a *API) CreatePost(c *gin.Context) {
	authorID, ok := a.authorID(c)
	if !ok {
		return
	}

	var req postPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "invalid payload", response.CodeValidationError, nil, "")
		return
	}
	if errs := validatePostPayload(req); len(errs) > 0 {
		response.Error(c, "validation failed, check the submitted fields", response.CodeValidationError, errs, "")
		return
	}

	post := domain.Post{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		AuthorID: authorID,
		Status:   req.Status,
	}
	if post.Slug == "" {
		post.Slug = utils.Slugify(post.Title)
	}
	if post.Status == "" {
		post.Status = domain.PostStatusDraft
	}
	if post.Status == domain.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	created, err := a.posts.Create(c.Request.Context(), post)
	if err != nil {
		if domain.IsConflict(err) {
			response.Error(c, "a post with this slug already exists", response.CodeDuplicateResource, nil, "")
			return
		}
		response.Error(c, "failed to create post", response.CodeDatabaseError, nil, err.Error())
		return
	}

	utils.LogEvent(response.RequestID(c), "posts", "created", created.Slug)
	response.Success(c, created, "post created", response.CodeCreated)
}

// UpdatePost rewrites a post the caller owns. Fields omitted from the
// payload keep their stored values.
func (a *API) UpdatePost(c *gin.Context) {
	authorID, ok := a.authorID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	existing, err := a.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			response.Error(c, "post not found", response.CodeResourceNotFound, nil, "")
			return
		}
		response.Error(c, "failed to query post", response.CodeDatabaseError, nil, err.Error())
		return
	}
	if existing.AuthorID != authorID {
		response.Error(c, "cannot modify another user's post", response.CodeAccessDenied, nil, "")
		return
	}

	var req postPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "invalid payload", response.CodeValidationError, nil, "")
		return
	}
	if req.Status != "" && !domain.ValidPostStatus(req.Status) {
		response.Error(c, "validation failed, check the submitted fields", response.CodeValidationError,
			[]response.FieldError{{Field: "status", Message: "status must be draft, published or archived"}}, "")
		return
	}

	next := existing.Post
	if req.Title != "" {
		next.Title = req.Title
	}
	if req.Slug != "" {
		next.Slug = req.Slug
	}
	if req.Content != "" {
		next.Content = req.Content
	}
	if req.Excerpt != nil {
		next.Excerpt = req.Excerpt
	}
	if req.Status != "" {
		if req.Status == domain.PostStatusPublished && next.Status != domain.PostStatusPublished {
			now := time.Now()
			next.PublishedAt = &now
		}
		next.Status = req.Status
	}

	updated, err := a.posts.Update(c.Request.Context(), id, authorID, next)
	if err != nil {
		switch {
		case domain.IsNotFound(err):
			response.Error(c, "post not found", response.CodeResourceNotFound, nil, "")
		case domain.IsConflict(err):
			response.Error(c, "a post with this slug already exists", response.CodeDuplicateResource, nil, "")
		default:
			response.Error(c, "failed to update post", response.CodeDatabaseError, nil, err.Error())
		}
		return
	}

	response.Success(c, updated, "post updated", response.CodeSuccess)
}

func (a *API) DeletePost(c *gin.Context) {
	authorID, ok := a.authorID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := a.posts.Delete(c.Request.Context(), id, authorID); err != nil {
		if domain.IsNotFound(err) {
			response.Error(c, "post not found", response.CodeResourceNotFound, nil, "")
			return
		}
		response.Error(c, "failed to delete post", response.CodeDatabaseError, nil, err.Error())
		return
	}

	utils.LogEvent(response.RequestID(c), "posts", "deleted", c.Param("id"))
	response.Success(c, nil, "post deleted", response.CodeSuccess)
}

// authorID resolves the numeric id of the authenticated user.
func (a *API) authorID(c *gin.Context) (int64, bool) {
	identity, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, "authentication required", response.CodeUnauthorized, nil, "")
		c.Abort()
		return 0, false
	}
	id, err := identity.UserID()
	if err != nil {
		response.Error(c, "invalid token identity", response.CodeTokenInvalid, nil, "")
		c.Abort()
		return 0, false
	}
	return id, true
}
