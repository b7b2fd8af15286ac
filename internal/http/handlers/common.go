package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"blogapi/internal/http/response"
)

// idParam parses the :id path segment. On failure it writes the param-error
// envelope and reports false.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, "invalid id parameter", response.CodeParamError,
			[]response.FieldError{{Field: "id", Message: "id must be a positive integer"}}, "")
		return 0, false
	}
	return id, true
}

// pageParams reads page/pageSize query values with the usual defaults.
func pageParams(c *gin.Context) (page, pageSize int, errs []response.FieldError) {
	page, pageSize = 1, 10
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			errs = append(errs, response.FieldError{Field: "page", Message: "page must be a positive integer"})
		} else {
			page = v
		}
	}
	if raw := c.Query("pageSize"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 100 {
			errs = append(errs, response.FieldError{Field: "pageSize", Message: "pageSize must be between 1 and 100"})
		} else {
			pageSize = v
		}
	}
	return page, pageSize, errs
}
