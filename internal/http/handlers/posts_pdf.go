package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"

	"blogapi/internal/domain"
	"blogapi/internal/http/response"
	"blogapi/internal/utils"
)

// PostPDF renders a post as a downloadable PDF document.
func (a *API) PostPDF(c *gin.Context) {
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

	pdfBytes, err := renderPostPDF(post)
	if err != nil {
		response.Error(c, "failed to render pdf", response.CodeInternalError, nil, err.Error())
		return
	}

	utils.LogEvent(response.RequestID(c), "posts", "pdf_rendered", post.Slug)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=post-%d.pdf", post.ID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func renderPostPDF(p domain.PostWithAuthor) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(p.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 10, p.Title, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 10)
	byline := fmt.Sprintf("%s <%s> - %s", p.AuthorName, p.AuthorEmail, p.CreatedAt.Format("2006-01-02"))
	pdf.CellFormat(0, 6, byline, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if p.Excerpt != nil && *p.Excerpt != "" {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.MultiCell(0, 6, *p.Excerpt, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, p.Content, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
