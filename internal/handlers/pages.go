// internal/handlers/pages.go
package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// LoadTemplates installs the embedded page shells on r.
func LoadTemplates(r *gin.Engine) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))
}

type PageHandler struct {
	title string
}

func NewPageHandler(title string) *PageHandler {
	return &PageHandler{title: title}
}

// GET /
func (h *PageHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "/admin")
}

// GET /login
func (h *PageHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": h.title})
}

// GET /admin, GET /admin/*path
func (h *PageHandler) Admin(c *gin.Context) {
	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title":   h.title,
		"Section": strings.Trim(c.Param("path"), "/"),
	})
}
