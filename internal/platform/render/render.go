// Package render renders the embedded HTML pages through gin.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/gin-gonic/gin"
	ginrender "github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"

	jwtmw "stock_trader/internal/platform/jwt"
	"stock_trader/internal/shared/apperror"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Templates is a gin HTMLRender holding one template set per page, each combined with the layout.
type Templates struct {
	pages map[string]*template.Template
}

var _ ginrender.HTMLRender = (*Templates)(nil)

// Funcs are the helpers available in every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"usd":    USD,
		"shares": Shares,
		"when":   func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05") },
	}
}

// Load parses every page in the embedded templates directory.
func Load() (*Templates, error) {
	return LoadFS(templateFS, "templates")
}

// LoadFS parses the pages found in dir of fsys.
func LoadFS(fsys fs.FS, dir string) (*Templates, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	t := &Templates{pages: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layoutFile || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmpl, err := template.New(layoutFile).Funcs(Funcs()).ParseFS(fsys, path.Join(dir, layoutFile), path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

// Instance implements gin's HTMLRender.
func (t *Templates) Instance(name string, data any) ginrender.Render {
	tmpl, ok := t.pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		return ginrender.String{Format: "template %s not found", Data: []any{name}}
	}
	return ginrender.HTML{Template: tmpl, Name: layoutFile, Data: data}
}

// Page renders a page with the login state added to data.
func Page(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	_, loggedIn := c.Get(jwtmw.ContextAccountID)
	data["LoggedIn"] = loggedIn
	c.HTML(status, name, data)
}

// Apology renders the error page with the status and message derived from err.
// Unclassified errors are logged and shown as a generic message.
func Apology(c *gin.Context, err error) {
	status := apperror.Status(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	} else {
		slog.Info("request rejected", "path", c.Request.URL.Path, "status", status, "error", err)
	}
	ApologyMessage(c, status, apperror.Message(err))
}

// ApologyMessage renders the error page with an explicit status and message.
func ApologyMessage(c *gin.Context, status int, message string) {
	Page(c, status, "apology.html", gin.H{"Code": status, "Message": message})
	c.Abort()
}

// USD formats an amount as US dollars, e.g. $1,234.56.
func USD(d decimal.Decimal) string {
	cents := d.Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// Shares formats a signed share count with an explicit sign.
func Shares(n int64) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
