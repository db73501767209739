package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome         = "home.html"
	pageProducts     = "products.html"
	pageProduct      = "product.html"
	pageMessage      = "message.html"
	pageCart         = "cart.html"
	pageCheckout     = "checkout.html"
	pageConfirmation = "confirmation.html"
)

var pageNames = []string{
	pageHome,
	pageProducts,
	pageProduct,
	pageMessage,
	pageCart,
	pageCheckout,
	pageConfirmation,
}

var templateFuncs = template.FuncMap{
	"add":   func(a, b int) int { return a + b },
	"sub":   func(a, b int) int { return a - b },
	"stars": stars,
}

// layoutData is embedded by every page so the header can show the item count.
type layoutData struct {
	ItemCount int
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	return newRendererFS(templateFS)
}

func newRendererFS(fsys fs.FS) (*renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))

	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(fsys,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("template.ParseFS[%s]: %w", name, err)
		}
		pages[name] = t
	}

	return &renderer{pages: pages}, nil
}

func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	t, ok := rd.pages[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	templ.Handler(templ.FromGoHTML(t, data), templ.WithStatus(status)).ServeHTTP(w, r)
}

func stars(rate float64) string {
	full := int(math.Round(rate))
	full = max(0, min(5, full))
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}
