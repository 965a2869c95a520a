package api

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed methodology.md
var methodologySource []byte

// handleMethodology serves the scoring methodology as rendered HTML, the
// content behind the product's "how scores work" modal.
func (s *Server) handleMethodology(c *gin.Context) {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML(methodologySource, p, renderer)

	c.Data(http.StatusOK, "text/html; charset=utf-8", rendered)
}
