package application

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MarkdownDocument is the result of rendering an imported Markdown post.
type MarkdownDocument struct {
	// Title is the text of a leading "# " heading, or empty when there is none.
	Title string
	// HTML is the rendered body. A leading title heading is not included.
	HTML string
	// Images lists the rewritten image URLs in document order.
	Images []string
}

type imageLinkTransformer struct {
	baseURL string
}

// Transform points relative image destinations at the public images path and
// records every image URL it sees.
func (t *imageLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	var images []string

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}

		dest := string(img.Destination)
		if isRelativeLink(dest) && dest != "" {
			dest = t.baseURL + "/images/" + path.Base(dest)
			img.Destination = []byte(dest)
		}
		images = append(images, dest)

		return ast.WalkContinue, nil
	})

	pc.Set(imagesKey, images)
}

var imagesKey = parser.NewContextKey()

func isRelativeLink(dest string) bool {
	if strings.HasPrefix(dest, "/") {
		return !strings.HasPrefix(dest, "//")
	}

	if strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../") {
		return true
	}

	return !strings.Contains(dest, ":")
}

// MarkdownRenderer converts imported Markdown into post content.
type MarkdownRenderer interface {
	Render(markdown []byte) (*MarkdownDocument, error)
}

type MarkdownRendererImpl struct {
	renderer goldmark.Markdown
}

// NewMarkdownRenderer returns a GFM renderer that rewrites relative image
// links to <publicURL>/images/<file>. An empty publicURL yields root-relative
// "/images/..." links.
func NewMarkdownRenderer(publicURL string) MarkdownRenderer {
	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&imageLinkTransformer{baseURL: strings.TrimSuffix(publicURL, "/")}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)

	return &MarkdownRendererImpl{
		renderer: renderer,
	}
}

func (r *MarkdownRendererImpl) Render(markdown []byte) (*MarkdownDocument, error) {
	title, body := splitTitle(markdown)

	pc := parser.NewContext()
	var buf bytes.Buffer
	if err := r.renderer.Convert(body, &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	images, _ := pc.Get(imagesKey).([]string)
	if images == nil {
		images = []string{}
	}

	return &MarkdownDocument{
		Title:  title,
		HTML:   buf.String(),
		Images: images,
	}, nil
}

// splitTitle cuts a leading "# " heading off the document. Blank lines before
// the heading are skipped.
func splitTitle(markdown []byte) (string, []byte) {
	rest := bytes.TrimLeft(markdown, " \t\r\n")
	firstLine, remainder, _ := bytes.Cut(rest, []byte("\n"))

	title, found := strings.CutPrefix(strings.TrimSpace(string(firstLine)), "# ")
	if !found {
		return "", markdown
	}

	return strings.TrimSpace(title), remainder
}
