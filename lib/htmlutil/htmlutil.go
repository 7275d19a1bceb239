package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("toolbox.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, buffer)
	}
}

// GetTextWithBreaks is GetText but <br> elements become newlines.
func GetTextWithBreaks(node *html.Node) string {
	var buffer bytes.Buffer
	getTextWithBreaks(node, &buffer)
	return buffer.String()
}

func getTextWithBreaks(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	switch {
	case node.Type == html.TextNode:
		buffer.WriteString(node.Data)
		return
	case node.Type == html.ElementNode && node.Data == "br":
		buffer.WriteByte('\n')
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextWithBreaks(child, buffer)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)
var lineWhitespace = regexp.MustCompile(`[ \t\r\f\v]+`)
var lineIndent = regexp.MustCompile(`\n\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText strips non-printable characters, trims the ends and collapses
// runs of whitespace into a single space.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// SelectionText is CleanText over the text of a goquery selection.
func SelectionText(sel *goquery.Selection) string {
	return CleanText(sel.Text())
}

// CleanLines is CleanText but newlines are kept, blank lines and
// indentation are dropped.
func CleanLines(s string) string {
	s = removeNonPrintable(s)
	s = lineWhitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return lineIndent.ReplaceAllString(s, "\n")
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors returns the text and href of every node in `sel`, relative
// hrefs are resolved against `base` when it is non-nil.
func GetAnchors(ctx context.Context, sel *goquery.Selection, base *url.URL) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}
		if href == "" {
			continue
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		name := CleanText(GetText(n))
		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}

var jsonEscapes = strings.NewReplacer(
	`\/`, `/`,
	`\u0026`, `&`,
	`\u003d`, `=`,
	`\u003D`, `=`,
	`&amp;`, `&`,
)

// UnescapeJSONURL reverts the escaping applied to urls embedded in
// inline json or html attributes.
func UnescapeJSONURL(s string) string {
	return jsonEscapes.Replace(s)
}
