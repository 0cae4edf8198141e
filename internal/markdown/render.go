// Package markdown renders the restricted Markdown dialect found in model
// responses into HTML.
//
// Rendering is a fixed sequence of regex replacements. Each stage sees the
// output of the previous one, so the order below is part of the observable
// behavior: emphasis runs before code extraction, headings before list items,
// and so on. Nested or overlapping markers are not parsed, they fall out of
// whatever the ordered passes produce.
package markdown

import (
	"regexp"
	"strings"
)

// Stage is a single named text transform in the rendering pipeline.
type Stage struct {
	Name  string
	Apply func(string) string
}

// lineChar matches any character except a line terminator (\n, \r, U+2028,
// U+2029). lineStart matches the start of a line after any of those; its
// capture holds the terminator and is written back by the replacement.
const (
	lineChar  = `[^\n\r\x{2028}\x{2029}]`
	lineStart = `(?m)(^|[\r\x{2028}\x{2029}])`
)

var (
	boldStarRe      = regexp.MustCompile(`\*\*(` + lineChar + `+?)\*\*`)
	boldUnderRe     = regexp.MustCompile(`__(` + lineChar + `+?)__`)
	italicStarRe    = regexp.MustCompile(`\*(` + lineChar + `+?)\*`)
	italicUnderRe   = regexp.MustCompile(`_(` + lineChar + `+?)_`)
	fencedCodeRe    = regexp.MustCompile("```([^`]+)```")
	inlineCodeRe    = regexp.MustCompile("`([^`]+)`")
	heading3Re      = regexp.MustCompile(lineStart + `### (` + lineChar + `+)`)
	heading2Re      = regexp.MustCompile(lineStart + `## (` + lineChar + `+)`)
	heading1Re      = regexp.MustCompile(lineStart + `# (` + lineChar + `+)`)
	starItemRe      = regexp.MustCompile(lineStart + `\* (` + lineChar + `+)`)
	dashItemRe      = regexp.MustCompile(lineStart + `- (` + lineChar + `+)`)
	numberedItemRe  = regexp.MustCompile(lineStart + `(\d+)\. (` + lineChar + `+)`)
	listRunRe       = regexp.MustCompile(`(<li>` + lineChar + `*</li>\n?)+`)
	doubleNewlineRe = regexp.MustCompile(`\n\n`)
	singleNewlineRe = regexp.MustCompile(`\n`)
)

var pipeline = []Stage{
	{Name: "escape", Apply: EscapeHTML},
	{Name: "bold", Apply: Bold},
	{Name: "italic", Apply: Italic},
	{Name: "fenced_code", Apply: FencedCode},
	{Name: "inline_code", Apply: InlineCode},
	{Name: "headings", Apply: Headings},
	{Name: "list_items", Apply: ListItems},
	{Name: "list_wrap", Apply: WrapLists},
	{Name: "line_breaks", Apply: LineBreaks},
}

// Stages returns the rendering pipeline in execution order.
func Stages() []Stage {
	out := make([]Stage, len(pipeline))
	copy(out, pipeline)
	return out
}

// Render converts text to HTML by running every stage in order.
func Render(text string) string {
	html := text
	for _, stage := range pipeline {
		html = stage.Apply(html)
	}
	return html
}

// EscapeHTML escapes &, < and >. The ampersand goes first so the entities
// produced for < and > are left alone.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// Bold handles **x** and then __x__.
func Bold(s string) string {
	s = boldStarRe.ReplaceAllString(s, "<strong>${1}</strong>")
	return boldUnderRe.ReplaceAllString(s, "<strong>${1}</strong>")
}

// Italic handles *x* and then _x_. Single markers left over by Bold are
// consumed here too.
func Italic(s string) string {
	s = italicStarRe.ReplaceAllString(s, "<em>${1}</em>")
	return italicUnderRe.ReplaceAllString(s, "<em>${1}</em>")
}

// FencedCode wraps triple-backtick spans in a pre/code block. The interior is
// not protected from the emphasis stages that already ran.
func FencedCode(s string) string {
	return fencedCodeRe.ReplaceAllString(s, "<pre><code>${1}</code></pre>")
}

func InlineCode(s string) string {
	return inlineCodeRe.ReplaceAllString(s, "<code>${1}</code>")
}

// Headings converts ATX headings, most specific prefix first.
func Headings(s string) string {
	s = heading3Re.ReplaceAllString(s, "${1}<h3>${2}</h3>")
	s = heading2Re.ReplaceAllString(s, "${1}<h2>${2}</h2>")
	return heading1Re.ReplaceAllString(s, "${1}<h1>${2}</h1>")
}

// ListItems turns bulleted and numbered lines into <li> elements. The
// number of an ordered item is dropped.
func ListItems(s string) string {
	s = starItemRe.ReplaceAllString(s, "${1}<li>${2}</li>")
	s = dashItemRe.ReplaceAllString(s, "${1}<li>${2}</li>")
	return numberedItemRe.ReplaceAllString(s, "${1}<li>${3}</li>")
}

// WrapLists wraps each run of adjacent <li> elements in one <ul>.
func WrapLists(s string) string {
	return listRunRe.ReplaceAllString(s, "<ul>${0}</ul>")
}

func LineBreaks(s string) string {
	s = doubleNewlineRe.ReplaceAllString(s, "<br><br>")
	return singleNewlineRe.ReplaceAllString(s, "<br>")
}
