// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func parser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
	})
	return markdownParser
}

// wrapBreakpoints are the characters ansi.Wrap may break after in
// addition to spaces.
const wrapBreakpoints = " ,.;-/"

// RenderMarkdown renders panel content (tab panels, slides, dialog
// bodies) as styled terminal text wrapped to width. Soft line breaks
// reflow; headings, lists, block quotes, and fenced code keep their
// structure. Fenced code with a language is highlighted by chroma in
// the theme's CodeStyle.
func RenderMarkdown(input string, width int, theme Theme) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	root := parser().Parser().Parse(text.NewReader(source))

	// Rendering always targets the program's terminal, so the color
	// profile is fixed rather than detected from the (possibly
	// non-TTY) environment.
	renderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)

	writer := &markdownWriter{
		source:   source,
		theme:    theme,
		width:    width,
		renderer: renderer,
	}
	_ = ast.Walk(root, writer.walk)
	return strings.TrimRight(writer.output.String(), "\n")
}

// markdownWriter accumulates inline content per block and wraps it
// when the block closes.
type markdownWriter struct {
	source   []byte
	theme    Theme
	width    int
	renderer *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	// indent is the prefix for continuation lines of nested blocks;
	// bullet, when set, replaces it for the next line only.
	indent string
	bullet string

	strong, emphasis, struck int
	lists                    []listFrame
}

type listFrame struct {
	ordered bool
	next    int
	tight   bool
	indent  string
}

func (writer *markdownWriter) style() lipgloss.Style {
	return writer.renderer.NewStyle()
}

func (writer *markdownWriter) available() int {
	width := writer.width - ansi.StringWidth(writer.indent)
	if width < 10 {
		width = 10
	}
	return width
}

func (writer *markdownWriter) blankLine() {
	current := writer.output.String()
	if current == "" || strings.HasSuffix(current, "\n\n") {
		return
	}
	if strings.HasSuffix(current, "\n") {
		writer.output.WriteString("\n")
		return
	}
	writer.output.WriteString("\n\n")
}

// emit writes a wrapped block, prefixing each line with the bullet or
// indent.
func (writer *markdownWriter) emit(content string) {
	for index, line := range strings.Split(content, "\n") {
		prefix := writer.indent
		if index == 0 && writer.bullet != "" {
			prefix = writer.bullet
			writer.bullet = ""
		}
		writer.output.WriteString(prefix + line + "\n")
	}
}

func (writer *markdownWriter) tightList() bool {
	return len(writer.lists) > 0 && writer.lists[len(writer.lists)-1].tight
}

func (writer *markdownWriter) textStyle() lipgloss.Style {
	style := writer.style().Foreground(writer.theme.NormalText)
	if writer.strong > 0 {
		style = style.Bold(true)
	}
	if writer.emphasis > 0 {
		style = style.Italic(true)
	}
	if writer.struck > 0 {
		style = style.Strikethrough(true)
	}
	return style
}

func (writer *markdownWriter) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			writer.inline.Reset()
			break
		}
		content := writer.inline.String()
		writer.inline.Reset()
		if content != "" {
			writer.emit(ansi.Wrap(content, writer.available(), wrapBreakpoints))
			if !writer.tightList() {
				writer.blankLine()
			}
		}

	case *ast.Heading:
		if entering {
			writer.inline.Reset()
			break
		}
		content := ansi.Strip(writer.inline.String())
		writer.inline.Reset()
		style := writer.style().Bold(true).Foreground(writer.theme.NormalText)
		if node.Level <= 2 {
			style = style.Foreground(writer.theme.HeaderForeground)
		}
		writer.blankLine()
		writer.emit(ansi.Wrap(style.Render(content), writer.available(), wrapBreakpoints))
		writer.blankLine()

	case *ast.FencedCodeBlock:
		if entering {
			writer.codeBlock(writer.lines(node.Lines()), string(node.Language(writer.source)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			writer.codeBlock(writer.lines(node.Lines()), "")
			return ast.WalkSkipChildren, nil
		}

	case *ast.Blockquote:
		if entering {
			writer.indent += "│ "
		} else {
			writer.indent = strings.TrimSuffix(writer.indent, "│ ")
			writer.blankLine()
		}

	case *ast.List:
		if entering {
			writer.lists = append(writer.lists, listFrame{
				ordered: node.IsOrdered(),
				next:    node.Start,
				tight:   node.IsTight,
				indent:  writer.indent,
			})
		} else {
			frame := writer.lists[len(writer.lists)-1]
			writer.lists = writer.lists[:len(writer.lists)-1]
			writer.indent = frame.indent
			if !writer.tightList() {
				writer.blankLine()
			}
		}

	case *ast.ListItem:
		frame := &writer.lists[len(writer.lists)-1]
		if entering {
			marker := "• "
			if frame.ordered {
				marker = fmt.Sprintf("%d. ", frame.next)
				frame.next++
			}
			writer.bullet = frame.indent + marker
			writer.indent = frame.indent + strings.Repeat(" ", ansi.StringWidth(marker))
		} else {
			writer.indent = frame.indent
		}

	case *ast.ThematicBreak:
		if entering {
			rule := writer.style().Foreground(writer.theme.BorderColor).Render(strings.Repeat("─", writer.available()))
			writer.blankLine()
			writer.emit(rule)
			writer.blankLine()
		}

	case *ast.HTMLBlock:
		// Raw HTML has no terminal rendering.
		return ast.WalkSkipChildren, nil

	case *ast.Text:
		if entering {
			writer.inline.WriteString(writer.textStyle().Render(string(node.Segment.Value(writer.source))))
			switch {
			case node.HardLineBreak():
				writer.inline.WriteString("\n")
			case node.SoftLineBreak():
				writer.inline.WriteString(" ")
			}
		}

	case *ast.String:
		if entering {
			writer.inline.WriteString(writer.textStyle().Render(string(node.Value)))
		}

	case *ast.Emphasis:
		delta := 1
		if !entering {
			delta = -1
		}
		if node.Level >= 2 {
			writer.strong += delta
		} else {
			writer.emphasis += delta
		}

	case *extast.Strikethrough:
		if entering {
			writer.struck++
		} else {
			writer.struck--
		}

	case *ast.CodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if segment, ok := child.(*ast.Text); ok {
					code.Write(segment.Segment.Value(writer.source))
				}
			}
			writer.inline.WriteString(writer.style().Foreground(writer.theme.Accent).Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if !entering {
			destination := string(node.Destination)
			if destination != "" {
				writer.inline.WriteString(" " + writer.style().Foreground(writer.theme.FaintText).Render("("+destination+")"))
			}
		}

	case *ast.AutoLink:
		if entering {
			url := string(node.URL(writer.source))
			writer.inline.WriteString(writer.style().Foreground(writer.theme.Accent).Underline(true).Render(url))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Image:
		if entering {
			var alt strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if segment, ok := child.(*ast.Text); ok {
					alt.Write(segment.Segment.Value(writer.source))
				}
			}
			writer.inline.WriteString(writer.style().Foreground(writer.theme.FaintText).Render("[image: " + alt.String() + "]"))
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML:
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (writer *markdownWriter) lines(segments *text.Segments) string {
	var code strings.Builder
	for index := 0; index < segments.Len(); index++ {
		segment := segments.At(index)
		code.Write(segment.Value(writer.source))
	}
	return code.String()
}

func (writer *markdownWriter) codeBlock(code, language string) {
	rendered := ""
	if language != "" {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, code, language, "terminal256", writer.theme.CodeStyle); err == nil {
			rendered = highlighted.String()
		}
	}
	if rendered == "" {
		rendered = writer.style().Foreground(writer.theme.FaintText).Render(strings.TrimRight(code, "\n"))
	}

	writer.blankLine()
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		writer.output.WriteString(writer.indent + "  " + line + "\n")
	}
	writer.blankLine()
}
