package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError describes where a pattern failed to parse.
type SyntaxError struct {
	Msg    string
	Line   int // 1-based
	Column int // 1-based
	Frame  string
}

var _ error = (*SyntaxError)(nil)

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d column %d.\n%s", e.Msg, e.Line, e.Column, e.Frame)
}

func newSyntaxError(input string, offset int, msg string) *SyntaxError {
	line, col := location(input, offset)
	return &SyntaxError{
		Msg:    msg,
		Line:   line,
		Column: col,
		Frame:  codeFrame(input, line, col),
	}
}

// location converts a byte offset into a 1-based line and column.
func location(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - (strings.LastIndexByte(before, '\n') + 1) + 1
	return line, col
}

// codeFrame renders up to three lines of context around line, with a caret
// under col.
func codeFrame(text string, line, col int) string {
	lines := strings.Split(text, "\n")
	width := len(strconv.Itoa(len(lines))) + 1

	var b strings.Builder
	for i, src := range lines {
		n := i + 1
		if n < line-3 || n > line+3 {
			continue
		}
		marker := ' '
		if n == line {
			marker = '>'
		}
		fmt.Fprintf(&b, "%c%*d | %s\n", marker, width, n, expandTabs(src))
		if n == line {
			prefix := src
			if col-1 < len(src) {
				prefix = src[:col-1]
			}
			fmt.Fprintf(&b, "%s | %s^\n", strings.Repeat(" ", width+1), strings.Repeat(" ", len(expandTabs(prefix))))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// expandTabs replaces tabs with spaces up to the next multiple of four.
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := 4 - col%4
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
