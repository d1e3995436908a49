// Package source defines source text with line and column lookup used for error positions.
package source

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Source is an immutable named input text.
type Source struct {
	name       string
	content    string
	lineStarts []int
}

// New creates new source. name is used in error messages and may be empty.
func New(name, content string) *Source {
	s := &Source{name: name, content: content}
	s.lineStarts = make([]int, 1, strings.Count(content, "\n")+1)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() string {
	return s.content
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCol returns 1-based line and column (in runes) for byte offset pos.
// Offsets outside the content are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	lineIndex := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCountInString(s.content[lineStart:pos]) + 1
}

// Offset returns byte offset for 1-based line and column, the result is clamped to content size.
func (s *Source) Offset(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1]
	for ; col > 1 && res < l && s.content[res] != '\n'; col-- {
		_, size := utf8.DecodeRuneInString(s.content[res:])
		res += size
	}
	return res
}

// Pos returns position information for byte offset pos.
func (s *Source) Pos(pos int) Pos {
	line, col := s.LineCol(pos)
	if pos > len(s.content) {
		pos = len(s.content)
	}
	return Pos{s, pos, line, col}
}

// Pos is a position in a source, it implements playlang.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

func (p Pos) Offset() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}
