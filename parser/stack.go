package parser

import "github.com/ava12/playlang/source"

type frame struct {
	state int
	value any
	pos   source.Pos
}

type frameStack struct {
	frames []frame
}

func newFrameStack() *frameStack {
	return &frameStack{frames: []frame{{}}}
}

func (s *frameStack) Len() int {
	return len(s.frames)
}

func (s *frameStack) Push(f frame) {
	s.frames = append(s.frames, f)
}

func (s *frameStack) Top() *frame {
	return &s.frames[len(s.frames)-1]
}

// Pop removes n topmost frames and returns their values and the position of the first removed frame.
// pos is the position of the first removed frame or def if n is 0.
func (s *frameStack) Pop(n int, def source.Pos) (values []any, pos source.Pos) {
	l := len(s.frames) - n
	values = make([]any, n)
	for i, f := range s.frames[l:] {
		values[i] = f.value
	}
	pos = def
	if n > 0 {
		pos = s.frames[l].pos
	}
	s.frames = s.frames[:l]
	return
}

// States returns parser states from bottom to top.
func (s *frameStack) States() []int {
	result := make([]int, len(s.frames))
	for i, f := range s.frames {
		result[i] = f.state
	}
	return result
}
