package pages

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

const scrollFPS = 60

var scrollerSeq atomic.Int64

type scrollFrameMsg struct {
	id  int64
	gen int
}

// Scroller is a table viewport that glides to revealed rows on a spring.
type Scroller struct {
	id     int64
	vp     viewport.Model
	spring harmonica.Spring

	pos, vel, target float64
	gen              int
	moving           bool
}

// NewScroller returns an empty scroller.
func NewScroller() *Scroller {
	return &Scroller{
		id:     scrollerSeq.Add(1),
		vp:     viewport.New(0, 0),
		spring: harmonica.NewSpring(harmonica.FPS(scrollFPS), 8.0, 1.0),
	}
}

// SetSize sets the visible area.
func (s *Scroller) SetSize(width, height int) {
	s.vp.Width = width
	s.vp.Height = max(height, 1)
}

// SetContent replaces the scrolled text, keeping the offset in range.
func (s *Scroller) SetContent(content string) {
	s.vp.SetContent(content)
	s.vp.SetYOffset(s.vp.YOffset)
}

// Offset returns the first visible line.
func (s *Scroller) Offset() int { return s.vp.YOffset }

// Height returns the number of visible lines.
func (s *Scroller) Height() int { return s.vp.Height }

// Moving reports whether a spring animation is running.
func (s *Scroller) Moving() bool { return s.moving }

// Scroll moves by delta lines immediately, cancelling any animation.
func (s *Scroller) Scroll(delta int) {
	s.stop()
	s.vp.SetYOffset(s.vp.YOffset + delta)
}

// Reset jumps back to the top.
func (s *Scroller) Reset() {
	s.stop()
	s.vp.GotoTop()
}

// Reveal starts a spring toward an offset that centers line, unless the
// line is already visible.
func (s *Scroller) Reveal(line int) tea.Cmd {
	if line < 0 || (line >= s.vp.YOffset && line < s.vp.YOffset+s.vp.Height) {
		return nil
	}
	maxOffset := max(s.vp.TotalLineCount()-s.vp.Height, 0)
	target := max(0, min(line-s.vp.Height/2, maxOffset))
	if !s.moving {
		s.pos = float64(s.vp.YOffset)
		s.vel = 0
	}
	s.target = float64(target)
	s.moving = true
	s.gen++
	return s.frame()
}

// Update advances the spring on this scroller's own frames.
func (s *Scroller) Update(msg tea.Msg) tea.Cmd {
	f, ok := msg.(scrollFrameMsg)
	if !ok || f.id != s.id || f.gen != s.gen || !s.moving {
		return nil
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.pos-s.target) < 0.5 && math.Abs(s.vel) < 0.5 {
		s.pos = s.target
		s.moving = false
	}
	s.vp.SetYOffset(int(math.Round(s.pos)))
	if !s.moving {
		return nil
	}
	return s.frame()
}

// View renders the visible lines.
func (s *Scroller) View() string { return s.vp.View() }

func (s *Scroller) frame() tea.Cmd {
	id, gen := s.id, s.gen
	return tea.Tick(time.Second/scrollFPS, func(time.Time) tea.Msg {
		return scrollFrameMsg{id: id, gen: gen}
	})
}

func (s *Scroller) stop() {
	s.moving = false
	s.gen++
}
