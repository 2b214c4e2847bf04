package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/clipstack"
	"github.com/gogpu/clipstack/glyph"
)

// ErrInvalidScript is wrapped by every script decoding or replay error.
var ErrInvalidScript = errors.New("cliptrace: invalid script")

// Script is a clip scenario read from TOML:
//
//	width = 64
//	height = 64
//
//	[[step]]
//	action = "rect"
//	rect = [8, 8, 48, 48]
//
//	[[step]]
//	action = "save"
//
//	[[step]]
//	action = "circle"
//	op = "difference"
//	aa = true
//	circle = [32, 32, 12]
type Script struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Steps  []Step `toml:"step"`
}

// Step is one stack operation.
type Step struct {
	Action  string      `toml:"action"`
	Op      string      `toml:"op"`
	AA      bool        `toml:"aa"`
	Inverse bool        `toml:"inverse"`
	EvenOdd bool        `toml:"evenodd"`
	Rect    []float64   `toml:"rect"`   // x, y, w, h
	Circle  []float64   `toml:"circle"` // cx, cy, r
	Points  [][]float64 `toml:"points"` // polygon for action "path"
	Text    string      `toml:"text"`
	Size    float64     `toml:"size"`
	At      []float64   `toml:"at"` // text baseline origin
}

const (
	defaultCanvas   = 256
	defaultTextSize = 32
)

// LoadScript reads a script from a TOML file.
func LoadScript(path string) (*Script, error) {
	var sc Script
	md, err := toml.DecodeFile(path, &sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	return finishDecode(&sc, md)
}

// DecodeScript reads a script from r.
func DecodeScript(r io.Reader) (*Script, error) {
	var sc Script
	md, err := toml.NewDecoder(r).Decode(&sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	return finishDecode(&sc, md)
}

func finishDecode(sc *Script, md toml.MetaData) (*Script, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidScript, strings.Join(keys, ", "))
	}
	if sc.Width == 0 {
		sc.Width = defaultCanvas
	}
	if sc.Height == 0 {
		sc.Height = defaultCanvas
	}
	if sc.Width < 0 || sc.Height < 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidScript, sc.Width, sc.Height)
	}
	return sc, nil
}

// player replays steps onto a stack and traces every state change.
type player struct {
	script *Script
	stack  *clipstack.Stack
	out    io.Writer
	faces  map[float64]*glyph.Face
}

// Replay runs every step of sc on a fresh stack, writing one trace line per
// step to out, plus one line per purged clip state. It returns the final
// stack.
func Replay(sc *Script, out io.Writer) (*clipstack.Stack, error) {
	p := &player{
		script: sc,
		stack:  clipstack.New(),
		out:    out,
		faces:  make(map[float64]*glyph.Face),
	}
	remove := p.stack.OnPurge(func(id clipstack.GenID) {
		fmt.Fprintf(out, "      purge gen=%d\n", id)
	})
	defer remove()

	for i, st := range sc.Steps {
		if err := p.step(st); err != nil {
			return nil, fmt.Errorf("%w: step %d (%s): %v", ErrInvalidScript, i+1, st.Action, err)
		}
		p.trace(i+1, st)
	}

	clipstack.Logger().Info("cliptrace: replayed",
		"steps", len(sc.Steps),
		"elements", p.stack.Len(),
		"gen_id", uint64(p.stack.TopmostGenID()))
	return p.stack, nil
}

func (p *player) step(st Step) error {
	s := p.stack
	switch strings.ToLower(st.Action) {
	case "save":
		s.Save()
		return nil
	case "restore":
		if s.SaveCount() == 0 {
			return errors.New("restore without save")
		}
		s.Restore()
		return nil
	case "reset":
		s.Reset()
		return nil
	case "empty":
		s.ClipEmpty()
		return nil
	}

	op := clipstack.OpIntersect
	if st.Op != "" {
		var err error
		if op, err = clipstack.ParseOp(st.Op); err != nil {
			return err
		}
	}

	var path *clipstack.Path
	switch strings.ToLower(st.Action) {
	case "rect":
		if len(st.Rect) != 4 {
			return errors.New("rect needs [x, y, w, h]")
		}
		r := clipstack.NewRect(st.Rect[0], st.Rect[1], st.Rect[2], st.Rect[3])
		if !st.Inverse {
			s.ClipDevRect(r, op, st.AA)
			return nil
		}
		path = clipstack.NewPath()
		path.Rectangle(st.Rect[0], st.Rect[1], st.Rect[2], st.Rect[3])
	case "circle":
		if len(st.Circle) != 3 {
			return errors.New("circle needs [cx, cy, r]")
		}
		path = clipstack.NewPath()
		path.Circle(st.Circle[0], st.Circle[1], st.Circle[2])
	case "path":
		if len(st.Points) < 3 {
			return errors.New("path needs at least 3 points")
		}
		path = clipstack.NewPath()
		for i, pt := range st.Points {
			if len(pt) != 2 {
				return fmt.Errorf("point %d needs [x, y]", i+1)
			}
			if i == 0 {
				path.MoveTo(pt[0], pt[1])
			} else {
				path.LineTo(pt[0], pt[1])
			}
		}
		path.Close()
	case "text":
		var err error
		if path, err = p.textPath(st); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}

	if st.EvenOdd {
		path.SetFillRule(clipstack.FillEvenOdd)
	}
	path.SetInverseFillType(st.Inverse)
	s.ClipDevPath(path, op, st.AA)
	return nil
}

func (p *player) textPath(st Step) (*clipstack.Path, error) {
	size := st.Size
	if size == 0 {
		size = defaultTextSize
	}
	x, y := 0.0, size
	if len(st.At) == 2 {
		x, y = st.At[0], st.At[1]
	}

	face, ok := p.faces[size]
	if !ok {
		var err error
		if face, err = glyph.DefaultFace(size); err != nil {
			return nil, err
		}
		p.faces[size] = face
	}
	return face.TextPath(st.Text, x, y)
}

func (p *player) trace(n int, st Step) {
	s := p.stack
	bound, boundType, rects := s.Bounds()
	dev, _ := s.ConservativeBounds(0, 0, p.script.Width, p.script.Height)

	action := st.Action
	if st.Op != "" {
		action += "/" + st.Op
	}
	fmt.Fprintf(p.out, "%3d %-18s save=%d elems=%d gen=%d bounds=%v %s",
		n, action, s.SaveCount(), s.Len(), s.TopmostGenID(), bound, boundType)
	if rects {
		fmt.Fprint(p.out, " rects")
	}
	fmt.Fprintf(p.out, " device=%v\n", dev)
}
