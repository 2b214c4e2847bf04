package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/gogpu/clipstack"
)

const sampleScript = `
width = 32
height = 24

[[step]]
action = "rect"
rect = [2, 2, 20, 20]

[[step]]
action = "save"

[[step]]
action = "circle"
op = "difference"
aa = true
circle = [12, 12, 4]

[[step]]
action = "restore"
`

func decode(t *testing.T, src string) *Script {
	t.Helper()
	sc, err := DecodeScript(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeScript() error = %v", err)
	}
	return sc
}

func TestDecodeScript(t *testing.T) {
	sc := decode(t, sampleScript)
	if sc.Width != 32 || sc.Height != 24 {
		t.Errorf("canvas = %dx%d, want 32x24", sc.Width, sc.Height)
	}
	if len(sc.Steps) != 4 {
		t.Fatalf("len(Steps) = %d, want 4", len(sc.Steps))
	}
	if st := sc.Steps[2]; st.Action != "circle" || st.Op != "difference" || !st.AA || len(st.Circle) != 3 {
		t.Errorf("Steps[2] = %+v", st)
	}

	sc = decode(t, "")
	if sc.Width != defaultCanvas || sc.Height != defaultCanvas {
		t.Errorf("default canvas = %dx%d, want %d", sc.Width, sc.Height, defaultCanvas)
	}
}

func TestDecodeScript_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "width = "},
		{"unknown key", "colour = 3"},
		{"unknown step key", "[[step]]\naction = \"save\"\nfoo = 1"},
		{"negative canvas", "width = -4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeScript(strings.NewReader(tt.src)); !errors.Is(err, ErrInvalidScript) {
				t.Errorf("DecodeScript() error = %v, want ErrInvalidScript", err)
			}
		})
	}
}

func TestReplay_Trace(t *testing.T) {
	var out bytes.Buffer
	s, err := Replay(decode(t, sampleScript), &out)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// Four steps plus one purge when the circle scope is restored.
	if len(lines) != 5 {
		t.Fatalf("trace has %d lines, want 5:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "rect") || !strings.Contains(lines[0], "elems=1") ||
		!strings.Contains(lines[0], "(2, 2, 22, 22) Normal rects") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(lines[2], "circle/difference") || !strings.Contains(lines[2], "save=1 elems=2") {
		t.Errorf("line 3 = %q", lines[2])
	}
	if !strings.Contains(lines[3], "purge gen=") {
		t.Errorf("line 4 = %q, want a purge notification", lines[3])
	}
	if s.Len() != 1 || s.SaveCount() != 0 {
		t.Errorf("final stack: Len = %d, SaveCount = %d; want 1, 0", s.Len(), s.SaveCount())
	}
}

func TestReplay_Actions(t *testing.T) {
	src := `
[[step]]
action = "path"
evenodd = true
inverse = true
points = [[0, 0], [10, 0], [0, 10]]

[[step]]
action = "rect"
op = "union"
inverse = true
rect = [0, 0, 4, 4]

[[step]]
action = "text"
text = "Hi"
size = 16
at = [2, 20]
op = "xor"

[[step]]
action = "empty"
`
	s, err := Replay(decode(t, src), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if s.TopmostGenID() != clipstack.EmptyGenID {
		t.Errorf("TopmostGenID() = %d, want EmptyGenID", s.TopmostGenID())
	}

	s, err = Replay(decode(t, src+"\n[[step]]\naction = \"reset\"\n"), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsWideOpen() || s.Len() != 0 {
		t.Error("reset did not clear the stack")
	}
}

func TestReplay_Errors(t *testing.T) {
	tests := []struct {
		name string
		step string
	}{
		{"unknown action", `action = "rotate"`},
		{"bad op", "action = \"rect\"\nop = \"blend\"\nrect = [0, 0, 1, 1]"},
		{"short rect", "action = \"rect\"\nrect = [0, 0, 1]"},
		{"short circle", "action = \"circle\"\ncircle = [0, 0]"},
		{"short path", "action = \"path\"\npoints = [[0, 0], [1, 1]]"},
		{"bad point", "action = \"path\"\npoints = [[0, 0], [1, 1], [2]]"},
		{"restore at depth 0", `action = "restore"`},
		{"blank text", "action = \"text\"\ntext = \"  \""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := decode(t, "[[step]]\n"+tt.step)
			if _, err := Replay(sc, &bytes.Buffer{}); !errors.Is(err, ErrInvalidScript) {
				t.Errorf("Replay() error = %v, want ErrInvalidScript", err)
			}
		})
	}
}

func TestRun_WritesMask(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "clip.toml")
	if err := os.WriteFile(script, []byte(sampleScript), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "mask.png")

	var trace bytes.Buffer
	if err := run(script, options{maskOut: out, scale: 2}, &trace); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("reading mask: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("mask size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}
	// (5,5) in script space is inside the rect; (28,20) is outside.
	if _, _, _, a := img.At(10, 10).RGBA(); a == 0 {
		t.Error("pixel inside the clip is transparent")
	}
	r, _, _, _ := img.At(56, 40).RGBA()
	if r != 0 {
		t.Errorf("pixel outside the clip = %d, want 0", r)
	}
}

func TestLoadScript_Missing(t *testing.T) {
	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, ErrInvalidScript) {
		t.Errorf("LoadScript() error = %v, want ErrInvalidScript", err)
	}
}

func TestLoadScript_Demo(t *testing.T) {
	sc, err := LoadScript(filepath.Join("testdata", "demo.toml"))
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	var out bytes.Buffer
	s, err := Replay(sc, &out)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if s.SaveCount() != 1 || s.Len() != 3 {
		t.Errorf("final stack: SaveCount = %d, Len = %d; want 1, 3", s.SaveCount(), s.Len())
	}
	// The difference buries the text state; the restore pops the union.
	if n := strings.Count(out.String(), "purge gen="); n != 2 {
		t.Errorf("trace has %d purge lines, want 2", n)
	}
}
