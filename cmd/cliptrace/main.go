// Command cliptrace replays a clip script and traces the stack state.
//
// Usage:
//
//	cliptrace [flags] script.toml
//
// Every step prints the save count, element count, topmost generation ID,
// the finite bound with its type and the conservative device bounds.
// Purged clip states are printed as they happen.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/disintegration/imaging"
	"golang.org/x/term"

	"github.com/gogpu/clipstack"
	"github.com/gogpu/clipstack/mask"
)

// pipeName selects stdout as the mask destination.
const pipeName = "-"

type options struct {
	maskOut string
	scale   int
	src     string
	watch   bool
	verbose bool
}

func main() {
	var opts options
	flag.StringVar(&opts.maskOut, "mask", "", "write the final clip mask as PNG (`-` for stdout)")
	flag.IntVar(&opts.scale, "scale", 1, "nearest-neighbour upscale factor for -mask")
	flag.StringVar(&opts.src, "src", "", "image to clip with the mask instead of writing the bare mask")
	flag.BoolVar(&opts.watch, "watch", false, "re-run when the script changes")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cliptrace [flags] script.toml\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	clipstack.SetLogger(log)

	path := flag.Arg(0)
	if err := run(path, opts, traceOutput(opts)); err != nil {
		log.Error("cliptrace failed", "error", err)
		if !opts.watch {
			os.Exit(1)
		}
	}
	if !opts.watch {
		return
	}

	if err := watch(path, opts, log); err != nil {
		log.Error("watch failed", "error", err)
		os.Exit(1)
	}
}

// watch re-runs the script on every change until interrupted.
func watch(path string, opts options, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := newScriptWatcher(path, 0,
		func() error {
			out := traceOutput(opts)
			fmt.Fprintf(out, "--- %s changed\n", path)
			return run(path, opts, out)
		},
		func(err error) { log.Error("cliptrace failed", "error", err) },
	)
	if err != nil {
		return err
	}
	w.Start()
	log.Info("watching", "script", path)

	<-ctx.Done()
	w.Stop()
	return nil
}

// traceOutput keeps the trace off stdout when the mask is piped there.
func traceOutput(opts options) io.Writer {
	if opts.maskOut == pipeName {
		return os.Stderr
	}
	return os.Stdout
}

// run replays the script once and writes the mask if requested.
func run(path string, opts options, out io.Writer) error {
	sc, err := LoadScript(path)
	if err != nil {
		return err
	}
	s, err := Replay(sc, out)
	if err != nil {
		return err
	}
	if opts.maskOut == "" {
		return nil
	}

	img, err := maskImage(s, sc, opts)
	if err != nil {
		return err
	}
	return writePNG(img, opts.maskOut)
}

// maskImage renders the clip of s over the script canvas, optionally
// clipping a source picture, and upscales it.
func maskImage(s *clipstack.Stack, sc *Script, opts options) (image.Image, error) {
	m, err := mask.Render(s, image.Rect(0, 0, sc.Width, sc.Height))
	if err != nil {
		return nil, err
	}

	var img image.Image = m
	if opts.src != "" {
		src, err := imaging.Open(opts.src)
		if err != nil {
			return nil, fmt.Errorf("open source image: %w", err)
		}
		src = imaging.Fill(src, sc.Width, sc.Height, imaging.Center, imaging.Lanczos)
		img = mask.Clip(src, m)
	}

	if opts.scale > 1 {
		b := img.Bounds()
		img = imaging.Resize(img, b.Dx()*opts.scale, b.Dy()*opts.scale, imaging.NearestNeighbor)
	}
	return img, nil
}

func writePNG(img image.Image, dst string) error {
	if dst != pipeName {
		return imaging.Save(img, dst)
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("`-` should be used with a pipe for stdout")
	}
	return imaging.Encode(os.Stdout, img, imaging.PNG)
}
