// Package script runs line-oriented editing scripts against an image store.
//
// Each non-blank line that does not start with '#' is one command: a verb
// followed by whitespace-separated arguments. Verbs are case-insensitive.
// A failing command is reported and the runner moves on to the next line,
// so one bad line does not abort a batch.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/engine"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// MaxDepth bounds how deeply run commands may nest.
const MaxDepth = 8

// LineError records a command that failed.
type LineError struct {
	Source  string `json:"source"`
	Line    int    `json:"line"`
	Command string `json:"command"`
	Err     error  `json:"-"`
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.Source, e.Line, e.Command, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Result summarises a script run, including nested scripts.
type Result struct {
	Executed int         `json:"executed"`
	Failures []LineError `json:"-"`
}

// Err joins the failures, or returns nil when every command succeeded.
func (r *Result) Err() error {
	errs := make([]error, len(r.Failures))
	for i := range r.Failures {
		errs[i] = &r.Failures[i]
	}
	return errors.Join(errs...)
}

// Messages returns one line per failure.
func (r *Result) Messages() []string {
	msgs := make([]string, len(r.Failures))
	for i := range r.Failures {
		msgs[i] = r.Failures[i].Error()
	}
	return msgs
}

// Options configures a Runner.
type Options struct {
	// Output receives one line per failed command. Nil discards them.
	Output io.Writer

	// Save is passed to imaging.SaveFile by the save command.
	Save imaging.SaveOptions

	// Debug logs every command before it runs.
	Debug bool
}

// Runner executes scripts against a Store.
type Runner struct {
	store *imaging.Store
	opts  Options
}

// NewRunner creates a runner that reads and writes images in store.
func NewRunner(store *imaging.Store, opts Options) *Runner {
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	return &Runner{store: store, opts: opts}
}

// RunFile executes the script at path. The error is non-nil only when the
// file cannot be read; command failures are collected in the Result.
func (r *Runner) RunFile(path string) (*Result, error) {
	res := &Result{}
	if err := r.runFile(path, 0, res); err != nil {
		return res, err
	}
	return res, nil
}

// Run executes the script read from src. source names it in error reports.
func (r *Runner) Run(src io.Reader, source string) (*Result, error) {
	res := &Result{}
	if err := r.run(src, source, 0, res); err != nil {
		return res, err
	}
	return res, nil
}

// Exec runs a single command line.
func (r *Runner) Exec(line string) error {
	res := &Result{}
	return r.exec(strings.Fields(line), 0, res)
}

func (r *Runner) runFile(path string, depth int, res *Result) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return r.run(f, path, depth, res)
}

func (r *Runner) run(src io.Reader, source string, depth int, res *Result) error {
	scanner := bufio.NewScanner(src)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if r.opts.Debug {
			log.Printf("[DEBUG] %s:%d: %s", source, lineNo, line)
		}

		res.Executed++
		if err := r.exec(strings.Fields(line), depth, res); err != nil {
			le := LineError{Source: source, Line: lineNo, Command: line, Err: err}
			res.Failures = append(res.Failures, le)
			fmt.Fprintln(r.opts.Output, le.Error())
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}

func (r *Runner) exec(fields []string, depth int, res *Result) error {
	if len(fields) == 0 {
		return nil
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "load":
		if len(args) != 2 {
			return usageError(verb)
		}
		b, err := imaging.LoadFile(args[0], args[1])
		if err != nil {
			return err
		}
		return r.store.Put(args[1], b)

	case "save":
		if len(args) != 2 {
			return usageError(verb)
		}
		b, err := r.store.Get(args[1])
		if err != nil {
			return err
		}
		return imaging.SaveFile(args[0], b, r.opts.Save)

	case "brighten":
		if len(args) != 3 {
			return usageError(verb)
		}
		delta, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid delta %q", args[0])
		}
		src, err := r.store.Get(args[1])
		if err != nil {
			return err
		}
		return r.store.Put(args[2], engine.Brighten(src, delta))

	case "vertical-flip", "horizontal-flip":
		if len(args) != 2 {
			return usageError(verb)
		}
		src, err := r.store.Get(args[0])
		if err != nil {
			return err
		}
		return r.store.Put(args[1], engine.Flip(src, verb == "vertical-flip"))

	case "rgb-split":
		if len(args) != 4 {
			return usageError(verb)
		}
		src, err := r.store.Get(args[0])
		if err != nil {
			return err
		}
		red, green, blue := engine.SplitRGB(src)
		for i, b := range []*raster.Buffer{red, green, blue} {
			if err := r.store.Put(args[i+1], b); err != nil {
				return err
			}
		}
		return nil

	case "rgb-combine":
		if len(args) != 4 {
			return usageError(verb)
		}
		var parts [3]*raster.Buffer
		for i := range parts {
			b, err := r.store.Get(args[i+1])
			if err != nil {
				return err
			}
			parts[i] = b
		}
		out, err := engine.CombineRGB(parts[0], parts[1], parts[2])
		if err != nil {
			return err
		}
		return r.store.Put(args[0], out)

	case "histogram":
		if len(args) != 2 {
			return usageError(verb)
		}
		src, err := r.store.Get(args[0])
		if err != nil {
			return err
		}
		return r.store.Put(args[1], engine.NormalizedHistogram(src))

	case "compress":
		if len(args) != 3 {
			return usageError(verb)
		}
		pct, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid percentage %q", args[0])
		}
		src, err := r.store.Get(args[1])
		if err != nil {
			return err
		}
		out, err := engine.Compress(src, pct)
		if err != nil {
			return err
		}
		return r.store.Put(args[2], out)

	case "downscale":
		if len(args) != 4 {
			return usageError(verb)
		}
		h, errH := strconv.Atoi(args[2])
		w, errW := strconv.Atoi(args[3])
		if errH != nil || errW != nil {
			return fmt.Errorf("invalid size %q x %q", args[2], args[3])
		}
		src, err := r.store.Get(args[0])
		if err != nil {
			return err
		}
		out, err := engine.Downscale(src, h, w)
		if err != nil {
			return err
		}
		return r.store.Put(args[1], out)

	case "run":
		if len(args) != 1 {
			return usageError(verb)
		}
		if depth+1 > MaxDepth {
			return fmt.Errorf("scripts nested deeper than %d", MaxDepth)
		}
		return r.runFile(args[0], depth+1, res)
	}

	op, err := engine.ParseOperation(verb)
	if err != nil {
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return r.execOperation(op, args)
}

// execOperation handles the three forms of an operation command:
//
//	<op> [params] <src> <dst>
//	<op> [params] <src> <mask> <dst>
//	<op> [params] <src> <dst> split <percent>
func (r *Runner) execOperation(op engine.Operation, args []string) error {
	n := op.ParamCount()
	if len(args) < n {
		return usageError(op.String())
	}
	params := make(engine.Params, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return fmt.Errorf("invalid parameter %q", args[i])
		}
		params[i] = v
	}
	rest := args[n:]

	switch {
	case len(rest) == 2:
		src, err := r.store.Get(rest[0])
		if err != nil {
			return err
		}
		out, err := engine.Apply(op, src, params)
		if err != nil {
			return err
		}
		return r.store.Put(rest[1], out)

	case len(rest) == 3:
		src, err := r.store.Get(rest[0])
		if err != nil {
			return err
		}
		mask, err := r.store.Get(rest[1])
		if err != nil {
			return err
		}
		out, err := engine.Mask(op, src, mask, params)
		if err != nil {
			return err
		}
		return r.store.Put(rest[2], out)

	case len(rest) == 4 && strings.EqualFold(rest[2], "split"):
		pct, err := strconv.ParseFloat(rest[3], 64)
		if err != nil {
			return fmt.Errorf("invalid percentage %q", rest[3])
		}
		src, err := r.store.Get(rest[0])
		if err != nil {
			return err
		}
		out, err := engine.SplitPreview(op, src, pct, params)
		if err != nil {
			return err
		}
		return r.store.Put(rest[1], out)
	}
	return usageError(op.String())
}

func usageError(verb string) error {
	var usages []string
	for _, c := range Commands {
		if c.Name == verb {
			usages = append(usages, c.Usage)
		}
	}
	if len(usages) == 0 {
		for _, c := range Commands {
			if c.Name == "<op>" {
				usages = append(usages, strings.Replace(c.Usage, "<op>", verb, 1))
			}
		}
	}
	return fmt.Errorf("usage: %s", strings.Join(usages, " | "))
}
