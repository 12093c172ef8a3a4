// Command rsc inspects, verifies and repacks RSC resource archives.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/rsc"
	"github.com/meigma/rsc/internal/archivefile"
	"github.com/meigma/rsc/internal/inspect"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errDifferent makes diff exit non-zero, as diff(1) does.
var errDifferent = errors.New("archives differ")

type command struct {
	name    string
	usage   string
	summary string
	run     func(app *app, args []string) error
}

var commands = []command{
	{"list", "list [-holes] [-lenient] FILE", "print one line per record", runList},
	{"verify", "verify [-j N] [-lenient] FILE...", "validate checksums and byte-exact round trip", runVerify},
	{"repack", "repack [-zstd] [-drop-holes] [-lenient] IN OUT", "decode and re-encode an archive", runRepack},
	{"diff", "diff OLD NEW", "compare resources by path and content digest", runDiff},
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rsc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "enable debug logging")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return exitUsage
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	a := &app{
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	name := fs.Arg(0)
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		err := cmd.run(a, fs.Args()[1:])
		switch {
		case err == nil:
			return exitOK
		case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
			fmt.Fprintf(stderr, "usage: rsc %s\n", cmd.usage)
			return exitUsage
		case errors.Is(err, errDifferent):
			return exitFailure
		default:
			a.logger.Error(name+" failed", "error", err)
			return exitFailure
		}
	}
	fmt.Fprintf(stderr, "rsc: unknown command %q\n", name)
	fs.Usage()
	return exitUsage
}

var errUsage = errors.New("usage")

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: rsc [-v] COMMAND [flags] ARGS")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "options:")
	fs.PrintDefaults()
}

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func runList(a *app, args []string) error {
	fs := newFlagSet(a, "list")
	holes := fs.Bool("holes", false, "include holes")
	lenient := fs.Bool("lenient", false, "report unassigned type codes as unknown")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	data, err := archivefile.Read(fs.Arg(0))
	if err != nil {
		return err
	}
	// Always decode holes so offsets stay meaningful, then filter.
	entries, err := rsc.Decode(data,
		rsc.WithIncludeEmpty(true),
		rsc.WithStrict(!*lenient),
		rsc.WithLogger(a.logger))
	if err != nil {
		return err
	}

	for _, item := range inspect.Items(entries) {
		if !item.Used {
			if *holes {
				fmt.Fprintf(a.stdout, "-%08x <hole> %d\n", item.Offset, item.Size)
			}
			continue
		}
		mark := " "
		if item.Encrypted {
			mark = "*"
		}
		fmt.Fprintf(a.stdout, "+%08x %s%s %s %d %s\n",
			item.Offset, mark, item.Path, item.Type, item.Size, item.Digest.Encoded()[:12])
	}
	return nil
}

type verifyResult struct {
	entries, holes int
	err            error
}

func runVerify(a *app, args []string) error {
	fs := newFlagSet(a, "verify")
	jobs := fs.Int("j", runtime.GOMAXPROCS(0), "number of archives verified concurrently")
	lenient := fs.Bool("lenient", false, "accept unassigned type codes (disables the round-trip check)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	paths := fs.Args()
	results := make([]verifyResult, len(paths))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = verifyFile(path, !*lenient, a.logger.With("archive", path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for i, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(a.stdout, "FAIL %s: %v\n", paths[i], res.err)
			continue
		}
		fmt.Fprintf(a.stdout, "ok   %s (%d resources, %d holes)\n", paths[i], res.entries, res.holes)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d archives failed verification", failed, len(paths))
	}
	return nil
}

func verifyFile(path string, strict bool, logger *slog.Logger) verifyResult {
	data, err := archivefile.Read(path)
	if err != nil {
		return verifyResult{err: err}
	}
	entries, err := rsc.Decode(data,
		rsc.WithIncludeEmpty(true),
		rsc.WithValidateChecksums(true),
		rsc.WithStrict(strict),
		rsc.WithLogger(logger))
	if err != nil {
		return verifyResult{err: err}
	}
	if strict && !bytes.Equal(rsc.Encode(entries), data) {
		return verifyResult{err: errors.New("re-encoded archive differs from input")}
	}
	resources := len(rsc.Resources(entries))
	return verifyResult{entries: resources, holes: len(entries) - resources}
}

func runRepack(a *app, args []string) error {
	fs := newFlagSet(a, "repack")
	compress := fs.Bool("zstd", false, "write zstd-compressed output")
	dropHoles := fs.Bool("drop-holes", false, "omit holes from the output")
	lenient := fs.Bool("lenient", false, "rewrite unassigned type codes as unknown")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}
	in, out := fs.Arg(0), fs.Arg(1)

	data, err := archivefile.Read(in)
	if err != nil {
		return err
	}
	entries, err := rsc.Decode(data,
		rsc.WithIncludeEmpty(!*dropHoles),
		rsc.WithStrict(!*lenient),
		rsc.WithLogger(a.logger))
	if err != nil {
		return err
	}
	packed := rsc.Encode(entries)
	if err := archivefile.Write(out, packed, *compress); err != nil {
		return err
	}
	a.logger.Info("repacked archive",
		"in", in,
		"out", out,
		"entries", len(entries),
		"bytes_in", len(data),
		"bytes_out", len(packed),
		"zstd", *compress)
	return nil
}

func runDiff(a *app, args []string) error {
	fs := newFlagSet(a, "diff")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}

	var sides [2][]rsc.Entry
	for i, path := range fs.Args() {
		data, err := archivefile.Read(path)
		if err != nil {
			return err
		}
		if sides[i], err = rsc.Decode(data, rsc.WithLogger(a.logger)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	changes := inspect.Diff(sides[0], sides[1])
	for _, c := range changes {
		fmt.Fprintf(a.stdout, "%-8s %s\n", c.Kind, c.Path)
	}
	if len(changes) > 0 {
		return errDifferent
	}
	return nil
}
