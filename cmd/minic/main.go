// Package main implements the minic compiler binary.
//
// Every compile writes a per-stage report; the exit status only reflects
// argument and file errors, never the outcome of the compilation itself.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/minic-compiler/pkg/compiler"
	"github.com/GriffinCanCode/minic-compiler/pkg/config"
	"github.com/GriffinCanCode/minic-compiler/pkg/logger"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	switch cmd := args[0]; cmd {
	case "compile":
		return compileCmd(args[1:], stdout, stderr)
	case "batch":
		return batchCmd(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "minic compiler version %s\n", version)
		return 0
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		// minic <input> <output>
		if len(args) == 2 && !strings.HasPrefix(cmd, "-") {
			return compileCmd(args, stdout, stderr)
		}
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		usage(stderr)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `minic - Compile a small C-like language to NASM i386 assembly

Usage:
    minic compile [options] <input> <output>  Compile one file, write its report
    minic <input> <output>                    Same as compile
    minic batch [options] <input>...          Compile many files concurrently
    minic version                             Show compiler version
    minic help                                Show this help message

Options:
    -O <level>         Optimization level (0-2, default: 1)
    -validate          Validate generated assembly (default: true)
    -j <n>             Files compiled concurrently by batch (default: GOMAXPROCS)
    -outdir <dir>      Report directory for batch (default: .)
    -v                 Verbose debug logging
    -log-format <fmt>  Log format: text or json
    -log-file <file>   Append logs to a file

Environment:
    MINIC_OPT_LEVEL, MINIC_JOBS, MINIC_LOG_LEVEL, MINIC_LOG_FORMAT, MINIC_LOG_FILE`)
}

// setup parses flags for a subcommand and initializes logging
func setup(name string, args []string, stderr io.Writer) (*config.Config, *flag.FlagSet, error) {
	cfg := config.Default()
	if err := config.FromEnv(cfg); err != nil {
		return nil, nil, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if err := cfg.Finish(); err != nil {
		return nil, nil, err
	}

	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	logger.LogCompilerStart(append([]string{name}, args...))
	return cfg, fs, nil
}

func compileCmd(args []string, stdout, stderr io.Writer) int {
	cfg, fs, err := setup("compile", args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "Usage: minic compile [options] <input> <output>")
		return 1
	}

	input, output := fs.Arg(0), fs.Arg(1)
	res, err := compileFile(input, output, cfg.Options())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if res.Success {
		fmt.Fprintf(stdout, "Compilation successful! See '%s' for details.\n", output)
	} else {
		fmt.Fprintf(stdout, "!!! COMPILATION FAILED !!!\nSee '%s' for errors.\n", output)
	}
	return 0
}

func batchCmd(args []string, stdout, stderr io.Writer) int {
	cfg, fs, err := setup("batch", args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Usage: minic batch [options] <input>...")
		return 1
	}
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		fmt.Fprintf(stderr, "Error: create output directory: %v\n", err)
		return 1
	}

	inputs := fs.Args()
	reports := reportPaths(cfg.OutDir, inputs)
	results := make([]*compiler.Result, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(cfg.Jobs)
	for i, input := range inputs {
		g.Go(func() error {
			logger.LogFileProcessing(input)
			results[i], errs[i] = compileFile(input, reports[i], cfg.Options())
			if errs[i] == nil {
				logger.With("file", input).Debug("Report written", "report", reports[i])
			}
			return errs[i]
		})
	}
	failed := g.Wait() != nil

	ok := 0
	for i, input := range inputs {
		switch {
		case errs[i] != nil:
			fmt.Fprintf(stderr, "Error: %v\n", errs[i])
		case results[i].Success:
			ok++
			fmt.Fprintf(stdout, "ok      %s -> %s\n", input, reports[i])
		default:
			fmt.Fprintf(stdout, "FAILED  %s -> %s\n", input, reports[i])
		}
	}
	fmt.Fprintf(stdout, "%d/%d compiled successfully\n", ok, len(inputs))

	if failed {
		return 1
	}
	return 0
}

// compileFile reads input, compiles it and writes the report to output
func compileFile(input, output string, opts compiler.Options) (*compiler.Result, error) {
	src, err := os.ReadFile(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("input file '%s' not found", input)
		}
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	res := compiler.Compile(input, string(src), opts)

	f, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("writing output file: %w", err)
	}
	if err := compiler.WriteReport(f, res); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("writing output file: %w", err)
	}
	return res, nil
}

// reportPaths names one report per input under dir. Inputs sharing a base
// name take in parent directories until they differ ("a/prog.mc" becomes
// a_prog.report); the same file given twice gets a numeric suffix.
func reportPaths(dir string, inputs []string) []string {
	parts := make([][]string, len(inputs))
	depth := make([]int, len(inputs))
	for i, input := range inputs {
		stem := strings.TrimSuffix(input, filepath.Ext(input))
		for _, p := range strings.Split(filepath.ToSlash(filepath.Clean(stem)), "/") {
			if p != "" && p != "." && p != ".." {
				parts[i] = append(parts[i], p)
			}
		}
		if len(parts[i]) == 0 {
			parts[i] = []string{"report"}
		}
		depth[i] = 1
	}

	name := func(i int) string {
		p := parts[i]
		return strings.Join(p[len(p)-depth[i]:], "_")
	}

	for {
		groups := make(map[string][]int)
		for i := range inputs {
			groups[name(i)] = append(groups[name(i)], i)
		}
		grew := false
		for _, idx := range groups {
			if len(idx) < 2 {
				continue
			}
			for _, i := range idx {
				if depth[i] < len(parts[i]) {
					depth[i]++
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	out := make([]string, len(inputs))
	used := make(map[string]bool)
	for i := range inputs {
		base := name(i)
		n := base
		for k := 2; used[n]; k++ {
			n = fmt.Sprintf("%s-%d", base, k)
		}
		used[n] = true
		out[i] = filepath.Join(dir, n+".report")
	}
	return out
}
