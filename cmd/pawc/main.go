package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pawlang/pawc/internal/diag"
	"github.com/pawlang/pawc/internal/loader"
	"github.com/pawlang/pawc/internal/manifest"
	"github.com/pawlang/pawc/internal/pipeline"
)

const version = "pawc 0.1.0"

func debugLog(format string, a ...interface{}) {
	if os.Getenv("PAW_DEBUG") != "" {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format, a...)
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pawc", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		outPath    = fs.String("o", "", "output file (default output.c or output.ll)")
		backend    = fs.String("backend", "c", "backend: c or llvm")
		optLevel   = fs.String("O", "0", "optimization hint (0-3) passed through to the downstream compiler")
		doCompile  = fs.Bool("compile", false, "additionally invoke the downstream C/LLVM compiler")
		doRun      = fs.Bool("run", false, "compile then execute the produced binary")
		verbose    = fs.Bool("v", false, "verbose diagnostic output")
		showVer    = fs.Bool("version", false, "print version and exit")
		projectDir = fs.String("project", "", "project directory containing paw.yaml")
		stdlibFlag = fs.String("stdlib", "", "stdlib installation root")
	)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pawc [flags] <input.paw>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	// Accept the attached -O0..-O3 spelling alongside -O=N and -O N.
	for i, a := range args {
		if len(a) == 3 && strings.HasPrefix(a, "-O") && a[2] >= '0' && a[2] <= '3' {
			args[i] = "-O=" + a[2:]
		}
	}
	if err := fs.Parse(args); err != nil {
		return 64
	}
	if *showVer {
		fmt.Println(version)
		return 0
	}

	var inputPath string
	var manifestBackend, manifestStdlib string
	if *projectDir != "" {
		m, err := manifest.Load(*projectDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error reading manifest:", err)
			return 2
		}
		if root := m.ResolveRoot(*projectDir); root != "" {
			inputPath = root
		}
		manifestBackend = m.Backend
		manifestStdlib = m.Stdlib
	}
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}
	if inputPath == "" {
		fs.Usage()
		return 64
	}

	backendSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "backend" {
			backendSet = true
		}
	})
	selectedBackend := pipeline.BackendC
	switch {
	case backendSet:
		selectedBackend = pipeline.Backend(*backend)
	case manifestBackend != "":
		selectedBackend = pipeline.Backend(manifestBackend)
	}
	if selectedBackend != pipeline.BackendC && selectedBackend != pipeline.BackendLLVM {
		fmt.Fprintf(os.Stderr, "unknown backend %q\n", selectedBackend)
		return 64
	}

	stdlibRoot := loader.ResolveStdlibRoot(*stdlibFlag, manifestStdlib)

	debugLog("compiling %s with backend %s\n", inputPath, selectedBackend)
	res := pipeline.CompileFile(inputPath, pipeline.Options{Backend: selectedBackend, StdlibRoot: stdlibRoot})

	if len(res.Diagnostics) > 0 {
		formatter := diag.NewFormatter()
		for _, d := range res.Diagnostics {
			formatter.Format(d)
		}
	}
	if res.HasErrors() {
		return 1
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "compiled %d function(s), %d struct(s), %d enum(s)\n",
			len(res.DB.Funcs), len(res.DB.Structs), len(res.DB.Enums))
	}

	out := *outPath
	if out == "" {
		if selectedBackend == pipeline.BackendLLVM {
			out = "output.ll"
		} else {
			out = "output.c"
		}
	}

	if err := writeOutputAtomically(out, res.Output); err != nil {
		fmt.Fprintln(os.Stderr, "error writing output:", err)
		return 2
	}

	if *doCompile || *doRun {
		bin, err := compileDownstream(out, selectedBackend, *optLevel)
		if err != nil {
			fmt.Fprintln(os.Stderr, "downstream compile failed:", err)
			return 1
		}
		if *doRun {
			cmd := exec.Command(bin)
			cmd.Stdout, cmd.Stderr, cmd.Stdin = os.Stdout, os.Stderr, os.Stdin
			if err := cmd.Run(); err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					return exitErr.ExitCode()
				}
				fmt.Fprintln(os.Stderr, "run failed:", err)
				return 1
			}
		}
	}

	return 0
}

// writeOutputAtomically writes to a temp file in the destination
// directory and renames into place, so a failed earlier phase never
// leaves a stale or partial output file at path.
func writeOutputAtomically(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pawc-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// compileDownstream invokes cc for the C backend or llc+cc for the LLVM
// backend. Each tool is looked up on PATH only (findTool), trying the
// listed names in order.
func compileDownstream(irPath string, backend pipeline.Backend, optLevel string) (string, error) {
	binPath := strings.TrimSuffix(irPath, filepath.Ext(irPath))
	if binPath == irPath {
		binPath = irPath + ".out"
	}

	if backend == pipeline.BackendC {
		cc := findTool("cc", "clang", "gcc")
		if cc == "" {
			return "", fmt.Errorf("no C compiler found in PATH")
		}
		cmd := exec.Command(cc, "-O"+optLevel, "-o", binPath, irPath)
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return "", err
		}
		return binPath, nil
	}

	llc := findTool("llc")
	if llc == "" {
		return "", fmt.Errorf("llc not found in PATH")
	}
	objPath := irPath + ".o"
	cmd := exec.Command(llc, "-filetype=obj", "-O"+optLevel, "-o", objPath, irPath)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", err
	}
	cc := findTool("cc", "clang", "gcc")
	if cc == "" {
		return "", fmt.Errorf("no C compiler found in PATH to link %s", objPath)
	}
	cmd = exec.Command(cc, "-o", binPath, objPath)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return binPath, nil
}

func findTool(names ...string) string {
	for _, n := range names {
		if path, err := exec.LookPath(n); err == nil {
			return path
		}
	}
	return ""
}
