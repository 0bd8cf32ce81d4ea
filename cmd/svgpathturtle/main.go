// Command svgpathturtle runs a SvgPathTurtle program, either a whole
// file given on the command line or a line-buffered REPL, printing the
// sequence of turtle calls the program made instead of rendered SVG:
// the geometry/SVG output stage lives outside this exercise, so a
// Recorder stands in as the turtle collaborator either way.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/svgpathturtle/svgpathturtle/engine"
	"github.com/svgpathturtle/svgpathturtle/parser"
	"github.com/svgpathturtle/svgpathturtle/turtle"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		script := args[0]
		var src []byte
		var err error
		if script == "-" {
			src, err = io.ReadAll(os.Stdin)
		} else {
			src, err = os.ReadFile(script)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "svgpathturtle: %v\n", err)
			os.Exit(1)
		}
		if !runProgram(script, string(src)) {
			os.Exit(1)
		}
		return
	}
	runREPL()
}

// runProgram parses and executes one complete file against a fresh
// Recorder, printing every call it made, and reports whether the run
// succeeded (no error diagnostics, no execution error).
func runProgram(filename, src string) bool {
	rec := turtle.NewRecorder()
	prog, mainIdx, diags := parser.Parse(filename, src, rec, fileLoader{})
	for _, d := range diags.All() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if diags.HasError() {
		return false
	}

	result := engine.NewEngine(prog).ExecuteMain(mainIdx, rec)
	if result.Err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, result.Err)
		if len(result.Backtrace) > 0 {
			fmt.Fprintf(os.Stderr, "backtrace: %s\n", strings.Join(result.Backtrace, " -> "))
		}
		return false
	}
	if result.PenHeightWarning {
		fmt.Fprintln(os.Stderr, "warning: pen height went negative during this run")
	}
	for _, call := range rec.Calls {
		fmt.Println(call)
	}
	return true
}

// fileLoader resolves import statements against the local filesystem,
// relative to the process's working directory.
type fileLoader struct{}

func (fileLoader) LoadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func runREPL() {
	if !isInteractive() {
		runBufferedREPL(bufio.NewReader(os.Stdin))
		return
	}
	runInteractiveREPL()
}

// isIncomplete treats an input as unfinished while it has more '{' than
// '}': the only multi-line construct in the grammar (def/if/for bodies,
// inline lambdas) is delimited by curly braces.
func isIncomplete(src string) bool {
	depth := 0
	for _, r := range src {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth > 0
}

func runBufferedREPL(reader *bufio.Reader) {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if buffer.Len() == 0 {
					return
				}
			} else {
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(line)
		src := buffer.String()
		if isIncomplete(src) && !errors.Is(err, io.EOF) {
			continue
		}
		buffer.Reset()
		runProgram("<stdin>", src)
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func runInteractiveREPL() {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := "turtle> "
		if buffer.Len() > 0 {
			prompt = ".... "
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if isIncomplete(src) {
			continue
		}
		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		runProgram("<repl>", src)
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".svgpathturtle_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
