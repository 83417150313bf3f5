// Package debugger implements the line-oriented REPL described in the
// system's external interface: single-step, run, traced run, breakpoints,
// watchpoints, and memory inspection over stdin/stdout.
package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jaaket/c64emu/c64/machine"
	"github.com/jaaket/c64emu/cpu"
)

var (
	traceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	breakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

// Debugger drives a machine.Machine from commands read off r, printing to w.
type Debugger struct {
	m *machine.Machine
	r *bufio.Scanner
	w io.Writer

	breakpoints map[uint16]bool
	watchpoints map[uint16]bool
}

func New(m *machine.Machine, r io.Reader, w io.Writer) *Debugger {
	return &Debugger{
		m:           m,
		r:           bufio.NewScanner(r),
		w:           w,
		breakpoints: map[uint16]bool{},
		watchpoints: map[uint16]bool{},
	}
}

// Run reads commands until EOF or a fatal decode error, returning the
// process exit code: 0 on clean shutdown, nonzero on fatal decode error.
func (d *Debugger) Run() int {
	for {
		fmt.Fprint(d.w, "> ")
		if !d.r.Scan() {
			return 0
		}

		line := strings.TrimSpace(d.r.Text())
		code, fatal := d.dispatch(line)
		if fatal {
			return code
		}
	}
}

// dispatch executes one command line, returning an exit code and whether
// that code should terminate the REPL.
func (d *Debugger) dispatch(line string) (exitCode int, fatal bool) {
	switch {
	case line == "":
		return d.step(false)

	case line == "r":
		return d.runUntilStop(false)

	case line == "r v":
		return d.runUntilStop(true)

	case strings.HasPrefix(line, "b "):
		addr, err := parseHexAddr(line[2:])
		if err != nil {
			fmt.Fprintf(d.w, "bad address: %v\n", err)
			return 0, false
		}
		d.breakpoints[addr] = true
		fmt.Fprintf(d.w, "breakpoint set at $%04X\n", addr)
		return 0, false

	case strings.HasPrefix(line, "w "):
		addr, err := parseHexAddr(line[2:])
		if err != nil {
			fmt.Fprintf(d.w, "bad address: %v\n", err)
			return 0, false
		}
		d.watchpoints[addr] = true
		fmt.Fprintf(d.w, "watchpoint set at $%04X\n", addr)
		return 0, false

	case strings.HasPrefix(line, "i "):
		addr, err := parseHexAddr(line[2:])
		if err != nil {
			fmt.Fprintf(d.w, "bad address: %v\n", err)
			return 0, false
		}
		fmt.Fprintf(d.w, "$%04X: %02X\n", addr, d.m.ReadBus(addr))
		return 0, false

	default:
		fmt.Fprintf(d.w, "unrecognized command: %q\n", line)
		return 0, false
	}
}

func parseHexAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// step advances the machine by one system tick, reporting shutdown or a
// fatal decode error.
func (d *Debugger) step(trace bool) (exitCode int, fatal bool) {
	mnemonic, effect, shutdown, err := d.m.Tick()
	if err != nil {
		d.reportFatal(err)
		return 1, true
	}
	if trace && mnemonic != "" {
		fmt.Fprintln(d.w, traceStyle.Render(fmt.Sprintf("%04X  %s", d.m.CPU.PC, mnemonic)))
	}
	if effect != nil && d.watchpoints[effect.Addr] {
		fmt.Fprintln(d.w, breakStyle.Render(fmt.Sprintf("watchpoint hit: $%04X = %02X", effect.Addr, effect.Value)))
	}
	if shutdown {
		return 0, true
	}
	return 0, false
}

// runUntilStop ticks the machine until a breakpoint, shutdown, or fatal
// decode error, optionally tracing each dispatched instruction.
func (d *Debugger) runUntilStop(trace bool) (exitCode int, fatal bool) {
	for {
		if d.breakpoints[d.m.CPU.PC] {
			fmt.Fprintln(d.w, breakStyle.Render(fmt.Sprintf("breakpoint hit: $%04X", d.m.CPU.PC)))
			return 0, false
		}
		code, stop := d.step(trace)
		if stop {
			return code, true
		}
	}
}

func (d *Debugger) reportFatal(err error) {
	var decodeErr *cpu.DecodeError
	if errors.As(err, &decodeErr) {
		fmt.Fprintln(d.w, errorStyle.Render(fmt.Sprintf("fatal: unknown opcode $%02X at $%04X", decodeErr.Opcode, decodeErr.PC)))
		return
	}
	fmt.Fprintln(d.w, errorStyle.Render(fmt.Sprintf("fatal: %v", err)))
}
