package main

import (
	"fmt"
	"os"

	"github.com/jaaket/c64emu/c64/machine"
	"github.com/jaaket/c64emu/debugger"
	"github.com/jaaket/c64emu/display"
	"github.com/spf13/cobra"
)

var (
	basicROMPath  string
	kernalROMPath string
	charROMPath   string
	windowScale   int
	debug         bool
)

var rootCmd = &cobra.Command{
	Use:   "c64emu",
	Short: "c64emu runs a cycle-driven 8-bit home computer core",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&basicROMPath, "basic-rom", "basic.rom", "path to the 8 KiB BASIC ROM image")
	rootCmd.Flags().StringVar(&kernalROMPath, "kernal-rom", "kernal.rom", "path to the 8 KiB KERNAL ROM image")
	rootCmd.Flags().StringVar(&charROMPath, "char-rom", "char.rom", "path to the 4 KiB character ROM image")
	rootCmd.Flags().IntVar(&windowScale, "scale", 2, "window scale factor over the native 504x312 surface")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "drop into the line-oriented debugger instead of free-running")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	win, err := display.New("c64emu", windowScale)
	if err != nil {
		return fmt.Errorf("opening display: %w", err)
	}
	defer win.Close()

	m := machine.New(win)
	if err := loadROMs(m); err != nil {
		return err
	}
	m.Reset()

	if debug {
		d := debugger.New(m, os.Stdin, os.Stdout)
		os.Exit(d.Run())
		return nil
	}

	for {
		_, _, shutdown, err := m.Tick()
		if err != nil {
			return fmt.Errorf("run loop: %w", err)
		}
		if shutdown {
			return nil
		}
	}
}

func loadROMs(m *machine.Machine) error {
	regions := []struct {
		tag  string
		path string
	}{
		{"basic", basicROMPath},
		{"kernal", kernalROMPath},
		{"char", charROMPath},
	}
	for _, r := range regions {
		data, err := os.ReadFile(r.path)
		if err != nil {
			return fmt.Errorf("loading %s ROM: %w", r.tag, err)
		}
		if err := m.LoadROM(r.tag, data); err != nil {
			return fmt.Errorf("loading %s ROM: %w", r.tag, err)
		}
	}
	return nil
}
