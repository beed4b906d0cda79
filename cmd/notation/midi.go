package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tabnotation/notation/midi"
)

var (
	midiDir    string
	midiStdout bool
	midiOpts   midi.ExportOptions
)

var midiCmd = &cobra.Command{
	Use:   "midi [path ...]",
	Short: "Export tab documents as .mid files",
	Long:  "Export tab documents as Standard MIDI Files. Directories are searched for .yml, .yaml and .json files.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := false
		for _, param := range args {
			files := []string{param}
			if info, err := os.Stat(param); err == nil && info.IsDir() {
				files = nil
				for _, pattern := range []string{"*.yml", "*.yaml", "*.json"} {
					matches, err := filepath.Glob(filepath.Join(param, pattern))
					if err != nil {
						return fmt.Errorf("could not glob the path %v: %w", param, err)
					}
					files = append(files, matches...)
				}
			}
			for _, file := range files {
				if err := exportMidi(file); err != nil {
					printError(fmt.Errorf("could not process file %v: %w", file, err))
					failed = true
				}
			}
		}
		if failed {
			return fmt.Errorf("some files could not be exported")
		}
		return nil
	},
}

func init() {
	f := midiCmd.Flags()
	f.StringVarP(&midiDir, "output", "o", "", "Directory where to write the files. Defaults to the directory of each input file.")
	f.BoolVarP(&midiStdout, "stdout", "s", false, "Write to standard output instead of files.")
	f.Uint16Var(&midiOpts.TicksPerQuarter, "ticks", 960, "Ticks per quarter note.")
	f.Uint8Var(&midiOpts.Velocity, "velocity", 96, "Note velocity.")
	f.IntVar(&midiOpts.ChordOctave, "chord-octave", 3, "Octave of chord roots.")
	rootCmd.AddCommand(midiCmd)
}

func exportMidi(filename string) error {
	tab, err := loadTab(filename)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := midi.Export(&buf, tab, midiOpts); err != nil {
		return err
	}
	if midiStdout {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	dir, name := filepath.Split(filename)
	if midiDir != "" {
		dir = midiDir
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %w", dir, err)
		}
	}
	out := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+".mid")
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write file %v: %w", out, err)
	}
	logger.Info("exported", "file", out, "bars", tab.NumBars())
	return nil
}
