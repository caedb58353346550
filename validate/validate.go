// Command validate checks the game configuration JSON files in a configs
// directory. For each file it reports:
//   - JSON structure, unknown keys and required fields
//   - board size and win target bounds
//   - whether the win target can be reached on the configured board at all
//   - spawn probability and the message templates
//
// It exits with non-zero status when any file is invalid.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/CSM357/game-2048/game/engine"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file. Unlike
// engine.ValidateGameConfig it keeps going after the first problem so one run
// lists everything that needs fixing.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if config.Name == "" {
		result.fail("name is required")
	}
	if config.Description == "" {
		result.fail("description is required")
	}

	if !engine.IsValidBoardSize(config.BoardSize) {
		result.fail("board_size must be between %d and %d, got %d", engine.MinBoardSize, engine.MaxBoardSize, config.BoardSize)
	}
	if config.WinTarget < engine.MinWinTarget || !engine.IsPowerOfTwo(config.WinTarget) {
		result.fail("win_target must be a power of two >= %d, got %d", engine.MinWinTarget, config.WinTarget)
	}
	if config.FourProbability < 0 || config.FourProbability > 1 {
		result.fail("four_probability must be between 0 and 1, got %v", config.FourProbability)
	}

	required := map[string]string{
		"welcome":   config.Messages.Welcome,
		"victory":   config.Messages.Victory,
		"game_over": config.Messages.GameOver,
	}
	for _, key := range []string{"welcome", "victory", "game_over"} {
		if required[key] == "" {
			result.fail("Missing required message: %s", key)
		}
	}
	for _, key := range []string{"victory", "game_over"} {
		if msg := required[key]; msg != "" {
			if err := engine.CheckScoreTemplate(msg); err != nil {
				result.fail("Message %s must contain exactly one %%d for the score: %v", key, err)
			}
		}
	}

	// Reachability only makes sense once the numbers themselves are sane
	if result.Valid {
		reach := validateReachability(config.BoardSize, config.WinTarget)
		if !reach.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, reach.Errors...)
	}

	// The engine is the final word, anything it rejects must have been reported above
	if result.Valid {
		if err := engine.ValidateGameConfig(&config); err != nil {
			result.fail("Engine rejected config: %v", err)
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", config.BoardSize, config.BoardSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Target: %d", config.WinTarget))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Four probability: %.2f", config.FourProbability))
		if config.Messages.NoChange == "" {
			result.Errors = append(result.Errors, "✓ No no_change message, no-op moves keep the previous message")
		}
	}

	return result
}

// validateReachability reports whether winTarget can appear on a board of the given size
func validateReachability(boardSize, winTarget int) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if !engine.IsValidBoardSize(boardSize) {
		result.fail("Cannot validate reachability: board size %d", boardSize)
		return result
	}

	limit := engine.MaxReachableTile(boardSize)
	if winTarget > limit {
		result.fail("Unreachable target: %d exceeds the largest tile %d a %dx%d board can hold", winTarget, limit, boardSize, boardSize)
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Reachability: %d fits on a %dx%d board (limit %d)", winTarget, boardSize, boardSize, limit))
	return result
}

// report prints one block per result and returns whether all of them are valid
func report(w io.Writer, results []ValidationResult) bool {
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	bad := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, ok("✅ VALID"))
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+dim(info))
			}
		} else {
			fmt.Fprintln(w, bad("❌ INVALID"))
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, ok("✅ All configurations are valid!"))
	} else {
		fmt.Fprintln(w, bad("❌ Some configurations have errors"))
	}
	return allValid
}

var errInvalidConfigs = errors.New("some configurations have errors")

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("no-color") {
		color.NoColor = true
	}

	files := cmd.Args().Slice()
	if len(files) == 0 {
		configDir := cmd.String("config-dir")
		matches, err := filepath.Glob(filepath.Join(configDir, "*.json"))
		if err != nil {
			return fmt.Errorf("finding config files: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no config files found in %s", configDir)
		}
		files = matches
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateConfig(file))
	}

	if !report(cmd.Root().Writer, results) {
		return errInvalidConfigs
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate game configuration files",
		ArgsUsage: "[file.json ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory scanned when no files are given"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
		},
		Action: run,
	}
}

// main validates every config and exits with non-zero status if any are invalid
func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errInvalidConfigs) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
