// Command analyze plays seeded games with a random-move strategy against each
// configuration in the configs directory and prints how hard the configuration
// is: win rate, score and best-tile distribution.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/CSM357/game-2048/game/config"
	"github.com/CSM357/game-2048/game/engine"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v3"
)

// maxMovesPerGame guards against a strategy that never finishes
const maxMovesPerGame = 100000

// Strategy picks the next direction for a board. ok is false when no direction changes it.
type Strategy interface {
	NextMove(state *engine.GameState) (dir engine.Direction, ok bool)
}

// RandomStrategy plays a uniformly random direction among those that change the board
type RandomStrategy struct {
	rng *rand.Rand
}

// NextMove implements Strategy
func (s RandomStrategy) NextMove(state *engine.GameState) (engine.Direction, bool) {
	if len(state.PossibleMoves) == 0 {
		return "", false
	}
	return state.PossibleMoves[s.rng.Intn(len(state.PossibleMoves))], true
}

// GameOutcome is the result of one simulated game
type GameOutcome struct {
	Score    int
	BestTile int
	Moves    int
	Won      bool
}

// Summary aggregates the outcomes of every game played for one configuration
type Summary struct {
	Config     string
	BoardSize  int
	WinTarget  int
	Games      int
	Wins       int
	TotalScore int
	BestScore  int
	BestTile   int
	TotalMoves int
	// TileCounts counts games by the best tile they reached
	TileCounts map[int]int
}

// WinRate returns the fraction of games won
func (s Summary) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// AvgScore returns the mean final score
func (s Summary) AvgScore() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Games)
}

// AvgMoves returns the mean number of moves per game
func (s Summary) AvgMoves() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalMoves) / float64(s.Games)
}

func (s *Summary) add(o GameOutcome) {
	s.Games++
	if o.Won {
		s.Wins++
	}
	s.TotalScore += o.Score
	s.TotalMoves += o.Moves
	if o.Score > s.BestScore {
		s.BestScore = o.Score
	}
	if o.BestTile > s.BestTile {
		s.BestTile = o.BestTile
	}
	s.TileCounts[o.BestTile]++
}

// playGame plays one game to its end. Tile spawns come from rng, the strategy
// keeps its own source so changing strategy does not change the spawn sequence.
func playGame(cfg *engine.GameConfig, rng *rand.Rand, strategy Strategy) (GameOutcome, error) {
	eng, err := engine.NewEngine(cfg, rng)
	if err != nil {
		return GameOutcome{}, err
	}

	state := eng.GetState()
	for moves := 0; moves < maxMovesPerGame && !state.Won && !state.GameOver; moves++ {
		dir, ok := strategy.NextMove(state)
		if !ok {
			break
		}
		if _, err := eng.Move(dir); err != nil {
			return GameOutcome{}, err
		}
		state = eng.GetState()
	}

	return GameOutcome{
		Score:    state.Score,
		BestTile: state.BestTile,
		Moves:    state.TotalMoves,
		Won:      state.Won,
	}, nil
}

// simulate plays games seeded seed, seed+1, ... so every run with the same seed is identical
func simulate(name string, cfg *engine.GameConfig, games int, seed int64) (Summary, error) {
	summary := Summary{
		Config:     name,
		BoardSize:  cfg.BoardSize,
		WinTarget:  cfg.WinTarget,
		TileCounts: make(map[int]int),
	}

	strategy := RandomStrategy{rng: rand.New(rand.NewSource(seed))}
	for i := 0; i < games; i++ {
		outcome, err := playGame(cfg, rand.New(rand.NewSource(seed+int64(i))), strategy)
		if err != nil {
			return summary, fmt.Errorf("%s game %d: %w", name, i+1, err)
		}
		summary.add(outcome)
	}
	return summary, nil
}

func printSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", s.Config)
	fmt.Fprintf(w, "Board: %dx%d, Target: %d\n", s.BoardSize, s.BoardSize, s.WinTarget)
	fmt.Fprintf(w, "Games: %d, Wins: %d (%.1f%%)\n", s.Games, s.Wins, 100*s.WinRate())
	fmt.Fprintf(w, "Average score: %.1f, Best score: %d\n", s.AvgScore(), s.BestScore)
	fmt.Fprintf(w, "Average moves: %.1f\n", s.AvgMoves())

	tiles := make([]int, 0, len(s.TileCounts))
	for tile := range s.TileCounts {
		tiles = append(tiles, tile)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))

	fmt.Fprintf(w, "Best tile reached:\n")
	for _, tile := range tiles {
		count := s.TileCounts[tile]
		pct := 100 * float64(count) / float64(s.Games)
		fmt.Fprintf(w, "  %6d  %5d games  %s\n", tile, count, strings.Repeat("#", int(pct/2+0.5)))
	}

	if s.Wins == 0 {
		fmt.Fprintf(w, "⚠️  Random play never reached %d\n", s.WinTarget)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("cpuprofile") {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cmd.String("profile-dir"))).Stop()
	}

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	names := cmd.Args().Slice()
	if len(names) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.ConfigID)
		}
	}

	games := int(cmd.Int("games"))
	if games <= 0 {
		return fmt.Errorf("--games must be positive, got %d", games)
	}
	seed := int64(cmd.Int("seed"))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		cfg, err := manager.LoadConfig(name)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		summary, err := simulate(name, cfg, games, seed)
		if err != nil {
			return err
		}
		printSummary(os.Stdout, summary)
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "simulate random play against game configurations",
		ArgsUsage: "[config ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing game configurations"},
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 200, Usage: "games to play per configuration"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "seed of the first game"},
			&cli.BoolFlag{Name: "cpuprofile", Usage: "write a CPU profile"},
			&cli.StringFlag{Name: "profile-dir", Value: ".", Usage: "directory for the CPU profile"},
		},
		Action: run,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
