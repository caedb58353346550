// Command play runs a 2048 game in the terminal.
//
// Keys: arrows or WASD move, n starts a new game, + and - change the board
// size, q or Esc quits.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/CSM357/game-2048/game/engine"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/urfave/cli/v3"
)

var tileBackgrounds = map[int]int32{
	0:    0xcdc1b4,
	2:    0xeee4da,
	4:    0xede0c8,
	8:    0xf2b179,
	16:   0xf59563,
	32:   0xf67c5f,
	64:   0xf65e3b,
	128:  0xedcf72,
	256:  0xedcc61,
	512:  0xedc850,
	1024: 0xedc53f,
	2048: 0xedc22e,
}

// tileBackground returns the cell colour for a tile, tiles past 2048 share one dark colour
func tileBackground(value int) tcell.Color {
	if hex, ok := tileBackgrounds[value]; ok {
		return tcell.NewHexColor(hex)
	}
	return tcell.NewHexColor(0x3c3c2f)
}

func tileForeground(value int) tcell.Color {
	if value > 4 {
		return tcell.NewHexColor(0xf9f6f2)
	}
	return tcell.NewHexColor(0x776e65)
}

// tileText pads the value so every cell of a board has the same width
func tileText(value, width int) string {
	text := ""
	if value != 0 {
		text = fmt.Sprint(value)
	}
	pad := width - len(text)
	left := pad / 2
	return strings.Repeat(" ", left+1) + text + strings.Repeat(" ", pad-left+1)
}

// keyDirection maps arrow keys and WASD to a direction
func keyDirection(ev *tcell.EventKey) (engine.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return engine.Up, true
	case tcell.KeyDown:
		return engine.Down, true
	case tcell.KeyLeft:
		return engine.Left, true
	case tcell.KeyRight:
		return engine.Right, true
	case tcell.KeyRune:
		dir, err := engine.ParseDirection(string(ev.Rune()))
		return dir, err == nil
	}
	return "", false
}

// game holds the engine behind the terminal view. It is only touched from the tview event loop.
type game struct {
	engine *engine.GameEngine
	best   int
	status string
}

func newGame(cfg *engine.GameConfig, rng *rand.Rand) (*game, error) {
	eng, err := engine.NewEngine(cfg, rng)
	if err != nil {
		return nil, err
	}
	return &game{engine: eng, status: eng.GetState().Message}, nil
}

func (g *game) move(dir engine.Direction) {
	result, err := g.engine.Move(dir)
	state := g.engine.GetState()
	switch {
	case errors.Is(err, engine.ErrGameFinished):
		g.status = state.Message + " (press n)"
	case err != nil:
		g.status = err.Error()
	case !result.Changed:
		g.status = fmt.Sprintf("%s: no change", dir)
	default:
		g.status = state.Message
	}
	if state.Score > g.best {
		g.best = state.Score
	}
}

func (g *game) newGame() {
	g.status = g.engine.Reset().Message
}

func (g *game) resize(delta int) {
	size := g.engine.GetState().BoardSize + delta
	state, err := g.engine.Resize(size)
	if err != nil {
		g.status = fmt.Sprintf("Board size must stay between %d and %d", engine.MinBoardSize, engine.MaxBoardSize)
		return
	}
	g.status = fmt.Sprintf("New %dx%d game. %s", size, size, state.Message)
}

// scoreLine is the header shown above the board
func (g *game) scoreLine() string {
	state := g.engine.GetState()
	line := fmt.Sprintf("Score: %d  Best: %d  Tile: %d/%d  Moves: %d",
		state.Score, g.best, state.BestTile, state.WinTarget, state.CurrentMovesCount)
	switch {
	case state.Won:
		line += "  [green]VICTORY[white]"
	case state.GameOver:
		line += "  [red]GAME OVER[white]"
	}
	return line
}

type view struct {
	app    *tview.Application
	board  *tview.Table
	header *tview.TextView
	footer *tview.TextView
	game   *game
}

func newView(g *game) *view {
	v := &view{
		app:    tview.NewApplication(),
		board:  tview.NewTable().SetBorders(true),
		header: tview.NewTextView().SetDynamicColors(true),
		footer: tview.NewTextView().SetDynamicColors(true),
		game:   g,
	}

	help := tview.NewTextView().
		SetText("arrows/WASD move   n new game   +/- board size   q quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.header, 1, 0, false).
		AddItem(v.board, 0, 1, true).
		AddItem(v.footer, 1, 0, false).
		AddItem(help, 1, 0, false)

	v.app.SetRoot(layout, true).SetInputCapture(v.handleKey)
	v.render()
	return v
}

func (v *view) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if dir, ok := keyDirection(ev); ok {
		v.game.move(dir)
		v.render()
		return nil
	}

	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
		v.app.Stop()
	case ev.Rune() == 'n':
		v.game.newGame()
	case ev.Rune() == '+', ev.Rune() == '=':
		v.game.resize(1)
	case ev.Rune() == '-':
		v.game.resize(-1)
	default:
		return ev
	}
	v.render()
	return nil
}

func (v *view) render() {
	state := v.game.engine.GetState()
	width := len(fmt.Sprint(engine.MaxTile(state.Board)))
	if width < 4 {
		width = 4
	}

	v.board.Clear()
	for r := 0; r < state.Board.Size(); r++ {
		for c := 0; c < state.Board.Size(); c++ {
			value := state.Board.Get(r, c)
			v.board.SetCell(r, c, tview.NewTableCell(tileText(value, width)).
				SetAlign(tview.AlignCenter).
				SetBackgroundColor(tileBackground(value)).
				SetTextColor(tileForeground(value)))
		}
	}

	v.header.SetText(v.game.scoreLine())
	v.footer.SetText(v.game.status)
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := engine.DefaultGameConfig()
	cfg.BoardSize = int(cmd.Int("size"))
	cfg.WinTarget = int(cmd.Int("target"))

	seed := int64(cmd.Int("seed"))
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g, err := newGame(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	return newView(g).app.Run()
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play 2048 in the terminal",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Value: engine.DefaultBoardSize, Usage: "board size (3-8)"},
			&cli.IntFlag{Name: "target", Value: engine.DefaultWinTarget, Usage: "tile that wins the game"},
			&cli.IntFlag{Name: "seed", Usage: "random seed, 0 uses the clock"},
		},
		Action: run,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
