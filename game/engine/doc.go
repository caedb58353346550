// Package engine provides the core game logic for 2048.
//
// The engine package implements the game mechanics including:
//   - Line compaction and single-pass tile merging
//   - Direction handling by reorienting rows and columns
//   - Random tile spawning from an injected source
//   - Win and game over detection
//   - Configuration loading and validation
//
// Core Types:
//
// Board is an immutable N×N grid. The free functions MergeLine, ResolveMove,
// SpawnTile, InitBoard, HasAnyMove and ContainsValue operate on boards and
// never mutate their inputs. GameEngine wraps them with a score, move history
// and the rule that a won or lost game accepts no more moves.
//
// Usage:
//
//	rng := rand.New(rand.NewSource(42))
//	gameEngine := engine.NewEngineWithDefaults(rng)
//
//	result, err := gameEngine.Move(engine.Left)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Changed, gameEngine.GetState().Score)
//
// A move that leaves the board untouched reports Changed=false, returns the
// same board and spawns nothing.
package engine
