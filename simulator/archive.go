package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cameron-Kurotori/safesnake/sdk"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// TurnRow is one (game, turn) snapshot with the move every snake made from it.
type TurnRow struct {
	GameID string `parquet:"game_id,dict"`
	Turn   int32  `parquet:"turn"`
	Width  int32  `parquet:"width"`
	Height int32  `parquet:"height"`

	FoodX []int32 `parquet:"food_x"`
	FoodY []int32 `parquet:"food_y"`

	Snakes []TurnSnake `parquet:"snakes"`
}

type TurnSnake struct {
	ID     string  `parquet:"id,dict"`
	Name   string  `parquet:"name,dict"`
	Health int32   `parquet:"health"`
	BodyX  []int32 `parquet:"body_x"`
	BodyY  []int32 `parquet:"body_y"`
	Move   string  `parquet:"move,dict"`
}

func splitCoords(coords []sdk.Coord) (xs, ys []int32) {
	xs = make([]int32, len(coords))
	ys = make([]int32, len(coords))
	for i, c := range coords {
		xs[i], ys[i] = int32(c.X), int32(c.Y)
	}
	return xs, ys
}

func newTurnRow(state sdk.GameState, moves map[string]sdk.Direction) TurnRow {
	row := TurnRow{
		GameID: state.Game.ID,
		Turn:   int32(state.Turn),
		Width:  int32(state.Board.Width),
		Height: int32(state.Board.Height),
		Snakes: make([]TurnSnake, len(state.Board.Snakes)),
	}
	row.FoodX, row.FoodY = splitCoords(state.Board.Food)
	for i, snake := range state.Board.Snakes {
		bodyX, bodyY := splitCoords(snake.Body)
		row.Snakes[i] = TurnSnake{
			ID:     snake.ID,
			Name:   snake.Name,
			Health: snake.Health,
			BodyX:  bodyX,
			BodyY:  bodyY,
			Move:   string(moves[snake.ID].Move()),
		}
	}
	return row
}

// archiveWriter buffers turn rows and writes them to a parquet file on Close. A nil
// *archiveWriter discards everything.
type archiveWriter struct {
	path string
	rows []TurnRow
}

func newArchiveWriter(path string) *archiveWriter {
	if path == "" {
		return nil
	}
	return &archiveWriter{path: path}
}

func (a *archiveWriter) Write(state sdk.GameState, moves map[string]sdk.Direction) error {
	if a == nil {
		return nil
	}
	a.rows = append(a.rows, newTurnRow(state, moves))
	return nil
}

// Close writes to a temp file next to the archive and renames it into place.
func (a *archiveWriter) Close() error {
	if a == nil || len(a.rows) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	tmpPath := a.path + ".tmp"
	_ = os.Remove(tmpPath)
	if err := parquet.WriteFile(tmpPath, a.rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "sim_turn_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, a.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}
