// Package ai is the automated opponent: a move-selection strategy behind a
// fixed contract plus the pacing that makes it feel like a player.
package ai

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"tictac-arena/internal/game"
)

var ErrNoMove = errors.New("no_move_available")

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// NormalizeDifficulty maps unknown values to medium.
func NormalizeDifficulty(v string) string {
	switch v {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return v
	default:
		return DifficultyMedium
	}
}

// Strategy picks a cell for mark on board.
type Strategy interface {
	SelectMove(ctx context.Context, board game.Board, mark game.Mark, difficulty string) (int, error)
}

var (
	corners = []int{0, 2, 6, 8}
	edges   = []int{1, 3, 5, 7}
)

// Default plays win, block, center, corner, edge, anything, in that order.
type Default struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDefault(seed int64) *Default {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Default{rnd: rand.New(rand.NewSource(seed))}
}

func (d *Default) SelectMove(_ context.Context, board game.Board, mark game.Mark, _ string) (int, error) {
	open := board.EmptyCells()
	if len(open) == 0 {
		return -1, ErrNoMove
	}
	if idx, ok := completingMove(board, mark); ok {
		return idx, nil
	}
	if idx, ok := completingMove(board, mark.Opponent()); ok {
		return idx, nil
	}
	if board[4] == game.Empty {
		return 4, nil
	}
	if idx, ok := d.pick(board, corners); ok {
		return idx, nil
	}
	if idx, ok := d.pick(board, edges); ok {
		return idx, nil
	}
	return d.pick1(open), nil
}

func (d *Default) pick(board game.Board, cells []int) (int, bool) {
	var free []int
	for _, c := range cells {
		if board[c] == game.Empty {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return -1, false
	}
	return d.pick1(free), true
}

func (d *Default) pick1(cells []int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cells[d.rnd.Intn(len(cells))]
}

func completingMove(board game.Board, mark game.Mark) (int, bool) {
	for _, line := range game.WinLines() {
		own, gap := 0, -1
		for _, idx := range line {
			switch board[idx] {
			case mark:
				own++
			case game.Empty:
				gap = idx
			}
		}
		if own == 2 && gap >= 0 {
			return gap, true
		}
	}
	return -1, false
}
