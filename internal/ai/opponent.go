package ai

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"tictac-arena/internal/game"

	"github.com/rs/zerolog/log"
)

type OpponentConfig struct {
	ThinkMin        time.Duration
	ThinkMax        time.Duration
	StrategyTimeout time.Duration
}

// Opponent paces an automated player: it waits a think delay, asks the
// external strategy if one is configured and falls back to Default whenever
// that fails or answers with an unusable cell.
type Opponent struct {
	cfg      OpponentConfig
	external Strategy
	fallback Strategy

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewOpponent(cfg OpponentConfig, external Strategy, fallback Strategy) *Opponent {
	if cfg.ThinkMax < cfg.ThinkMin {
		cfg.ThinkMax = cfg.ThinkMin
	}
	if cfg.StrategyTimeout <= 0 {
		cfg.StrategyTimeout = 5 * time.Second
	}
	if fallback == nil {
		fallback = NewDefault(0)
	}
	return &Opponent{
		cfg:      cfg,
		external: external,
		fallback: fallback,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (o *Opponent) ThinkDelay() time.Duration {
	span := o.cfg.ThinkMax - o.cfg.ThinkMin
	if span <= 0 {
		return o.cfg.ThinkMin
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cfg.ThinkMin + time.Duration(o.rnd.Int63n(int64(span)+1))
}

// Think blocks for the think delay or until ctx is done. It reports whether
// the full delay elapsed.
func (o *Opponent) Think(ctx context.Context) bool {
	d := o.ThinkDelay()
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// SelectMove always yields a legal cell while one exists.
func (o *Opponent) SelectMove(ctx context.Context, board game.Board, mark game.Mark, difficulty string) (int, error) {
	if o.external != nil {
		callCtx, cancel := context.WithTimeout(ctx, o.cfg.StrategyTimeout)
		cell, err := o.external.SelectMove(callCtx, board, mark, difficulty)
		cancel()
		if err == nil && legal(board, cell) {
			return cell, nil
		}
		log.Warn().Err(err).Int("cell", cell).Str("difficulty", difficulty).Msg("ai_strategy_fallback")
	}
	return o.fallback.SelectMove(ctx, board, mark, difficulty)
}

func legal(board game.Board, cell int) bool {
	return cell >= 0 && cell < game.BoardSize && board[cell] == game.Empty
}
