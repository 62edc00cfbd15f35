package main

import (
	"context"
	"encoding/json"
	"time"

	"tictac-arena/internal/ai"
	"tictac-arena/internal/arena"
	"tictac-arena/internal/config"
	"tictac-arena/internal/game"
	"tictac-arena/internal/logging"
	"tictac-arena/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type envelope struct {
	Type string `json:"type"`
}

func main() {
	_ = godotenv.Load()
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	conn, _, err := websocket.DefaultDialer.Dial(cfg.WSURL, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.WSURL).Msg("dial failed")
	}
	defer conn.Close()

	b := &bot{conn: conn, cfg: cfg, strategy: ai.NewDefault(time.Now().UnixNano())}
	if err := b.run(); err != nil {
		log.Error().Err(err).Msg("bot stopped")
	}
	log.Info().Int("played", b.played).Int("won", b.won).Msg("bot done")
}

type bot struct {
	conn     *websocket.Conn
	cfg      config.BotConfig
	strategy ai.Strategy

	identity  string
	sessionID string
	symbol    game.Mark
	lastMoved int
	played    int
	won       int
}

func (b *bot) run() error {
	if err := b.joinQueue(); err != nil {
		return err
	}
	for {
		_, data, err := b.conn.ReadMessage()
		if err != nil {
			return err
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		switch env.Type {
		case "matchFound":
			var m arena.MatchFound
			if err := json.Unmarshal(data, &m); err != nil {
				continue
			}
			b.identity = m.Identity
			b.sessionID = m.SessionID
			b.symbol = game.Mark(m.Symbol)
			b.lastMoved = -1
			log.Info().Str("session_id", m.SessionID).Str("symbol", m.Symbol).Str("opponent", m.OpponentName).Msg("match_found")
		case "boardUpdate":
			var u arena.BoardUpdate
			if err := json.Unmarshal(data, &u); err != nil {
				continue
			}
			if err := b.maybeMove(u); err != nil {
				return err
			}
		case "gameOver":
			var g arena.GameOver
			if err := json.Unmarshal(data, &g); err != nil {
				continue
			}
			b.played++
			if g.Winner == string(b.symbol) {
				b.won++
			}
			log.Info().Str("session_id", g.SessionID).Str("winner", g.Winner).Str("reason", g.Reason).Msg("game_over")
			if b.played >= b.cfg.Games {
				return nil
			}
			if err := b.joinQueue(); err != nil {
				return err
			}
		case "errorMessage":
			var e arena.ErrorMessage
			_ = json.Unmarshal(data, &e)
			log.Warn().Str("reason", e.Reason).Msg("server_error")
		}
	}
}

func (b *bot) joinQueue() error {
	return b.write(ws.ClientMessage{
		Type:        ws.TypeJoinQueue,
		Token:       b.cfg.Token,
		Identity:    b.identity,
		DisplayName: b.cfg.Name,
	})
}

// maybeMove answers a board update when it is our turn. Clock ticks repeat
// the same board, so a move is only sent once per position.
func (b *bot) maybeMove(u arena.BoardUpdate) error {
	if u.SessionID != b.sessionID || u.Status != string(game.StatusPlaying) || u.Turn != string(b.symbol) {
		return nil
	}
	var board game.Board
	filled := 0
	for i, c := range u.Board {
		if c != nil {
			board[i] = game.Mark(*c)
			filled++
		}
	}
	if filled == b.lastMoved {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cell, err := b.strategy.SelectMove(ctx, board, b.symbol, ai.DifficultyHard)
	if err != nil {
		log.Warn().Err(err).Msg("no move available")
		return nil
	}
	b.lastMoved = filled
	return b.write(ws.ClientMessage{Type: ws.TypeMakeMove, SessionID: b.sessionID, CellIndex: &cell})
}

func (b *bot) write(msg ws.ClientMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.conn.WriteMessage(websocket.TextMessage, payload)
}
