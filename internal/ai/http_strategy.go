package ai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tictac-arena/internal/game"
)

var ErrInvalidReply = errors.New("invalid_strategy_reply")

var difficultyPrompts = map[string]string{
	DifficultyEasy:   "You are a casual tic-tac-toe player. Make reasonable moves but do not always play optimally; you sometimes miss wins or blocks.",
	DifficultyMedium: "You are a competent tic-tac-toe player. Take clear wins and block obvious threats, but you may make strategic mistakes.",
	DifficultyHard:   "You are an expert tic-tac-toe player. Play optimally: always take a winning move and always block the opponent.",
}

// HTTPStrategy asks an OpenAI-compatible chat-completions endpoint for a move.
type HTTPStrategy struct {
	endpoint string
	apiKey   string
	model    string
	client   *httpClient
}

func NewHTTPStrategy(endpoint, apiKey, model string, timeout time.Duration) *HTTPStrategy {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &HTTPStrategy{
		endpoint: strings.TrimRight(endpoint, "/") + "/chat/completions",
		apiKey:   apiKey,
		model:    model,
		client:   newHTTPClient(timeout),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (h *HTTPStrategy) SelectMove(ctx context.Context, board game.Board, mark game.Mark, difficulty string) (int, error) {
	difficulty = NormalizeDifficulty(difficulty)
	temperature := 0.3
	if difficulty == DifficultyEasy {
		temperature = 0.8
	}
	req := chatRequest{
		Model: h.model,
		Messages: []chatMessage{
			{Role: "system", Content: difficultyPrompts[difficulty]},
			{Role: "user", Content: movePrompt(board, mark)},
		},
		MaxTokens:   10,
		Temperature: temperature,
	}
	headers := map[string]string{}
	if h.apiKey != "" {
		headers["Authorization"] = "Bearer " + h.apiKey
	}
	var resp chatResponse
	if err := h.client.postJSON(ctx, h.endpoint, headers, req, &resp); err != nil {
		return -1, err
	}
	if len(resp.Choices) == 0 {
		return -1, ErrInvalidReply
	}
	return parseCell(resp.Choices[0].Message.Content)
}

func parseCell(reply string) (int, error) {
	reply = strings.TrimSpace(reply)
	end := 0
	for end < len(reply) && reply[end] >= '0' && reply[end] <= '9' {
		end++
	}
	if end == 0 {
		return -1, fmt.Errorf("%w: %q", ErrInvalidReply, reply)
	}
	n, err := strconv.Atoi(reply[:end])
	if err != nil {
		return -1, fmt.Errorf("%w: %q", ErrInvalidReply, reply)
	}
	return n, nil
}

func movePrompt(board game.Board, mark game.Mark) string {
	cell := func(i int) string {
		if board[i] == game.Empty {
			return " "
		}
		return string(board[i])
	}
	open := board.EmptyCells()
	moves := make([]string, 0, len(open))
	for _, i := range open {
		moves = append(moves, strconv.Itoa(i))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are playing tic-tac-toe as %s.\n\nCurrent board:\n", mark)
	for row := 0; row < 3; row++ {
		fmt.Fprintf(&b, " %s | %s | %s\n", cell(row*3), cell(row*3+1), cell(row*3+2))
	}
	fmt.Fprintf(&b, "\nAvailable moves (0-8, left to right, top to bottom): %s\n", strings.Join(moves, ", "))
	b.WriteString("Reply with only the position number.")
	return b.String()
}
