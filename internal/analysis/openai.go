// Package analysis delegates chart pattern recognition to the OpenAI chat
// completion API and cleans the returned text for chat delivery
package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"chartpulse/internal/core"
	"chartpulse/internal/logger"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
)

const (
	maxTokens   = 200
	temperature = 0.3

	// Response cleanup bounds
	maxLines   = 6
	maxLineLen = 220

	// Candles included per pair in the prompt
	promptCandles = 10
)

// OpenAIAnalyzer implements core.Analyzer against the OpenAI API
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

// NewOpenAIAnalyzer creates an analyzer using the given API key and model
func NewOpenAIAnalyzer(apiKey, model string, log logger.Logger) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    log,
	}
}

// Analyze builds the prompt for a frame, requests a completion and returns
// the cleaned summary. Any service error is returned to the caller, which
// degrades to a snapshot without an analysis section.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, frame *core.Frame) (string, error) {
	prompt := BuildPrompt(frame)

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens: maxTokens,
			// Low temperature keeps repeated calls on similar data consistent
			Temperature: temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}

	return CleanResponse(resp.Choices[0].Message.Content), nil
}

// BuildPrompt renders a frame into a deterministic analysis prompt: one
// labeled spot-data line per pair, then one labeled candle line per pair
// with at most the last ten candles
func BuildPrompt(frame *core.Frame) string {
	var sb strings.Builder

	sb.WriteString("You are a crypto technical analyst. ")
	sb.WriteString("Given the spot data and OHLC candles, detect patterns (flags, triangles, double tops, head & shoulders) ")
	sb.WriteString("and indicate bias (bullish, bearish, neutral). Suggest possible buy/sell signals.\n\n")
	sb.WriteString("Market summary:\n")

	for _, pair := range frame.Pairs {
		sb.WriteString(spotLine(pair, frame.Snapshot(pair)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	for _, pair := range frame.Pairs {
		fmt.Fprintf(&sb, "%s last %d candles (OHLC): %s\n", pair, promptCandles, candleLine(frame.Snapshot(pair).Candles))
	}

	return sb.String()
}

func spotLine(pair string, snap *core.Snapshot) string {
	if !snap.Ticker.IsOK() {
		return fmt.Sprintf("%s: price=%s vol24h=%s OI=%s", pair, core.MissingToken, core.MissingToken, oiField(snap))
	}

	ticker := snap.Ticker.Value
	return fmt.Sprintf("%s: price=%g vol24h=%g high24h=%g low24h=%g change24h=%g%% OI=%s",
		pair, ticker.Price, ticker.Volume, ticker.High, ticker.Low, ticker.PercentChange, oiField(snap))
}

func oiField(snap *core.Snapshot) string {
	if !snap.OpenInterest.IsOK() {
		return core.MissingToken
	}
	return fmt.Sprintf("%g", snap.OpenInterest.Value)
}

func candleLine(candles []core.Candle) string {
	if len(candles) == 0 {
		return core.MissingToken
	}

	if len(candles) > promptCandles {
		candles = candles[len(candles)-promptCandles:]
	}

	parts := lo.Map(candles, func(c core.Candle, _ int) string {
		return c.OHLC()
	})

	return strings.Join(parts, ", ")
}

// CleanResponse compacts a completion for chat delivery: blank lines are
// stripped, lines that just restate a numbered candle dump are dropped,
// at most six lines survive and each is truncated to a bounded length
func CleanResponse(content string) string {
	lines := lo.FilterMap(strings.Split(content, "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		if line == "" || isCandleDump(line) {
			return "", false
		}
		return truncateLine(line), true
	})

	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	return strings.Join(lines, "\n")
}

// candleDumpRegexp matches lines that echo the prompt's candle tuples
// back, e.g. "1. [101.2,103.4,100.9,102.8]"
var candleDumpRegexp = regexp.MustCompile(`^\d+[.)]?\s*\[`)

func isCandleDump(line string) bool {
	return candleDumpRegexp.MatchString(line)
}

func truncateLine(line string) string {
	runes := []rune(line)
	if len(runes) <= maxLineLen {
		return line
	}
	return string(runes[:maxLineLen]) + "…"
}
