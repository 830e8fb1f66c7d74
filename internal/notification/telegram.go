// Package notification delivers snapshot messages to Telegram, gated by
// the persisted startup and cooldown markers
package notification

import (
	"fmt"
	"strings"
	"time"

	"chartpulse/internal/core"
	"chartpulse/internal/logger"

	tb "gopkg.in/tucnak/telebot.v2"
)

const startupMessage = "*chartpulse online — Binance spot watcher*"

// chatSender abstracts the raw message delivery so the gating logic can be
// exercised without a live bot
type chatSender interface {
	send(text string) error
}

// Telegram implements the core.Notifier interface
type Telegram struct {
	sender   chatSender
	markers  core.MarkerStore
	cooldown time.Duration
	now      func() time.Time
	log      logger.Logger
}

// NewTelegram creates a Telegram notifier. The bot is send-only: no poller
// is attached and no commands are registered.
func NewTelegram(token string, chatID int64, markers core.MarkerStore, cooldown time.Duration, log logger.Logger) (*Telegram, error) {
	client, err := tb.NewBot(tb.Settings{
		Token:     token,
		ParseMode: tb.ModeMarkdown,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{
		sender:   &telebotSender{client: client, chatID: chatID},
		markers:  markers,
		cooldown: cooldown,
		now:      time.Now,
		log:      log,
	}, nil
}

// AnnounceStartup sends the one-time startup message. If the persisted
// marker says it already went out, the call is a silent no-op.
func (t *Telegram) AnnounceStartup() error {
	sent, err := t.markers.StartupSent()
	if err != nil {
		// Treat an unreadable marker as "not sent": a duplicate greeting
		// beats a silent process
		t.log.WithError(err).Warn("failed to read startup marker")
	}

	if sent {
		return nil
	}

	if err := t.sender.send(startupMessage); err != nil {
		return fmt.Errorf("failed to send startup announcement: %w", err)
	}

	if err := t.markers.MarkStartupSent(); err != nil {
		return fmt.Errorf("failed to persist startup marker: %w", err)
	}

	t.log.Info("startup announcement sent")
	return nil
}

// SendSnapshot renders the frame and delivers it. Unless force is set, the
// send is suppressed while the cooldown window since the last recorded
// delivery is still open; a suppressed attempt leaves the marker untouched.
func (t *Telegram) SendSnapshot(frame *core.Frame, analysisText string, force bool) error {
	now := t.now()

	if !force {
		last, err := t.markers.LastNotification()
		if err != nil {
			return fmt.Errorf("failed to read notification marker: %w", err)
		}

		if elapsed := now.Sub(last); elapsed < t.cooldown {
			t.log.WithFields(map[string]any{
				"elapsed":  elapsed.String(),
				"cooldown": t.cooldown.String(),
			}).Debug("snapshot suppressed by cooldown")
			return nil
		}
	}

	if err := t.sender.send(FormatSnapshot(frame, analysisText)); err != nil {
		// Marker stays unchanged so the next cycle retries
		return fmt.Errorf("failed to deliver snapshot: %w", err)
	}

	if err := t.markers.SetLastNotification(now); err != nil {
		return fmt.Errorf("failed to persist notification marker: %w", err)
	}

	return nil
}

// FormatSnapshot renders one frame as a Markdown chat message: a
// timestamped header, one line per pair, and an optional analysis section
func FormatSnapshot(frame *core.Frame, analysisText string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*Snapshot (UTC %s)*\n", frame.Taken.UTC().Format("15:04"))

	for _, pair := range frame.Pairs {
		sb.WriteString(pairLine(pair, frame.Snapshot(pair)))
		sb.WriteString("\n")
	}

	if analysisText != "" {
		sb.WriteString("\n🧠 Analysis:\n")
		sb.WriteString(analysisText)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func pairLine(pair string, snap *core.Snapshot) string {
	if !snap.Ticker.IsOK() {
		return fmt.Sprintf("*%s*: %s", pair, core.MissingToken)
	}

	oi := core.MissingToken
	if snap.OpenInterest.IsOK() {
		oi = fmt.Sprintf("%g", snap.OpenInterest.Value)
	}

	ticker := snap.Ticker.Value
	return fmt.Sprintf("*%s*: %g (24hVol=%g, OI=%s)", pair, ticker.Price, ticker.Volume, oi)
}

// telebotSender delivers messages through a live telebot client
type telebotSender struct {
	client *tb.Bot
	chatID int64
}

func (s *telebotSender) send(text string) error {
	_, err := s.client.Send(&tb.Chat{ID: s.chatID}, text)
	return err
}
