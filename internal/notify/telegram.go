// Package notify pushes sponsorship matches to a Telegram chat.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	"h1bhunt-engine/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of *tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    sender
	chatID int64
	floor  domain.Confidence
}

// NewTelegram connects to the Bot API. minConfidence is "high" or "medium".
func NewTelegram(token string, chatID int64, minConfidence string) (*Telegram, error) {
	if strings.TrimSpace(token) == "" || chatID == 0 {
		return nil, errors.New("telegram needs a bot token and chat id")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return newTelegram(bot, chatID, minConfidence), nil
}

func newTelegram(bot sender, chatID int64, minConfidence string) *Telegram {
	floor := domain.ConfidenceHigh
	if strings.EqualFold(strings.TrimSpace(minConfidence), string(domain.ConfidenceMedium)) {
		floor = domain.ConfidenceMedium
	}
	return &Telegram{bot: bot, chatID: chatID, floor: floor}
}

// Qualifies reports whether a record is worth a message: a "yes" verdict at
// or above the configured confidence.
func (t *Telegram) Qualifies(j domain.JobRecord) bool {
	if j.SponsorsH1B != domain.SponsorYes {
		return false
	}
	switch j.Confidence {
	case domain.ConfidenceHigh:
		return true
	case domain.ConfidenceMedium:
		return t.floor == domain.ConfidenceMedium
	}
	return false
}

func (t *Telegram) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// NotifyJobs sends one message per qualifying job and returns how many went
// out. It stops at the first send error.
func (t *Telegram) NotifyJobs(ctx context.Context, jobs []domain.JobRecord) (int, error) {
	sent := 0
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if !t.Qualifies(j) {
			continue
		}
		if err := t.send(FormatJob(j)); err != nil {
			return sent, fmt.Errorf("telegram send: %w", err)
		}
		sent++
	}
	if sent > 0 {
		log.Printf("[notify] telegram sent=%d", sent)
	}
	return sent, nil
}

// Summary sends a plain text line, e.g. the end-of-run counts.
func (t *Telegram) Summary(text string) error {
	return t.send(html.EscapeString(text))
}

func FormatJob(j domain.JobRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(j.Title))
	fmt.Fprintf(&b, "%s · %s\n", html.EscapeString(j.Company), html.EscapeString(j.Location))
	fmt.Fprintf(&b, "H1B: %s (%s)", j.SponsorsH1B.Label(), j.Confidence)
	if len(j.KeywordsFound) > 0 {
		fmt.Fprintf(&b, " [%s]", html.EscapeString(strings.Join(j.KeywordsFound, ", ")))
	}
	fmt.Fprintf(&b, "\n%s · %s", html.EscapeString(j.Source), html.EscapeString(j.PostingDate))
	if j.URL != "" {
		fmt.Fprintf(&b, "\n<a href=\"%s\">Apply</a>", html.EscapeString(j.URL))
	}
	return b.String()
}
