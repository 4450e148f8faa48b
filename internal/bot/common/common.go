package common

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsync/internal/bot"
	"github.com/sukalov/lyricsync/internal/logger"
	"github.com/sukalov/lyricsync/internal/lrc"
	"github.com/sukalov/lyricsync/internal/lyrics"
)

const (
	summaryLines = 12
	focusWindow  = 7
	stepMs       = 5000

	// Telegram limit on callback data, in bytes.
	maxCallbackData = 64
)

// LyricsSource is the part of the lyrics service the viewer commands use.
type LyricsSource interface {
	Timeline(ctx context.Context, songID string) (*lrc.Timeline, error)
}

// ViewCounter counts lyric requests per song.
type ViewCounter interface {
	IncrementViews(ctx context.Context, songID string) error
}

type CommonHandlers struct {
	lyrics LyricsSource
	views  ViewCounter
}

func GetCommandHandlers(source LyricsSource, views ViewCounter) map[string]bot.HandlerFunc {
	handlers := newCommonHandlers(source, views)
	return map[string]bot.HandlerFunc{
		"start":  handlers.helpHandler,
		"help":   handlers.helpHandler,
		"lyrics": handlers.lyricsHandler,
		"at":     handlers.atHandler,
	}
}

// GetCallbackHandlers returns the handlers of the seek buttons.
func GetCallbackHandlers(source LyricsSource, views ViewCounter) map[string]bot.HandlerFunc {
	handlers := newCommonHandlers(source, views)
	return map[string]bot.HandlerFunc{
		"at": handlers.seekCallback,
	}
}

func newCommonHandlers(source LyricsSource, views ViewCounter) *CommonHandlers {
	return &CommonHandlers{
		lyrics: source,
		views:  views,
	}
}

func (h *CommonHandlers) helpHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessageWithMarkdown(update.Message.Chat.ID,
		"`/lyrics <song_id>` — show the lyric timeline\n"+
			"`/at <song_id> <mm:ss.xx>` — show what is sung at a moment", true)
}

func (h *CommonHandlers) lyricsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	songID := strings.TrimSpace(message.CommandArguments())
	if songID == "" {
		return b.SendMessage(message.Chat.ID, "usage: /lyrics <song_id>")
	}

	tl, err := h.timeline(songID)
	if err != nil {
		return b.SendMessage(message.Chat.ID, userError(songID, err))
	}
	return b.SendMessage(message.Chat.ID, FormatSummary(songID, tl, summaryLines))
}

func (h *CommonHandlers) atHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	songID, ms, err := ParseAtArgs(message.CommandArguments())
	if err != nil {
		return b.SendMessage(message.Chat.ID, err.Error())
	}

	tl, err := h.timeline(songID)
	if err != nil {
		return b.SendMessage(message.Chat.ID, userError(songID, err))
	}
	text := FormatFocus(tl, ms, focusWindow)
	if markup, ok := seekKeyboard(songID, tl, ms); ok {
		return b.SendMessageWithButtons(message.Chat.ID, text, markup)
	}
	return b.SendMessage(message.Chat.ID, text)
}

// seekCallback handles "at:<song_id>:<ms>" buttons by redrawing the message
// at the new position.
func (h *CommonHandlers) seekCallback(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	if err := b.AnswerCallback(query.ID); err != nil {
		logger.Error(fmt.Sprintf("failed to answer callback %s\nError: %v", query.ID, err))
	}
	if query.Message == nil {
		return nil
	}

	songID, ms, err := ParseSeekData(query.Data)
	if err != nil {
		return err
	}

	tl, err := h.timeline(songID)
	if err != nil {
		return b.SendMessage(query.Message.Chat.ID, userError(songID, err))
	}
	markup, _ := seekKeyboard(songID, tl, ms)
	return b.EditMessageWithButtons(query.Message.Chat.ID, query.Message.MessageID, FormatFocus(tl, ms, focusWindow), markup)
}

func (h *CommonHandlers) timeline(songID string) (*lrc.Timeline, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if h.views != nil {
		if err := h.views.IncrementViews(ctx, songID); err != nil {
			logger.Error(fmt.Sprintf("failed to count view of song %s\nError: %v", songID, err))
		}
	}
	return h.lyrics.Timeline(ctx, songID)
}

// seekKeyboard builds the buttons under an /at reply: 5 s back and forward,
// and jumps to the start of the previous and next line. ok is false when the
// song id is too long to fit into callback data.
func seekKeyboard(songID string, tl *lrc.Timeline, ms int64) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(SeekData(songID, maxPosition)) > maxCallbackData {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	back, forward := ms-stepMs, ms+stepMs
	if back < 0 {
		back = 0
	}
	if forward > maxPosition {
		forward = maxPosition
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏪ 5s", SeekData(songID, back)),
			tgbotapi.NewInlineKeyboardButtonData("5s ⏩", SeekData(songID, forward)),
		),
	}

	lines := tl.Lines()
	active := lrc.ActiveIndex(lines, ms)
	var jumps []tgbotapi.InlineKeyboardButton
	if active > 0 {
		if start, ok := lrc.SeekTime(lines[active-1]); ok {
			jumps = append(jumps, tgbotapi.NewInlineKeyboardButtonData("⏮ line", SeekData(songID, start)))
		}
	}
	if active+1 < len(lines) {
		if start, ok := lrc.SeekTime(lines[active+1]); ok {
			jumps = append(jumps, tgbotapi.NewInlineKeyboardButtonData("line ⏭", SeekData(songID, start)))
		}
	}
	if len(jumps) > 0 {
		rows = append(rows, jumps)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// SeekData encodes a seek button.
func SeekData(songID string, ms int64) string {
	return fmt.Sprintf("at:%s:%d", songID, ms)
}

// ParseSeekData decodes SeekData. The song id may itself contain ':'.
func ParseSeekData(data string) (songID string, ms int64, err error) {
	rest, ok := strings.CutPrefix(data, "at:")
	idx := strings.LastIndexByte(rest, ':')
	if !ok || idx <= 0 {
		return "", 0, fmt.Errorf("malformed seek data %q", data)
	}
	ms, err = strconv.ParseInt(rest[idx+1:], 10, 64)
	if err != nil || ms < 0 || ms > maxPosition {
		return "", 0, fmt.Errorf("malformed seek position %q", data)
	}
	return rest[:idx], ms, nil
}

func userError(songID string, err error) string {
	if errors.Is(err, lyrics.ErrNotFound) {
		return fmt.Sprintf("no lyrics for %s yet", songID)
	}
	logger.Error(fmt.Sprintf("failed to load song %s\nError: %v", songID, err))
	return "something went wrong, try again later"
}
