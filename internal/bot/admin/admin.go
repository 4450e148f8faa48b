package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsync/internal/bot"
	"github.com/sukalov/lyricsync/internal/bot/common"
	"github.com/sukalov/lyricsync/internal/lrc"
	"github.com/sukalov/lyricsync/internal/lyrics"
)

// Editor is the part of the lyrics service admins use.
type Editor interface {
	common.LyricsSource
	Save(ctx context.Context, songID, title, lrcText string) (*lrc.Timeline, error)
	Import(ctx context.Context, songID, title, url string) (*lrc.Timeline, error)
	Reload(ctx context.Context, songID string) (*lrc.Timeline, error)
	Songs(ctx context.Context) ([]lyrics.SongStatus, error)
}

// ViewStats reports request counts per song.
type ViewStats interface {
	common.ViewCounter
	Views(ctx context.Context) (map[string]int64, error)
}

type AdminHandlers struct {
	editor Editor
	stats  ViewStats
	admins map[string]bool
}

func NewAdminHandlers(editor Editor, stats ViewStats, adminUsernames []string) *AdminHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[username] = true
	}

	return &AdminHandlers{
		editor: editor,
		stats:  stats,
		admins: admins,
	}
}

// setHandler stores the lyrics given as "/set <song_id> [title]" followed
// by the LRC text on the next lines.
func (h *AdminHandlers) setHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	songID, title, body, err := ParseSetArgs(message.CommandArguments())
	if err != nil {
		return b.SendMessage(message.Chat.ID, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	tl, err := h.editor.Save(ctx, songID, title, body)
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("failed to save: %v", err))
	}
	return b.SendMessage(message.Chat.ID, common.FormatSummary(songID, tl, 5))
}

// importHandler handles "/import <song_id> <url> [title]".
func (h *AdminHandlers) importHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	fields := strings.Fields(message.CommandArguments())
	if len(fields) < 2 {
		return b.SendMessage(message.Chat.ID, "usage: /import <song_id> <url> [title]")
	}
	if u, err := url.Parse(fields[1]); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return b.SendMessage(message.Chat.ID, "the url must start with http:// or https://")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	tl, err := h.editor.Import(ctx, fields[0], strings.Join(fields[2:], " "), fields[1])
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("failed to import: %v", err))
	}
	return b.SendMessage(message.Chat.ID, common.FormatSummary(fields[0], tl, 5))
}

func (h *AdminHandlers) reloadHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	songID := strings.TrimSpace(message.CommandArguments())
	if songID == "" {
		return b.SendMessage(message.Chat.ID, "usage: /reload <song_id>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	tl, err := h.editor.Reload(ctx, songID)
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("failed to reload: %v", err))
	}
	return b.SendMessage(message.Chat.ID, common.FormatSummary(songID, tl, 5))
}

// isAdmin reports whether message was sent by a known admin. Channel posts
// and anonymous admins carry no sender.
func (h *AdminHandlers) isAdmin(message *tgbotapi.Message) bool {
	return message.From != nil && h.admins[message.From.UserName]
}

func (h *AdminHandlers) songsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	songs, err := h.editor.Songs(ctx)
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("failed to list songs: %v", err))
	}
	return b.SendMessage(message.Chat.ID, FormatSongs(songs))
}

func (h *AdminHandlers) viewsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}
	if h.stats == nil {
		return b.SendMessage(message.Chat.ID, "view counting is disabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	views, err := h.stats.Views(ctx)
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("failed to read views: %v", err))
	}
	return b.SendMessage(message.Chat.ID, FormatViews(views))
}

// ParseSetArgs splits "/set" arguments into the song id, an optional title
// on the first line and the LRC body below it.
func ParseSetArgs(args string) (songID, title, body string, err error) {
	head, body, _ := strings.Cut(args, "\n")
	fields := strings.Fields(head)
	if len(fields) == 0 || strings.TrimSpace(body) == "" {
		return "", "", "", errors.New("usage: /set <song_id> [title]\n<lrc text>")
	}
	return fields[0], strings.Join(fields[1:], " "), body, nil
}

// FormatSongs lists stored songs, marking the ones held in memory.
func FormatSongs(songs []lyrics.SongStatus) string {
	if len(songs) == 0 {
		return "no songs stored"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "songs (%d):\n", len(songs))
	for _, song := range songs {
		mark := "○"
		if song.Loaded {
			mark = "●"
		}
		fmt.Fprintf(&sb, "\n%s %s", mark, song.SongID)
	}
	return sb.String()
}

// FormatViews lists songs by descending request count.
func FormatViews(views map[string]int64) string {
	if len(views) == 0 {
		return "no views yet"
	}
	ids := make([]string, 0, len(views))
	for id := range views {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if views[ids[i]] != views[ids[j]] {
			return views[ids[i]] > views[ids[j]]
		}
		return ids[i] < ids[j]
	})

	var sb strings.Builder
	sb.WriteString("views:\n")
	for idx, id := range ids {
		fmt.Fprintf(&sb, "\n%d. %s — %d", idx+1, id, views[id])
	}
	return sb.String()
}

func SetupHandlers(ctx context.Context, adminBot *bot.Bot, editor Editor, stats ViewStats, adminUsernames []string) {
	handlers := NewAdminHandlers(editor, stats, adminUsernames)

	var views common.ViewCounter
	if stats != nil {
		views = stats
	}

	commandHandlers := common.GetCommandHandlers(editor, views)
	commandHandlers["set"] = handlers.setHandler
	commandHandlers["import"] = handlers.importHandler
	commandHandlers["reload"] = handlers.reloadHandler
	commandHandlers["songs"] = handlers.songsHandler
	commandHandlers["views"] = handlers.viewsHandler

	callbackHandlers := common.GetCallbackHandlers(editor, views)

	go adminBot.Start(ctx, commandHandlers, nil, callbackHandlers)
}
