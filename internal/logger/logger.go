package logger

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sukalov/lyricsync/internal/utils"
	"github.com/sukalov/lyricsync/internal/utils/e"
)

var (
	ChannelID int64
	once      sync.Once
	mu        sync.RWMutex
	botClient BotClient
	log       = logrus.New()
)

type BotClient interface {
	SendMessage(chatID int64, text string) error
}

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(utils.GetEnv("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(lvl)
	}
}

// Init forwards log messages to the Telegram channel named by
// LOG_CHANNEL_ID. Without it, messages only go to the local log.
func Init(client BotClient) error {
	var initErr error
	once.Do(func() {
		env, err := utils.LoadEnv([]string{"LOG_CHANNEL_ID"})
		if err != nil {
			initErr = fmt.Errorf("failed to load LOG_CHANNEL_ID: %w", err)
			return
		}

		id, err := strconv.ParseInt(env["LOG_CHANNEL_ID"], 10, 64)
		if err != nil {
			initErr = fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
			return
		}

		mu.Lock()
		ChannelID = id
		botClient = client
		mu.Unlock()
	})

	return initErr
}

// SetLevel changes the local log level.
func SetLevel(level logrus.Level) {
	log.SetLevel(level)
}

func Info(message string) {
	log.Info(message)
	sendLog(logrus.InfoLevel, "ℹ️ INFO", message)
}

func Error(message string) {
	log.Error(message)
	sendLog(logrus.ErrorLevel, "❌ ERROR", message)
}

func Debug(message string) {
	log.Debug(message)
	sendLog(logrus.DebugLevel, "🔍 DEBUG", message)
}

func Success(message string) {
	log.WithField("status", "success").Info(message)
	sendLog(logrus.InfoLevel, "✅ SUCCESS", message)
}

func sendLog(level logrus.Level, prefix, message string) {
	if !log.IsLevelEnabled(level) {
		return
	}

	mu.RLock()
	client, channel := botClient, ChannelID
	mu.RUnlock()
	if client == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	go func() {
		if err := client.SendMessage(channel, logMessage); err != nil {
			log.WithError(err).Warn("failed to send log to channel")
		}
	}()
}

// LogWithErr logs message as info when err is nil and as an error
// otherwise. It returns err annotated with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))

	return e.Wrap(message, err)
}
