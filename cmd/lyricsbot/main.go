package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sukalov/lyricsync/internal/bot"
	"github.com/sukalov/lyricsync/internal/bot/admin"
	"github.com/sukalov/lyricsync/internal/db"
	"github.com/sukalov/lyricsync/internal/logger"
	"github.com/sukalov/lyricsync/internal/lyrics"
	"github.com/sukalov/lyricsync/internal/lyrics/fetch"
	"github.com/sukalov/lyricsync/internal/redis"
	"github.com/sukalov/lyricsync/internal/state"
	"github.com/sukalov/lyricsync/internal/utils"
)

func main() {
	debug := flag.Bool("debug", false, "Log debug messages")
	flag.Parse()
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	env, err := utils.LoadEnv([]string{"BOT_TOKEN"})
	if err != nil {
		log.Fatal("required env missing: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx); err != nil {
		log.Fatalf("failed to init database: %v", err)
	}
	defer db.Close()

	var (
		cache lyrics.Cache
		stats admin.ViewStats
	)
	if utils.GetEnv("REDIS_URL", "") != "" {
		redisCache, err := redis.NewCache()
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		cache, stats = redisCache, redisCache
	}

	service := lyrics.NewService(
		db.NewStore(db.Database),
		cache,
		fetch.NewClient(fetch.DefaultConfig()),
		state.NewStateManager(),
		utils.GetDuration("CACHE_TTL", 24*time.Hour),
	)

	lyricsBot, err := bot.New("lyricsbot", env["BOT_TOKEN"])
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}
	if err := logger.Init(lyricsBot); err != nil {
		log.Printf("log channel disabled: %v", err)
	}

	admin.SetupHandlers(ctx, lyricsBot, service, stats, adminUsernames())
	logger.Success(fmt.Sprintf("lyricsbot started, cache enabled: %t", cache != nil))

	<-ctx.Done()
	lyricsBot.Stop()
	logger.Info("lyricsbot stopped")
}

func adminUsernames() []string {
	var usernames []string
	for _, name := range strings.Split(utils.GetEnv("ADMIN_USERNAMES", ""), ",") {
		if name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "@")); name != "" {
			usernames = append(usernames, name)
		}
	}
	return usernames
}
