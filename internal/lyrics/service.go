package lyrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sukalov/lyricsync/internal/db"
	"github.com/sukalov/lyricsync/internal/logger"
	"github.com/sukalov/lyricsync/internal/lrc"
	"github.com/sukalov/lyricsync/internal/redis"
	"github.com/sukalov/lyricsync/internal/state"
)

// ErrNotFound is returned when a song has no lyrics to show.
var ErrNotFound = errors.New("no lyrics for song")

// Store persists lyric sources.
type Store interface {
	Get(ctx context.Context, songID string) (db.Source, error)
	Put(ctx context.Context, src db.Source) error
	List(ctx context.Context) ([]string, error)
}

// Cache keeps parsed timelines between restarts.
type Cache interface {
	GetTimeline(ctx context.Context, key string) (*lrc.Timeline, error)
	SetTimeline(ctx context.Context, key string, tl *lrc.Timeline, ttl time.Duration) error
}

// Fetcher downloads lyric text from a page.
type Fetcher interface {
	FetchLyrics(ctx context.Context, url string) (string, error)
}

// Service resolves the timeline of a song from the store, the cache and
// remote pages, and keeps the latest one per song in a StateManager.
type Service struct {
	store   Store
	cache   Cache
	fetcher Fetcher
	states  *state.StateManager
	ttl     time.Duration
}

// NewService creates a service. cache and fetcher may be nil.
func NewService(store Store, cache Cache, fetcher Fetcher, states *state.StateManager, ttl time.Duration) *Service {
	if states == nil {
		states = state.NewStateManager()
	}
	return &Service{
		store:   store,
		cache:   cache,
		fetcher: fetcher,
		states:  states,
		ttl:     ttl,
	}
}

// Current returns the timeline last adopted for songID without loading.
func (s *Service) Current(songID string) *lrc.Timeline {
	return s.states.Current(songID)
}

// Timeline returns the adopted timeline of songID, loading it on first use.
// While a load for the song is running it waits for that load instead of
// starting another.
func (s *Service) Timeline(ctx context.Context, songID string) (*lrc.Timeline, error) {
	if tl := s.states.Current(songID); tl != nil {
		return tl, nil
	}
	if s.states.Pending(songID) {
		if tl, err := s.states.Await(ctx, songID); err == nil && tl != nil {
			return tl, nil
		}
	}
	return s.Load(ctx, songID)
}

// Load reads the source of songID and adopts its timeline, replacing any
// timeline held before. When a newer load of the same song supersedes this
// one, the newer result is returned.
func (s *Service) Load(ctx context.Context, songID string) (*lrc.Timeline, error) {
	logger.Debug(fmt.Sprintf("Load called for song %s", songID))

	src, err := s.source(ctx, songID)
	if err != nil {
		return nil, err
	}

	s.states.Request(ctx, songID, func(ctx context.Context) (*lrc.Timeline, error) {
		return s.timeline(ctx, src)
	})
	tl, err := s.states.Await(ctx, songID)
	if err != nil {
		return nil, fmt.Errorf("load song %s: %w", songID, err)
	}
	if tl == nil {
		return nil, fmt.Errorf("load song %s: %w", songID, state.ErrSuperseded)
	}
	return tl, nil
}

// Save stores lrcText for songID and adopts the new timeline.
func (s *Service) Save(ctx context.Context, songID, title, lrcText string) (*lrc.Timeline, error) {
	src := db.Source{
		SongID:    songID,
		Title:     sql.NullString{String: title, Valid: title != ""},
		LRC:       lrcText,
		UpdatedAt: time.Now(),
	}
	if old, err := s.store.Get(ctx, songID); err == nil {
		src.URL = old.URL
		if !src.Title.Valid {
			src.Title = old.Title
		}
	}

	if err := s.store.Put(ctx, src); err != nil {
		return nil, logger.LogWithErr(fmt.Sprintf("failed to save lyrics for song %s", songID), err)
	}
	logger.Success(fmt.Sprintf("saved lyrics for song %s (%d chars)", songID, len(lrcText)))

	tl, err := s.timeline(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load song %s: %w", songID, err)
	}
	s.states.Adopt(songID, tl)
	return tl, nil
}

// Reload re-reads songID from the store. A song that no longer has lyrics
// is dropped from memory.
func (s *Service) Reload(ctx context.Context, songID string) (*lrc.Timeline, error) {
	tl, err := s.Load(ctx, songID)
	if errors.Is(err, ErrNotFound) {
		s.states.Forget(songID)
	}
	return tl, err
}

// SongStatus tells whether a stored song has a timeline in memory.
type SongStatus struct {
	SongID string
	Loaded bool
}

// Songs lists the stored songs, most recently updated first.
func (s *Service) Songs(ctx context.Context) ([]SongStatus, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, logger.LogWithErr("failed to list songs", err)
	}

	loaded := make(map[string]bool)
	for _, id := range s.states.Keys() {
		loaded[id] = true
	}

	songs := make([]SongStatus, len(ids))
	for i, id := range ids {
		songs[i] = SongStatus{SongID: id, Loaded: loaded[id]}
	}
	return songs, nil
}

// Import registers url as the lyric page of songID, fetches it and adopts
// the resulting timeline.
func (s *Service) Import(ctx context.Context, songID, title, url string) (*lrc.Timeline, error) {
	src := db.Source{
		SongID:    songID,
		Title:     sql.NullString{String: title, Valid: title != ""},
		URL:       sql.NullString{String: url, Valid: url != ""},
		UpdatedAt: time.Now(),
	}
	if err := s.store.Put(ctx, src); err != nil {
		return nil, logger.LogWithErr(fmt.Sprintf("failed to register %s for song %s", url, songID), err)
	}
	return s.Load(ctx, songID)
}

// source loads the stored source, fetching and saving the text first when
// only a page URL is known.
func (s *Service) source(ctx context.Context, songID string) (db.Source, error) {
	src, err := s.store.Get(ctx, songID)
	if errors.Is(err, db.ErrNotFound) {
		return db.Source{}, fmt.Errorf("song %s: %w", songID, ErrNotFound)
	}
	if err != nil {
		return db.Source{}, logger.LogWithErr(fmt.Sprintf("failed to read lyrics for song %s", songID), err)
	}
	if strings.TrimSpace(src.LRC) != "" {
		return src, nil
	}

	if !src.URL.Valid || s.fetcher == nil {
		return db.Source{}, fmt.Errorf("song %s: %w", songID, ErrNotFound)
	}

	text, err := s.fetcher.FetchLyrics(ctx, src.URL.String)
	if err != nil {
		return db.Source{}, logger.LogWithErr(fmt.Sprintf("failed to fetch lyrics for song %s from %s", songID, src.URL.String), err)
	}
	src.LRC = text
	src.UpdatedAt = time.Now()
	if err := s.store.Put(ctx, src); err != nil {
		logger.Error(fmt.Sprintf("failed to store fetched lyrics for song %s\nError: %v", songID, err))
	}
	return src, nil
}

// timeline parses src, going through the cache when one is configured.
// Cache failures only cost a parse.
func (s *Service) timeline(ctx context.Context, src db.Source) (*lrc.Timeline, error) {
	key := redis.Key(src.SongID, src.LRC)

	if s.cache != nil {
		tl, err := s.cache.GetTimeline(ctx, key)
		if err == nil {
			logger.Debug(fmt.Sprintf("timeline cache hit for song %s", src.SongID))
			return tl, nil
		}
		if !errors.Is(err, redis.ErrMiss) {
			logger.Error(fmt.Sprintf("timeline cache read failed for song %s\nError: %v", src.SongID, err))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tl := lrc.ParseString(src.LRC)
	logger.Debug(fmt.Sprintf("parsed song %s: %d lines, synced %v", src.SongID, tl.Len(), tl.Synced()))

	if s.cache != nil {
		if err := s.cache.SetTimeline(ctx, key, tl, s.ttl); err != nil {
			logger.Error(fmt.Sprintf("timeline cache write failed for song %s\nError: %v", src.SongID, err))
		}
	}
	return tl, nil
}
