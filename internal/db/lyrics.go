package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sukalov/lyricsync/internal/utils/e"
)

// ErrNotFound is returned when no lyric source is stored for a song.
var ErrNotFound = errors.New("lyrics not found")

// Source is the raw lyric text stored for a song. URL points to the page
// the text can be fetched from when LRC is still empty.
type Source struct {
	SongID    string
	Title     sql.NullString
	URL       sql.NullString
	LRC       string
	UpdatedAt time.Time
}

// Store keeps lyric sources in the lyrics table.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) *Store {
	return &Store{db: database}
}

func (s *Store) Get(ctx context.Context, songID string) (Source, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT song_id, title, url, lrc, updated_at FROM lyrics WHERE song_id = ?`
	var src Source
	err := s.db.QueryRowContext(ctx, query, songID).Scan(&src.SongID, &src.Title, &src.URL, &src.LRC, &src.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Source{}, fmt.Errorf("song %s: %w", songID, ErrNotFound)
	}
	if err != nil {
		return Source{}, fmt.Errorf("failed to query lyrics for song %s: %w", songID, err)
	}
	return src, nil
}

// Put inserts or replaces the source for src.SongID.
func (s *Store) Put(ctx context.Context, src Source) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if src.UpdatedAt.IsZero() {
		src.UpdatedAt = time.Now()
	}

	query := `
		INSERT INTO lyrics (song_id, title, url, lrc, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(song_id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			lrc = excluded.lrc,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, src.SongID, src.Title, src.URL, src.LRC, src.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save lyrics for song %s: %w", src.SongID, err)
	}
	return nil
}

// List returns the ids of all stored songs, most recently updated first.
func (s *Store) List(ctx context.Context) (ids []string, err error) {
	defer e.WrapIfErr("failed to list lyrics", &err)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT song_id FROM lyrics ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
