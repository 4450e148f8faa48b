package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    string
		wantErr error
	}{
		{
			name: "chords block",
			html: `<html><body><div class="menu">skip me</div><pre itemprop="chordsBlock">  Line one
|  |
Line two



/* author note */
Line three</pre></body></html>`,
			want: "Line one\nLine two\n\nLine three",
		},
		{
			name: "line breaks and word timings",
			html: `<div class="lyrics">[00:01.00]<00:01.00>a<br>[00:02.00]b<br/><script>var x;</script></div>`,
			want: "[00:01.00]<00:01.00>a\n[00:02.00]b",
		},
		{
			name: "first non-empty selector wins",
			html: `<pre class="lyrics">   </pre><pre>fallback</pre>`,
			want: "fallback",
		},
		{
			name:    "nothing to extract",
			html:    `<html><body><p>just prose</p></body></html>`,
			wantErr: ErrNoLyrics,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractText(tc.html, DefaultConfig())
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v; want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q\nwant %q", got, tc.want)
			}
		})
	}
}

func TestCleanLines_MaxBlank(t *testing.T) {
	in := "a\r\n\r\n\r\n\r\nb\rc"
	if got := cleanLines(in, 2); got != "a\n\n\nb\nc" {
		t.Errorf("got %q", got)
	}
	if got := cleanLines(in, 0); got != "a\nb\nc" {
		t.Errorf("got %q", got)
	}
}

func TestClient_FetchLyrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/song.lrc":
			fmt.Fprint(w, "[00:01.00]hello\r\n[00:02.00]world\r\n")
		case "/page":
			fmt.Fprint(w, `<html><body><pre class="lyrics">[00:01.00]from page</pre></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(DefaultConfig())
	ctx := context.Background()

	got, err := c.FetchLyrics(ctx, srv.URL+"/song.lrc")
	if err != nil {
		t.Fatalf("lrc: %v", err)
	}
	if got != "[00:01.00]hello\n[00:02.00]world\n" {
		t.Errorf("lrc = %q", got)
	}

	got, err = c.FetchLyrics(ctx, srv.URL+"/page")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if got != "[00:01.00]from page" {
		t.Errorf("page = %q", got)
	}

	if _, err := c.FetchLyrics(ctx, srv.URL+"/missing"); err == nil {
		t.Error("expected an error for a 404")
	}
}
