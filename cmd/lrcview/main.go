package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/sukalov/lyricsync/internal/lrc"
	"gopkg.in/yaml.v3"
)

type options struct {
	at      string
	format  string
	spacing float64
}

func main() {
	var opts options

	flag.StringVar(&opts.at, "at", "", "Playback position (mm:ss.xx) to show focus and scroll state for")
	flag.StringVar(&opts.format, "format", "text", "Output format: text, json or yaml")
	flag.Float64Var(&opts.spacing, "spacing", 40, "Distance between line anchors for scroll targets")
	flag.Parse()

	args := flag.Args()
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file.lrc]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reads standard input when no file is given.\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var input io.Reader = os.Stdin
	if len(args) == 1 {
		file, err := os.Open(args[0])
		if err != nil {
			log.Fatalf("Error opening lyrics: %v", err)
		}
		defer file.Close()
		input = file
	}

	if err := run(input, os.Stdout, opts); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(input io.Reader, out io.Writer, opts options) error {
	tl := lrc.Parse(input)

	switch opts.format {
	case "json":
		data, err := json.MarshalIndent(tl, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(tl.Document()); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "text":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	if opts.at == "" {
		return writeTimeline(out, tl)
	}
	now, err := lrc.ParseTimestamp(opts.at)
	if err != nil {
		return fmt.Errorf("bad -at %q: %w", opts.at, err)
	}
	return writeFocus(out, tl, now, opts.spacing)
}

func writeTimeline(out io.Writer, tl *lrc.Timeline) error {
	mode := "unsynced"
	if tl.Synced() {
		mode = "synced"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d lines, %s\n", tl.Len(), mode)

	for _, line := range tl.Lines() {
		fmt.Fprintf(&sb, "[%s - %s] %s", line.Start, line.End, line.Vocal)
		if line.Background {
			sb.WriteString(" bg")
		}
		fmt.Fprintf(&sb, " %s\n", strings.TrimSpace(line.Text()))
		if line.WordSynced {
			for _, word := range line.Words {
				fmt.Fprintf(&sb, "    <%s> %q\n", word.Time, word.Text)
			}
		}
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func writeFocus(out io.Writer, tl *lrc.Timeline, now int64, spacing float64) error {
	lines := tl.Lines()
	anchors := make([]float64, len(lines))
	for i := range anchors {
		anchors[i] = float64(i) * spacing
	}
	targets := lrc.ScrollTargets(lines, anchors)
	active := lrc.ActiveIndex(lines, now)

	var sb strings.Builder
	fmt.Fprintf(&sb, "at %s, active line %d", lrc.FormatTimestamp(now), active)
	if pos, ok := lrc.ScrollPosition(lines, targets, now); ok {
		fmt.Fprintf(&sb, ", scroll %.1f", pos)
	}
	sb.WriteString("\n")

	for i, line := range lines {
		marker := " "
		if i == active {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s %3d focus=%.2f target=%.1f", marker, i, tl.FocusRatio(i, now), targets[i])
		if line.Contains(now) {
			sb.WriteString(" sung")
		}
		if line.Background {
			fmt.Fprintf(&sb, " fade=%.2f", lrc.BackgroundFade(line, now))
		}
		fmt.Fprintf(&sb, " %s\n", strings.TrimSpace(line.Text()))

		if i == active && line.WordSynced {
			for w, word := range line.Words {
				fmt.Fprintf(&sb, "        %3.0f%% %q\n", lrc.WordProgress(line, w, now)*100, word.Text)
			}
		}
	}

	_, err := io.WriteString(out, sb.String())
	return err
}
