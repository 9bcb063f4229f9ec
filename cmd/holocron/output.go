package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/mmcdole/holocron/internal/api"
	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatText  outputFormat = "text"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"

	defaultWidth = 100
	narrowWidth  = 80
)

func parseFormat(s string, def outputFormat) (outputFormat, error) {
	if s == "" {
		return def, nil
	}
	f := outputFormat(strings.ToLower(s))
	switch f {
	case def, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// terminalWidth returns stdout's width, or a default when it is not a terminal
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func writeFilms(w io.Writer, format outputFormat, films []domain.Film, width int) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewFilmListJSON(films))
	case formatYAML:
		return writeYAML(w, api.NewFilmListJSON(films))
	default:
		return writeTable(w, films, width)
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeTable lays films out in the same columns as the browser
func writeTable(w io.Writer, films []domain.Film, width int) error {
	cols := catalog.VisibleColumns(catalog.DefaultColumns(), width < narrowWidth)
	// One space between columns
	widths := catalog.Widths(cols, width-(len(cols)-1))

	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = styles.Pad(styles.Truncate(c.Label, widths[i]), widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " ")); err != nil {
		return err
	}

	for _, f := range films {
		for i, c := range cols {
			cells[i] = styles.Pad(styles.Truncate(c.Value(f), widths[i]), widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d films\n", len(films))
	return err
}

// filmDetail is the json/yaml shape of `show`
type filmDetail struct {
	api.FilmJSON `yaml:",inline"`
	Characters   []string `json:"characters" yaml:"characters"`
	Planets      []string `json:"planets" yaml:"planets"`
	Starships    []string `json:"starships" yaml:"starships"`
}

func newFilmDetail(f domain.Film, rel domain.Related) filmDetail {
	d := filmDetail{FilmJSON: api.NewFilmJSON(f, true)}
	for _, c := range rel.Characters {
		d.Characters = append(d.Characters, c.Name)
	}
	for _, p := range rel.Planets {
		d.Planets = append(d.Planets, p.Name)
	}
	for _, s := range rel.Starships {
		d.Starships = append(d.Starships, s.Name)
	}
	return d
}

func writeFilm(w io.Writer, format outputFormat, f domain.Film, rel domain.Related) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newFilmDetail(f, rel))
	case formatYAML:
		return writeYAML(w, newFilmDetail(f, rel))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", f.Title)
	fmt.Fprintf(&b, "%s · %s\n\n", f.EpisodeLabel(), catalog.FormatYear(f.ReleaseDate))
	fmt.Fprintf(&b, "Director:  %s\n", f.Director)
	fmt.Fprintf(&b, "Producer:  %s\n", f.Producer)
	fmt.Fprintf(&b, "Released:  %s\n", catalog.FormatDate(f.ReleaseDate))
	if crawl := strings.TrimSpace(strings.ReplaceAll(f.OpeningCrawl, "\r\n", "\n")); crawl != "" {
		fmt.Fprintf(&b, "\n%s\n", crawl)
	}

	d := newFilmDetail(f, rel)
	section := func(label string, names []string, total int) {
		fmt.Fprintf(&b, "\n%s (%d/%d)\n", label, len(names), total)
		for _, n := range names {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}
	section("Characters", d.Characters, len(f.Characters))
	section("Planets", d.Planets, len(f.Planets))
	section("Starships", d.Starships, len(f.Starships))

	_, err := io.WriteString(w, b.String())
	return err
}
