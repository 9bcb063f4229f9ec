package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mmcdole/holocron/internal/catalog"
)

const (
	maxSearchLength = 100
	maxPageSize     = 100
)

var yearPattern = regexp.MustCompile(`^\d{1,4}$`)

// intParam parses an optional integer query parameter
func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: must be an integer", name)
	}
	return n, nil
}

// filmsQuery holds the parameters of GET /api/films
type filmsQuery struct {
	Search   string `json:"search"`
	Director string `json:"director"`
	Producer string `json:"producer"`
	Year     string `json:"year"`
	Sort     string `json:"sort"`
	Dir      string `json:"dir"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// parseFilmsQuery reads the list parameters. defaultPageSize applies when
// page_size is absent; an explicit page_size=0 returns every film.
func parseFilmsQuery(q url.Values, defaultPageSize int) (filmsQuery, error) {
	fq := filmsQuery{
		Search:   q.Get("search"),
		Director: q.Get("director"),
		Producer: q.Get("producer"),
		Year:     q.Get("year"),
		Sort:     q.Get("sort"),
		Dir:      q.Get("dir"),
	}
	if fq.Sort == "" {
		fq.Sort = string(catalog.DefaultSort().Key)
	}
	var err error
	if fq.Page, err = intParam(q, "page", 1); err != nil {
		return fq, err
	}
	if fq.PageSize, err = intParam(q, "page_size", defaultPageSize); err != nil {
		return fq, err
	}
	return fq, fq.Validate()
}

func sortKeyValues() []any {
	keys := append(catalog.SortKeys(), catalog.SortCharacters)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

// Validate checks the query parameters
func (q filmsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Search, validation.RuneLength(0, maxSearchLength)),
		validation.Field(&q.Director, validation.RuneLength(0, maxSearchLength)),
		validation.Field(&q.Producer, validation.RuneLength(0, maxSearchLength)),
		validation.Field(&q.Year, validation.Match(yearPattern)),
		validation.Field(&q.Sort, validation.In(sortKeyValues()...)),
		validation.Field(&q.Dir, validation.In(string(catalog.Asc), string(catalog.Desc))),
		validation.Field(&q.Page, validation.Min(1)),
		validation.Field(&q.PageSize, validation.Min(0), validation.Max(maxPageSize)),
	)
}

func (q filmsQuery) filters() catalog.FilterSet {
	return catalog.FilterSet{
		catalog.FilterSearch:   q.Search,
		catalog.FilterDirector: q.Director,
		catalog.FilterProducer: q.Producer,
		catalog.FilterYear:     q.Year,
	}
}

func (q filmsQuery) sortSpec() catalog.SortSpec {
	dir, _ := catalog.ParseDirection(q.Dir)
	return catalog.SortSpec{Key: catalog.SortKey(q.Sort), Direction: dir}
}

// windowQuery holds the parameters of GET /api/window
type windowQuery struct {
	Count           int `json:"count"`
	ItemHeight      int `json:"item_height"`
	ContainerHeight int `json:"container_height"`
	Scroll          int `json:"scroll"`
	Overscan        int `json:"overscan"`
}

func parseWindowQuery(q url.Values, defaultItemHeight, defaultOverscan int) (windowQuery, error) {
	var wq windowQuery
	var err error
	if wq.Count, err = intParam(q, "count", 0); err != nil {
		return wq, err
	}
	if wq.ItemHeight, err = intParam(q, "item_height", defaultItemHeight); err != nil {
		return wq, err
	}
	if wq.ContainerHeight, err = intParam(q, "container_height", 0); err != nil {
		return wq, err
	}
	if wq.Scroll, err = intParam(q, "scroll", 0); err != nil {
		return wq, err
	}
	if wq.Overscan, err = intParam(q, "overscan", defaultOverscan); err != nil {
		return wq, err
	}
	return wq, wq.Validate()
}

// Validate checks the query parameters
func (q windowQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Count, validation.Min(0), validation.Max(1_000_000)),
		validation.Field(&q.ItemHeight, validation.Required, validation.Min(1)),
		validation.Field(&q.ContainerHeight, validation.Min(0)),
		validation.Field(&q.Overscan, validation.Min(0), validation.Max(1000)),
	)
}

// suggestQuery holds the parameters of GET /api/suggest
type suggestQuery struct {
	Q     string `json:"q"`
	Limit int    `json:"limit"`
}

func parseSuggestQuery(q url.Values) (suggestQuery, error) {
	sq := suggestQuery{Q: q.Get("q")}
	var err error
	if sq.Limit, err = intParam(q, "limit", 10); err != nil {
		return sq, err
	}
	return sq, sq.Validate()
}

// Validate checks the query parameters
func (q suggestQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Q, validation.Required, validation.RuneLength(1, maxSearchLength)),
		validation.Field(&q.Limit, validation.Min(1), validation.Max(50)),
	)
}
