package catalog

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmcdole/holocron/internal/domain"
)

// SortKey names a film field that can be sorted on
type SortKey string

const (
	SortTitle       SortKey = "title"
	SortEpisode     SortKey = "episode_id"
	SortDirector    SortKey = "director"
	SortProducer    SortKey = "producer"
	SortReleaseDate SortKey = "release_date"
	SortCharacters  SortKey = "characters"
)

// SortKeys returns the keys offered to the user, in display order
func SortKeys() []SortKey {
	return []SortKey{SortEpisode, SortTitle, SortDirector, SortProducer, SortReleaseDate}
}

// String returns the display name for the sort key
func (k SortKey) String() string {
	switch k {
	case SortTitle:
		return "Title"
	case SortEpisode:
		return "Episode"
	case SortDirector:
		return "Director"
	case SortProducer:
		return "Producer"
	case SortReleaseDate:
		return "Release Date"
	case SortCharacters:
		return "Characters"
	default:
		return string(k)
	}
}

// Direction represents sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// ParseDirection accepts "asc"/"desc"; anything else is an error
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), nil
	case "":
		return Asc, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// SortSpec is the active sort field and direction
type SortSpec struct {
	Key       SortKey
	Direction Direction
}

// DefaultSort is the initial sort: title A-Z
func DefaultSort() SortSpec {
	return SortSpec{Key: SortTitle, Direction: Asc}
}

// fieldValue is a sortable field: exactly one of str/num is meaningful
type fieldValue struct {
	str   string
	num   int
	isNum bool
	ok    bool
}

func field(f domain.Film, key SortKey) fieldValue {
	switch key {
	case SortTitle:
		return fieldValue{str: f.Title, ok: true}
	case SortDirector:
		return fieldValue{str: f.Director, ok: true}
	case SortProducer:
		return fieldValue{str: f.Producer, ok: true}
	case SortReleaseDate:
		return fieldValue{str: f.ReleaseDate, ok: true}
	case SortEpisode:
		return fieldValue{num: f.EpisodeID, isNum: true, ok: true}
	case SortCharacters:
		return fieldValue{num: len(f.Characters), isNum: true, ok: true}
	default:
		return fieldValue{}
	}
}

// Sort returns a new slice holding films ordered by spec.
// The input is never mutated. Unknown keys leave the order unchanged.
func Sort(films []domain.Film, spec SortSpec) []domain.Film {
	sorted := slices.Clone(films)
	if sorted == nil {
		sorted = []domain.Film{}
	}

	// Collators keep internal buffers; one per call keeps Sort reentrant.
	coll := collate.New(language.English)

	slices.SortStableFunc(sorted, func(a, b domain.Film) int {
		c := compare(coll, field(a, spec.Key), field(b, spec.Key))
		if spec.Direction == Desc {
			return -c
		}
		return c
	})
	return sorted
}

func compare(coll *collate.Collator, a, b fieldValue) int {
	if !a.ok || !b.ok || a.isNum != b.isNum {
		return 0
	}
	if a.isNum {
		return a.num - b.num
	}
	return coll.CompareString(a.str, b.str)
}
