package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/holocron/internal/domain"
)

// Bucket names
var (
	bucketFilms   = []byte("films")
	bucketRelated = []byte("related")
	bucketMeta    = []byte("meta")

	allBuckets = [][]byte{bucketFilms, bucketRelated, bucketMeta}
)

// Keys
const (
	keyFilmList = "films:list"
	keyFilmsTS  = "films:ts"
)

func filmKey(id string) string { return "film:" + id }

func relatedKey(kind domain.RelatedKind, id string) string {
	return string(kind) + ":" + id
}

// HitObserver is told about every lookup outcome, keyed by bucket
type HitObserver func(bucket string, hit bool)

// FilmStore implements domain.Store using BoltDB.
type FilmStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte

	observe HitObserver
	now     func() time.Time
}

// NewFilmStore opens the cache under baseCacheDir, namespaced by the
// source URL so switching APIs never mixes data. An empty dir keeps
// everything in memory.
func NewFilmStore(baseCacheDir, sourceURL string) (*FilmStore, error) {
	s := &FilmStore{
		cache:   make(map[string][]byte),
		observe: func(string, bool) {},
		now:     time.Now,
	}
	if baseCacheDir == "" {
		return s, nil
	}

	dir := baseCacheDir
	if sourceURL != "" {
		dir = filepath.Join(baseCacheDir, hashSourceURL(sourceURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "holocron.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// SetObserver installs a cache hit/miss hook
func (s *FilmStore) SetObserver(fn HitObserver) {
	if fn == nil {
		fn = func(string, bool) {}
	}
	s.observe = fn
}

func hashSourceURL(sourceURL string) string {
	normalized := strings.TrimRight(strings.ToLower(sourceURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *FilmStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *FilmStore) get(bucket []byte, key string, dest any) bool {
	ok := s.lookup(bucket, key, dest)
	s.observe(string(bucket), ok)
	return ok
}

func (s *FilmStore) lookup(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + "/" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *FilmStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[string(bucket)+"/"+key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *FilmStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+"/"+key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *FilmStore) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + "/" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		// Collect first: deleting under a live cursor skips entries
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Films ===

func (s *FilmStore) GetFilms() ([]domain.Film, bool) {
	var films []domain.Film
	ok := s.get(bucketFilms, keyFilmList, &films)
	return films, ok
}

// SaveFilms stores the list, each film individually, and the fetch time
func (s *FilmStore) SaveFilms(films []domain.Film) error {
	if err := s.set(bucketFilms, keyFilmList, films); err != nil {
		return err
	}
	for _, f := range films {
		if err := s.SaveFilm(f); err != nil {
			return err
		}
	}
	return s.set(bucketMeta, keyFilmsTS, s.now().UnixNano())
}

func (s *FilmStore) GetFilm(id string) (*domain.Film, bool) {
	var film domain.Film
	if !s.get(bucketFilms, filmKey(id), &film) {
		return nil, false
	}
	return &film, true
}

func (s *FilmStore) SaveFilm(film domain.Film) error {
	if film.ID == "" {
		return fmt.Errorf("film %q has no id", film.Title)
	}
	return s.set(bucketFilms, filmKey(film.ID), film)
}

// === Related entities ===

func (s *FilmStore) GetCharacter(id string) (*domain.Character, bool) {
	var c domain.Character
	if !s.get(bucketRelated, relatedKey(domain.KindCharacter, id), &c) {
		return nil, false
	}
	return &c, true
}

func (s *FilmStore) SaveCharacter(c domain.Character) error {
	return s.set(bucketRelated, relatedKey(domain.KindCharacter, c.ID), c)
}

func (s *FilmStore) GetPlanet(id string) (*domain.Planet, bool) {
	var p domain.Planet
	if !s.get(bucketRelated, relatedKey(domain.KindPlanet, id), &p) {
		return nil, false
	}
	return &p, true
}

func (s *FilmStore) SavePlanet(p domain.Planet) error {
	return s.set(bucketRelated, relatedKey(domain.KindPlanet, p.ID), p)
}

func (s *FilmStore) GetStarship(id string) (*domain.Starship, bool) {
	var st domain.Starship
	if !s.get(bucketRelated, relatedKey(domain.KindStarship, id), &st) {
		return nil, false
	}
	return &st, true
}

func (s *FilmStore) SaveStarship(st domain.Starship) error {
	return s.set(bucketRelated, relatedKey(domain.KindStarship, st.ID), st)
}

// === Freshness ===

func (s *FilmStore) FilmsFetchedAt() (time.Time, bool) {
	var ts int64
	if !s.lookup(bucketMeta, keyFilmsTS, &ts) {
		return time.Time{}, false
	}
	return time.Unix(0, ts), true
}

// === Tag invalidation ===

// InvalidateFilms drops the list, every film and the fetch time
func (s *FilmStore) InvalidateFilms() {
	s.delete(bucketFilms, keyFilmList)
	s.deletePrefix(bucketFilms, "film:")
	s.delete(bucketMeta, keyFilmsTS)
}

// InvalidateFilm drops one film and the list that contains it
func (s *FilmStore) InvalidateFilm(id string) {
	s.delete(bucketFilms, filmKey(id))
	s.delete(bucketFilms, keyFilmList)
	s.delete(bucketMeta, keyFilmsTS)
}

// InvalidateKind drops every cached entity of one related kind
func (s *FilmStore) InvalidateKind(kind domain.RelatedKind) {
	s.deletePrefix(bucketRelated, string(kind)+":")
}

func (s *FilmStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if tx.Bucket(bucket) != nil {
				if err := tx.DeleteBucket(bucket); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ domain.Store = (*FilmStore)(nil)
