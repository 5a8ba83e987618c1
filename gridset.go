package geoid

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	missingGridCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geoid_missing_grid_cache_hits_total",
		Help: "The total number of hits on the missing grid cache",
	})
	missingGridCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geoid_missing_grid_cache_misses_total",
		Help: "The total number of misses on the missing grid cache",
	})
	gridCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geoid_grid_cache_hits_total",
		Help: "The total number of hits on the grid cache",
	})
	gridCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geoid_grid_cache_misses_total",
		Help: "The total number of misses on the grid cache",
	})
	gridCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geoid_grid_cache_evictions_total",
		Help: "The total number of evictions from the grid cache",
	})
)

// ErrUnsupportedFormat is returned when a grid's format cannot be determined
// from its filename.
var ErrUnsupportedFormat = errors.New("unsupported format")

// LoadGrid loads the grid called name from fsys. The format is determined by
// the extension: .grd and .asc are ASCII, .bin is binary, and .zst is
// zstd-compressed binary.
func LoadGrid(fsys fs.FS, name string) (*Grid, error) {
	var newGrid func(io.Reader) (*Grid, error)
	switch path.Ext(name) {
	case ".grd", ".asc":
		newGrid = NewGridFromASCII
	case ".bin":
		newGrid = NewGridFromBinary
	case ".zst":
		newGrid = NewGridFromCompressedBinary
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}

	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	grid, err := newGrid(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return grid, nil
}

// A GridSet is a set of named grids loaded lazily from a filesystem.
type GridSet struct {
	mutex     sync.Mutex
	fsys      fs.FS
	missing   sync.Map
	cacheSize int
	gridCache *lru.Cache[string, *Grid]
}

// A GridSetOption sets an option on a GridSet.
type GridSetOption func(*GridSet)

// NewGridSet returns a new GridSet with the given options.
func NewGridSet(options ...GridSetOption) (*GridSet, error) {
	s := &GridSet{
		cacheSize: 4,
	}
	for _, option := range options {
		option(s)
	}
	if s.fsys == nil {
		return nil, errors.New("no filesystem")
	}

	var err error
	s.gridCache, err = lru.NewWithEvict(s.cacheSize, func(string, *Grid) {
		gridCacheEvictions.Inc()
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func WithCacheSize(cacheSize int) GridSetOption {
	return func(s *GridSet) {
		s.cacheSize = cacheSize
	}
}

func WithFS(fsys fs.FS) GridSetOption {
	return func(s *GridSet) {
		s.fsys = fsys
	}
}

// Grid returns the grid called name. If there is no such file, it returns
// nil.
func (s *GridSet) Grid(name string) (*Grid, error) {
	if _, ok := s.missing.Load(name); ok {
		missingGridCacheHits.Inc()
		return nil, nil
	}

	if grid, ok := s.gridCache.Get(name); ok {
		gridCacheHits.Inc()
		return grid, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.missing.Load(name); ok {
		missingGridCacheHits.Inc()
		return nil, nil
	}

	if grid, ok := s.gridCache.Get(name); ok {
		gridCacheHits.Inc()
		return grid, nil
	}

	gridCacheMisses.Inc()

	switch grid, err := LoadGrid(s.fsys, name); {
	case errors.Is(err, fs.ErrNotExist):
		s.missing.Store(name, struct{}{})
		missingGridCacheMisses.Inc()
		return nil, nil
	case err != nil:
		return nil, err
	default:
		s.gridCache.Add(name, grid)
		return grid, nil
	}
}

// Heights returns the heights at coords, which are {lng, lat} pairs, using the
// grid called name. If there is no such grid, all heights are NaN.
func (s *GridSet) Heights(name string, coords [][]float64) ([]float64, error) {
	grid, err := s.Grid(name)
	if err != nil {
		return nil, err
	}
	if grid == nil {
		heights := make([]float64, len(coords))
		for i := range heights {
			heights[i] = math.NaN()
		}
		return heights, nil
	}
	return grid.Heights(coords), nil
}
