package geoid

import (
	"context"
	"fmt"

	"github.com/maypok86/otter/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twpayne/go-proj/v10"
)

const epsg4326 = "epsg:4326"

var serviceHeights = promauto.NewCounter(prometheus.CounterOpts{
	Name: "geoid_service_heights_total",
	Help: "The total number of heights returned by services",
})

// A Service returns geoid heights for coordinates in arbitrary coordinate
// reference systems.
type Service struct {
	geoid                Geoid
	transformerCacheSize int
	transformers         *otter.Cache[string, *proj.PJ]
}

// A ServiceOption sets an option on a Service.
type ServiceOption func(*Service)

// NewService returns a new Service that returns heights from geoid.
func NewService(geoid Geoid, options ...ServiceOption) (*Service, error) {
	s := &Service{
		geoid:                geoid,
		transformerCacheSize: 16,
	}
	for _, option := range options {
		option(s)
	}

	var err error
	s.transformers, err = otter.New(&otter.Options[string, *proj.PJ]{
		MaximumSize: s.transformerCacheSize,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// WithTransformerCacheSize sets the number of coordinate transformers that are
// cached.
func WithTransformerCacheSize(transformerCacheSize int) ServiceOption {
	return func(s *Service) {
		s.transformerCacheSize = transformerCacheSize
	}
}

// Heights returns the heights at coords, which are {lng, lat} pairs in
// EPSG:4326.
func (s *Service) Heights(coords [][]float64) []float64 {
	heights := make([]float64, len(coords))
	for i, coord := range coords {
		heights[i] = s.geoid.Height(coord[0], coord[1])
	}
	serviceHeights.Add(float64(len(heights)))
	return heights
}

// HeightsCRS returns the heights at coords, which are in crs using crs's axis
// order.
func (s *Service) HeightsCRS(ctx context.Context, crs string, coords [][]float64) ([]float64, error) {
	if crs == epsg4326 {
		coords4326 := cloneCoords(coords)
		flipCoords(coords4326)
		return s.Heights(coords4326), nil
	}
	pj, err := s.transformers.Get(ctx, crs, otter.LoaderFunc[string, *proj.PJ](newTransformerTo4326))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", crs, err)
	}
	coords4326 := cloneCoords(coords)
	if err := pj.ForwardFloat64Slices(coords4326); err != nil {
		return nil, err
	}
	flipCoords(coords4326)
	return s.Heights(coords4326), nil
}

// newTransformerTo4326 returns a transformer from crs to EPSG:4326.
func newTransformerTo4326(ctx context.Context, crs string) (*proj.PJ, error) {
	return proj.NewCRSToCRS(crs, epsg4326, nil)
}

func cloneCoords(coords [][]float64) [][]float64 {
	clonedCoordsFlat := make([]float64, 2*len(coords))
	clonedCoords := make([][]float64, len(coords))
	for i, coord := range coords {
		copy(clonedCoordsFlat[2*i:2*i+2], coord)
		clonedCoords[i] = clonedCoordsFlat[2*i : 2*i+2]
	}
	return clonedCoords
}

// flipCoords swaps the axes of coords, as EPSG:4326 is {lat, lng}.
func flipCoords(coords [][]float64) {
	for i, coord := range coords {
		coords[i][0], coords[i][1] = coord[1], coord[0]
	}
}
