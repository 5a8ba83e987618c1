package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/twpayne/go-geoid"
)

func run() error {
	gridPath := flag.String("grid", os.Getenv("GEOID_GRID"), "path to grid (.grd, .bin, or .bin.zst)")
	crs := flag.String("crs", "", "CRS of the coordinates, default lat/lng")
	convert := flag.String("convert", "", "write the grid as compressed binary to this file and exit")
	printStats := flag.Bool("stats", false, "print grid statistics and exit")
	flag.Parse()

	var grid *geoid.Grid
	var err error
	if *gridPath == "" {
		grid, err = geoid.NewEGM96(os.DirFS("."))
	} else {
		grid, err = geoid.LoadGrid(os.DirFS(filepath.Dir(*gridPath)), filepath.Base(*gridPath))
	}
	if err != nil {
		return err
	}

	switch {
	case *convert != "":
		return writeCompressedBinary(grid, *convert)
	case *printStats:
		return writeStats(grid)
	}

	if flag.NArg() != 2 {
		return errors.New("syntax: geoid latitude longitude")
	}
	a, err := strconv.ParseFloat(flag.Arg(0), 64)
	if err != nil {
		return err
	}
	b, err := strconv.ParseFloat(flag.Arg(1), 64)
	if err != nil {
		return err
	}

	var heights []float64
	if *crs == "" {
		heights = grid.Heights([][]float64{{b, a}})
	} else {
		service, err := geoid.NewService(grid)
		if err != nil {
			return err
		}
		heights, err = service.HeightsCRS(context.Background(), *crs, [][]float64{{a, b}})
		if err != nil {
			return err
		}
	}
	fmt.Println(heights[0])

	return nil
}

func writeCompressedBinary(grid *geoid.Grid, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()
	return grid.WriteCompressedBinary(file)
}

func writeStats(grid *geoid.Grid) error {
	info := grid.Info()
	heights := make([]float64, 0, info.Len())
	for y := range info.YCount {
		for x := range info.XCount {
			heights = append(heights, grid.Sample(geoid.Coord{X: x, Y: y}))
		}
	}
	mean, stdDev := stat.MeanStdDev(heights, nil)
	_, err := fmt.Printf("samples: %dx%d\nmin: %.3f\nmax: %.3f\nmean: %.3f\nstddev: %.3f\n",
		info.XCount, info.YCount, floats.Min(heights), floats.Max(heights), mean, stdDev)
	return err
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
