package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "recorded wave field, as written by waver run -o")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	fs := readCSV(csvFile)
	fmt.Printf("Steps = %d, Cells = %d, Final time = %v\n", fs.nsteps, len(fs.sumSq), fs.tMax)
	for j := range fs.sumSq {
		fmt.Printf("cell%d, RMS = %v, MAX = %v\n", j, fs.RMS(j), fs.max[j])
	}
	cell, step, peak := fs.Peak()
	fmt.Printf("peak |u| = %v at cell %d, step %d\n", peak, cell, step)
}

type FieldStats struct {
	nsteps  int
	tMax    float64
	sumSq   []float64
	max     []float64
	maxStep []int
}

func NewFieldStats(ncells int) *FieldStats {
	return &FieldStats{
		sumSq:   make([]float64, ncells),
		max:     make([]float64, ncells),
		maxStep: make([]int, ncells),
	}
}

func (fs *FieldStats) Add(step int, t float64, u []float64) {
	fs.nsteps++
	if t > fs.tMax {
		fs.tMax = t
	}
	for j, v := range u {
		fs.sumSq[j] += v * v
		if a := math.Abs(v); a > fs.max[j] {
			fs.max[j] = a
			fs.maxStep[j] = step
		}
	}
}

func (fs *FieldStats) RMS(j int) float64 {
	if fs.nsteps == 0 {
		return 0
	}
	return math.Sqrt(fs.sumSq[j] / float64(fs.nsteps))
}

func (fs *FieldStats) Peak() (cell, step int, peak float64) {
	for j, a := range fs.max {
		if a > peak {
			peak, cell, step = a, j, fs.maxStep[j]
		}
	}
	return
}

func readCSV(csvFile string) (fs *FieldStats) {
	var (
		records [][]string
		err     error
		f       *os.File
		t, v    float64
	)
	if f, err = os.Open(csvFile); err != nil {
		panic(err)
	}
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 { // header: step, t, cell0...
			fs = NewFieldStats(len(rec) - 2)
			continue
		}
		step, _ := strconv.Atoi(rec[0])
		_, _ = fmt.Sscanf(rec[1], "%f", &t)
		u := make([]float64, len(rec)-2)
		for j, vtxt := range rec[2:] {
			_, _ = fmt.Sscanf(vtxt, "%f", &v)
			u[j] = v
		}
		fs.Add(step, t, u)
	}
	return
}
