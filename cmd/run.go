/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/profile"

	"github.com/neuromusic/waver/scenario"
	"github.com/neuromusic/waver/utils"
	"github.com/neuromusic/waver/wave"

	"github.com/spf13/cobra"
)

type RunOptions struct {
	ScenarioFile string
	OutputFile   string
	Graph        bool
	GraphDelay   time.Duration
	LogFrequency int
	Parallel     int
	Profile      bool
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a wave simulation described by a scenario file",
	Long: `Run reads a YAML scenario file, derives a stable time step for the
grid it describes, advances the field over the requested duration and
records every frame. The recorded field can be written to a CSV file
or, for one dimensional grids, displayed as a live graph.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("run called")
		var (
			err error
		)
		ro := &RunOptions{}
		if ro.ScenarioFile, err = cmd.Flags().GetString("scenarioFile"); err != nil {
			panic(err)
		}
		ro.OutputFile, _ = cmd.Flags().GetString("output")
		ro.Graph, _ = cmd.Flags().GetBool("graph")
		dms, _ := cmd.Flags().GetInt("delay")
		ro.GraphDelay = time.Duration(dms) * time.Millisecond
		ro.LogFrequency, _ = cmd.Flags().GetInt("frequency")
		ro.Parallel, _ = cmd.Flags().GetInt("parallel")
		ro.Profile, _ = cmd.Flags().GetBool("profile")
		params := processScenario(ro.ScenarioFile)
		RunScenario(ro, params)
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("scenarioFile", "I", "", "input scenario file (YAML)")
	RunCmd.Flags().StringP("output", "o", "", "write the recorded wave field to a CSV file")
	RunCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	RunCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	RunCmd.Flags().IntP("parallel", "p", 0, "number of partitions for the threaded field update")
	RunCmd.Flags().IntP("frequency", "f", 0, "progress print frequency in steps, overriding the scenario")
	RunCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
}

func processScenario(path string) (params *scenario.Parameters) {
	var (
		err  error
		data []byte
	)
	if len(path) == 0 {
		err = fmt.Errorf("must supply a scenario file (-I, --scenarioFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Point Source"
Size: [10.0]
Spacing: 1.0
Speed: 2000000.0
Duration: 1.0e-5
Source:
  Location: [3.0]
  Frequency: 100000.0
  NCycles: 3
Boundaries:
  - [PML, PML]
LogFrequency: 5
########################################
`
		fmt.Printf("Example File Contents:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(path); err != nil {
		panic(err)
	}
	params = &scenario.Parameters{}
	if err = params.Parse(data); err != nil {
		panic(err)
	}
	return
}

func RunScenario(ro *RunOptions, params *scenario.Parameters) {
	var (
		err error
	)
	if ro.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	params.Print()
	if ro.LogFrequency > 0 {
		params.LogFrequency = ro.LogFrequency
	}
	s, err := params.Build()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("dt = %8.5g, Nsteps = %d, cells = %d\n",
		s.Time.Step, s.Time.NSteps, s.Grid.NCells())
	update := wave.SnapshotUpdate
	if ro.Parallel > 1 {
		update = wave.SnapshotUpdateParallel(ro.Parallel)
	}
	if ro.Graph {
		if s.Grid.NDim() == 1 {
			update = graphUpdate(update, s.Grid, ro.GraphDelay)
		} else {
			fmt.Println("graphing is limited to one dimensional grids")
		}
	}
	s.SetUpdate(update)
	// Ctrl-C cancels the run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	start := time.Now()
	if err = s.RunContext(ctx); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	elapsed := time.Since(start)
	fmt.Printf("completed %d steps in %v\n", s.Time.NSteps, elapsed)
	fmt.Println(utils.GetMemUsage())
	W, err := s.Wave()
	if err != nil {
		panic(err)
	}
	fmt.Printf("field min = %8.5g, max = %8.5g\n", W.Min(), W.Max())
	if len(ro.OutputFile) != 0 {
		if err = writeCSV(ro.OutputFile, s, W); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("wave field written to %s\n", ro.OutputFile)
	}
}

// graphUpdate chains the configured update with a live line plot of each
// computed frame. The source has unit amplitude, which fixes the plot range.
func graphUpdate(inner wave.Update, g *wave.Grid, delay time.Duration) wave.Update {
	var (
		x  = g.Axis(0)
		lc = utils.NewLineChart(1920, 1280, x.Min(), x.Max(), -1.2, 1.2)
	)
	return func(step int, t float64, src *wave.Source, frame utils.Tensor) (err error) {
		if err = inner(step, t, src, frame); err != nil {
			return
		}
		lc.AddLine(x.Data(), frame.Data(), utils.Blue)
		if delay != 0 {
			time.Sleep(delay)
		}
		return
	}
}

// writeCSV dumps one row per time step: the step index, the step instant and
// the frame values in row-major cell order.
func writeCSV(path string, s *wave.Simulation, W utils.Tensor) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	var (
		ncells = s.Grid.NCells()
		header = make([]string, 2+ncells)
		record = make([]string, 2+ncells)
	)
	header[0], header[1] = "step", "t"
	for j := 0; j < ncells; j++ {
		header[2+j] = fmt.Sprintf("cell%d", j)
	}
	if err = w.Write(header); err != nil {
		return err
	}
	for step := 0; step < s.Time.NSteps; step++ {
		record[0] = strconv.Itoa(step)
		record[1] = strconv.FormatFloat(float64(step)*s.Time.Step, 'g', -1, 64)
		for j, v := range W.Frame(step).Data() {
			record[2+j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err = w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
