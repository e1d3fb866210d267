package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/crossroad/arrival"
	"github.com/sarchlab/crossroad/intersection"
	"github.com/sarchlab/crossroad/sim"
	"github.com/sarchlab/crossroad/simulation"
	"github.com/sarchlab/crossroad/tracing"
)

const (
	envCrossingLatency = "CROSSROAD_TC"
	envPassageTime     = "CROSSROAD_TP"
	envSeed            = "CROSSROAD_SEED"
)

type runOptions struct {
	params intersection.Params

	arrivals    string
	classic     bool
	randomCount int
	seed        int64
	randomStart float64

	csvPath  string
	jsonPath string
	dbPath   string

	quiet       bool
	logEvents   bool
	monitor     bool
	monitorPort int
	openBrowser bool
}

func newRunCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and print the trace.",
		Long: "`run` processes every car arrival and light change in time " +
			"order and prints one line per event, followed by a summary. " +
			"The defaults of --tc, --tp and --seed can be given with the " +
			envCrossingLatency + ", " + envPassageTime + " and " + envSeed +
			" environment variables or a .env file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := readRunOptions(cmd)
			if err != nil {
				return err
			}

			return runSimulation(opts, cmd.OutOrStdout())
		},
	}

	f := c.Flags()
	f.Float64("tc", float64(intersection.DefaultParams.CrossingLatency),
		"Time from the first waiting car to the light turning green.")
	f.Float64("tp", float64(intersection.DefaultParams.PassageTime),
		"Time for one waiting car to pass the intersection.")
	f.String("arrivals", "",
		"Comma or space separated car arrival times.")
	f.Bool("classic", false,
		"Use the five hand-picked arrivals followed by 99 random ones.")
	f.Int("random-count", 0, "Number of random arrivals to add.")
	f.Int64("seed", arrival.DefaultRandom.Seed,
		"Seed of the random arrivals.")
	f.Float64("random-start", float64(arrival.DefaultRandom.Start),
		"Time after which random arrivals are generated.")
	f.String("csv", "", "Write the trace into the CSV file with this name.")
	f.String("json", "", "Write the trace into the JSON file with this name.")
	f.String("db", "", "Record the trace into the SQLite database with this name.")
	f.Bool("quiet", false, "Do not print the trace.")
	f.Bool("log-events", false, "Log every event to stderr before it is handled.")
	f.Bool("monitor", false, "Serve the monitoring API while running.")
	f.Int("monitor-port", 0, "Port of the monitoring server.")
	f.Bool("open-browser", false, "Open the monitoring page in a browser.")

	return c
}

func readRunOptions(cmd *cobra.Command) (runOptions, error) {
	f := cmd.Flags()
	opts := runOptions{}

	tc, err := floatFlagOrEnv(cmd, "tc", envCrossingLatency)
	if err != nil {
		return opts, err
	}

	tp, err := floatFlagOrEnv(cmd, "tp", envPassageTime)
	if err != nil {
		return opts, err
	}

	opts.params = intersection.Params{
		CrossingLatency: sim.VTimeInSec(tc),
		PassageTime:     sim.VTimeInSec(tp),
	}
	if err := opts.params.Validate(); err != nil {
		return opts, err
	}

	opts.seed, _ = f.GetInt64("seed")
	if v, ok := os.LookupEnv(envSeed); ok && !f.Changed("seed") {
		opts.seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid %s %q: %w", envSeed, v, err)
		}
	}

	opts.arrivals, _ = f.GetString("arrivals")
	opts.classic, _ = f.GetBool("classic")
	opts.randomCount, _ = f.GetInt("random-count")
	opts.randomStart, _ = f.GetFloat64("random-start")
	opts.csvPath, _ = f.GetString("csv")
	opts.jsonPath, _ = f.GetString("json")
	opts.dbPath, _ = f.GetString("db")
	opts.quiet, _ = f.GetBool("quiet")
	opts.logEvents, _ = f.GetBool("log-events")
	opts.monitor, _ = f.GetBool("monitor")
	opts.monitorPort, _ = f.GetInt("monitor-port")
	opts.openBrowser, _ = f.GetBool("open-browser")

	if !opts.monitor && (opts.monitorPort != 0 || opts.openBrowser) {
		return opts, fmt.Errorf(
			"--monitor-port and --open-browser require --monitor")
	}

	return opts, nil
}

func floatFlagOrEnv(cmd *cobra.Command, name, env string) (float64, error) {
	value, _ := cmd.Flags().GetFloat64(name)

	envValue, ok := os.LookupEnv(env)
	if !ok || cmd.Flags().Changed(name) {
		return value, nil
	}

	value, err := strconv.ParseFloat(envValue, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", env, envValue, err)
	}

	return value, nil
}

// schedule assembles the arrivals. The classic scenario comes first, then
// the listed arrivals, then the random stream.
func (o runOptions) schedule() (arrival.Schedule, error) {
	var s arrival.Schedule

	if o.classic {
		s = arrival.Classic()
	}

	if o.arrivals != "" {
		listed, err := arrival.Parse(o.arrivals)
		if err != nil {
			return nil, err
		}

		s = s.Append(listed)
	}

	if o.randomCount > 0 {
		r := arrival.DefaultRandom
		r.Seed = o.seed
		r.Count = o.randomCount
		r.Start = sim.VTimeInSec(o.randomStart)

		if err := r.Validate(); err != nil {
			return nil, err
		}

		s = s.Append(r.Generate())
	}

	if len(s) == 0 {
		return nil, fmt.Errorf(
			"no arrivals, use --arrivals, --classic or --random-count")
	}

	return s, nil
}

func (o runOptions) builder(out io.Writer) (simulation.Builder, error) {
	s, err := o.schedule()
	if err != nil {
		return simulation.Builder{}, err
	}

	b := simulation.MakeBuilder().
		WithParams(o.params).
		WithArrivals(s)

	if !o.quiet {
		b = b.WithTraceWriter(tracing.NewTextWriter(out))
	}

	if o.csvPath != "" {
		w := tracing.NewCSVTraceWriter(o.csvPath)
		w.Init()
		b = b.WithTraceWriter(w)
	}

	if o.jsonPath != "" {
		b = b.WithTraceWriter(tracing.NewJSONTraceFile(o.jsonPath))
	}

	if o.dbPath != "" {
		b = b.WithDataRecording().WithOutputFileName(o.dbPath)
	}

	if o.logEvents {
		b = b.WithEventLogger(log.New(os.Stderr, "", 0))
	}

	if o.monitor {
		b = b.WithMonitoring().WithMonitorPort(o.monitorPort)
		if o.openBrowser {
			b = b.WithBrowser()
		}
	}

	return b, nil
}

func runSimulation(o runOptions, out io.Writer) error {
	b, err := o.builder(out)
	if err != nil {
		return err
	}

	s := b.Build()
	defer s.Terminate()

	_, err = s.Run()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, s.Summary())

	if o.monitor {
		waitForInterrupt()
	}

	return nil
}

func waitForInterrupt() {
	fmt.Fprintln(os.Stderr,
		"Simulation finished. Press Ctrl+C to stop the monitoring server.")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}
