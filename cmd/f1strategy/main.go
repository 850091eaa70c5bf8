// Package main provides the CLI entrypoint for f1strategy.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/bcdxn/f1strategy/internal/domain"
	"github.com/bcdxn/f1strategy/internal/livetiming"
	"github.com/bcdxn/f1strategy/internal/logger"
	"github.com/bcdxn/f1strategy/internal/strategy"
	"github.com/bcdxn/f1strategy/internal/telemetry"
	"github.com/bcdxn/f1strategy/internal/track"
	"github.com/bcdxn/f1strategy/internal/tui"
)

const (
	defaultMaxStops = 3
	defaultPosition = 10
	defaultTopN     = 10
	defaultTrials   = 1000
	defaultSeed     = 1
	defaultDBPath   = "f1strategy.db"
	defaultLogPath  = "f1strategy.log"
)

var (
	optimizeTrack     string
	optimizeOverrides string
	optimizeMaxStops  int
	optimizePosition  int
	optimizeTopN      int
	optimizeRain      float64
	optimizeDB        string
	optimizeSource    string

	mcTrack    string
	mcMaxStops int
	mcPosition int
	mcTopN     int
	mcTrials   int
	mcSeed     int64
	mcRain     float64

	recTrack     string
	recOverrides string
	recLap       int
	recPosition  int
	recCompound  string
	recTireAge   int
	recFuel      float64
	recGapAhead  float64
	recGapBehind float64
	recRain      float64

	calibrateCSV    string
	calibrateDB     string
	calibrateSource string

	dashboardTrack  string
	dashboardDriver string
	dashboardLog    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "f1strategy",
		Short:         "F1 race strategy simulator and optimizer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newOptimizeCmd())
	rootCmd.AddCommand(newMonteCarloCmd())
	rootCmd.AddCommand(newRecommendCmd())
	rootCmd.AddCommand(newTracksCmd())
	rootCmd.AddCommand(newCalibrateCmd())
	rootCmd.AddCommand(newDashboardCmd())

	return rootCmd
}

/* optimize
------------------------------------------------------------------------------------------------- */

func newOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Rank pit strategies for a race",
		Args:  cobra.NoArgs,
		RunE:  runOptimizeCmd,
	}
	cmd.Flags().StringVar(&optimizeTrack, "track", "", "circuit name or key (see 'f1strategy tracks')")
	cmd.Flags().StringVar(&optimizeOverrides, "overrides", "", "TOML file overriding the circuit configuration")
	cmd.Flags().IntVar(&optimizeMaxStops, "max-stops", defaultMaxStops, "maximum pit stops to enumerate")
	cmd.Flags().IntVar(&optimizePosition, "position", defaultPosition, "grid position")
	cmd.Flags().IntVar(&optimizeTopN, "top", defaultTopN, "number of ranked strategies to show")
	cmd.Flags().Float64Var(&optimizeRain, "rain", 0, "rain intensity at lights out (0-1)")
	cmd.Flags().StringVar(&optimizeDB, "telemetry-db", "", "telemetry database to calibrate the tire model from")
	cmd.Flags().StringVar(&optimizeSource, "telemetry-source", "", "telemetry source filter, e.g. a session label")
	if err := cmd.MarkFlagRequired("track"); err != nil {
		panic(err)
	}
	return cmd
}

func runOptimizeCmd(cmd *cobra.Command, _ []string) error {
	circuit, err := loadCircuit(optimizeTrack, optimizeOverrides)
	if err != nil {
		return err
	}

	engineOpts := []strategy.EngineOption{strategy.WithEngineLogger(logger.Discard())}
	if optimizeDB != "" {
		deg, err := calibratedModel(cmd.Context(), circuit, optimizeDB, optimizeSource)
		if err != nil {
			return err
		}
		engineOpts = append(engineOpts, strategy.WithEngineDegradationModel(deg))
		fmt.Fprintln(cmd.OutOrStdout(), "using tire model calibrated from telemetry")
	}

	engine, err := strategy.NewEngine(circuit.Config, engineOpts...)
	if err != nil {
		return err
	}

	report, err := engine.Optimize(cmd.Context(), strategy.OptimizeRequest{
		Weather:       weatherAt(circuit.Config.TrackTemp, optimizeRain),
		StartPosition: optimizePosition,
		MaxStops:      optimizeMaxStops,
		TopN:          optimizeTopN,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s — %d laps, pit loss %.1fs, %s tire wear\n\n",
		circuit.Config.TrackName, circuit.Config.Laps, circuit.Config.PitLossTime, strings.ToLower(circuit.WearDescription()))
	printResults(w, report.Results)
	return nil
}

/* montecarlo
------------------------------------------------------------------------------------------------- */

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Rank strategies by Monte Carlo simulation",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarloCmd,
	}
	cmd.Flags().StringVar(&mcTrack, "track", "", "circuit name or key (see 'f1strategy tracks')")
	cmd.Flags().IntVar(&mcMaxStops, "max-stops", defaultMaxStops, "maximum pit stops to enumerate")
	cmd.Flags().IntVar(&mcPosition, "position", defaultPosition, "grid position")
	cmd.Flags().IntVar(&mcTopN, "top", defaultTopN, "number of strategies to rank")
	cmd.Flags().IntVar(&mcTrials, "trials", defaultTrials, "trials per strategy")
	cmd.Flags().Int64Var(&mcSeed, "seed", defaultSeed, "base random seed")
	cmd.Flags().Float64Var(&mcRain, "rain", 0, "rain intensity at lights out (0-1)")
	if err := cmd.MarkFlagRequired("track"); err != nil {
		panic(err)
	}
	return cmd
}

func runMonteCarloCmd(cmd *cobra.Command, _ []string) error {
	circuit, err := loadCircuit(mcTrack, "")
	if err != nil {
		return err
	}
	engine, err := strategy.NewEngine(circuit.Config,
		strategy.WithEngineLogger(logger.Discard()),
		strategy.WithEngineSeed(mcSeed),
	)
	if err != nil {
		return err
	}

	report, err := engine.Optimize(cmd.Context(), strategy.OptimizeRequest{
		Weather:       weatherAt(circuit.Config.TrackTemp, mcRain),
		StartPosition: mcPosition,
		MaxStops:      mcMaxStops,
		MonteCarlo:    true,
		Trials:        mcTrials,
		TopN:          mcTopN,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s — %d trials per strategy, seed %d\n\n", circuit.Config.TrackName, mcTrials, mcSeed)
	fmt.Fprintf(w, "  %-3s %-20s %-13s %-8s %-13s %-13s %-7s %s\n",
		"#", "STRATEGY", "MEAN", "STDDEV", "P5", "P95", "SC%", "RISK")
	for i, sum := range report.MonteCarlo {
		fmt.Fprintf(w, "  %-3d %-20s %-13s %-8.3f %-13s %-13s %-7.1f %s\n",
			i+1,
			sum.Strategy.String(),
			tui.FormatRaceTime(sum.Mean),
			sum.StdDev,
			tui.FormatRaceTime(sum.P5),
			tui.FormatRaceTime(sum.P95),
			sum.SafetyCarRate*100,
			sum.Risk,
		)
	}
	return nil
}

/* recommend
------------------------------------------------------------------------------------------------- */

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend an action from the current race state",
		Args:  cobra.NoArgs,
		RunE:  runRecommendCmd,
	}
	cmd.Flags().StringVar(&recTrack, "track", "", "circuit name or key (see 'f1strategy tracks')")
	cmd.Flags().StringVar(&recOverrides, "overrides", "", "TOML file overriding the circuit configuration")
	cmd.Flags().IntVar(&recLap, "lap", 1, "current race lap")
	cmd.Flags().IntVar(&recPosition, "position", defaultPosition, "current position")
	cmd.Flags().StringVar(&recCompound, "compound", "MEDIUM", "fitted tire compound")
	cmd.Flags().IntVar(&recTireAge, "tire-age", 0, "laps on the current tire set")
	cmd.Flags().Float64Var(&recFuel, "fuel", 0, "fuel remaining in kg (default: estimated from lap)")
	cmd.Flags().Float64Var(&recGapAhead, "gap-ahead", 5, "gap to the car ahead in seconds")
	cmd.Flags().Float64Var(&recGapBehind, "gap-behind", 5, "gap to the car behind in seconds")
	cmd.Flags().Float64Var(&recRain, "rain", 0, "current rain intensity (0-1)")
	if err := cmd.MarkFlagRequired("track"); err != nil {
		panic(err)
	}
	return cmd
}

func runRecommendCmd(cmd *cobra.Command, _ []string) error {
	circuit, err := loadCircuit(recTrack, recOverrides)
	if err != nil {
		return err
	}
	compound := domain.TireCompound(strings.ToUpper(recCompound))
	if !compound.Valid() {
		return fmt.Errorf("unknown tire compound %q", recCompound)
	}
	fuel := recFuel
	if fuel == 0 {
		fuel = math.Max(circuit.Config.InitialFuel-float64(recLap-1)*1.6, 0)
	}

	engine, err := strategy.NewEngine(circuit.Config, strategy.WithEngineLogger(logger.Discard()))
	if err != nil {
		return err
	}
	rec, err := engine.RecommendNow(cmd.Context(), domain.LiveSnapshot{
		CurrentLap:    recLap,
		Position:      recPosition,
		TireCompound:  compound,
		TireAge:       recTireAge,
		FuelRemaining: fuel,
		GapAhead:      recGapAhead,
		GapBehind:     recGapBehind,
		Weather:       weatherAt(circuit.Config.TrackTemp, recRain),
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s — lap %d/%d, P%d on %s (%d laps)\n\n",
		circuit.Config.TrackName, recLap, circuit.Config.Laps, recPosition, compound, recTireAge)
	fmt.Fprintf(w, "  %s: %s\n", strings.ReplaceAll(string(rec.Action), "_", " "), rec.Reason)
	fmt.Fprintf(w, "  tire degradation: %.0f%%\n", rec.Degradation*100)
	fmt.Fprintf(w, "  pit window: tire age %d-%d\n", rec.PitWindowFrom, rec.PitWindowTo)
	fmt.Fprintf(w, "  fuel mode: %s\n", rec.FuelMode)
	if rec.UndercutThreat {
		fmt.Fprintln(w, "  undercut threat from behind")
	}
	if len(rec.Results) > 0 {
		fmt.Fprintln(w, "\n  remaining-race plans:")
		printResults(w, topN(rec.Results, 5))
	}
	return nil
}

/* tracks
------------------------------------------------------------------------------------------------- */

func newTracksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "List the circuits in the catalog",
		Args:  cobra.NoArgs,
		RunE:  runTracksCmd,
	}
}

func runTracksCmd(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "  %-14s %-34s %-5s %-9s %s\n", "KEY", "CIRCUIT", "LAPS", "PIT LOSS", "TIRE WEAR")
	for _, c := range track.All() {
		fmt.Fprintf(w, "  %-14s %-34s %-5d %-9.1f %s\n",
			c.Key, c.Config.TrackName, c.Config.Laps, c.Config.PitLossTime, c.WearDescription())
	}
	return nil
}

/* calibrate
------------------------------------------------------------------------------------------------- */

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Fit tire degradation rates from lap telemetry",
		Args:  cobra.NoArgs,
		RunE:  runCalibrateCmd,
	}
	cmd.Flags().StringVar(&calibrateCSV, "csv", "", "lap telemetry CSV to ingest before fitting")
	cmd.Flags().StringVar(&calibrateDB, "db", defaultDBPath, "telemetry database path")
	cmd.Flags().StringVar(&calibrateSource, "source", "", "session label to tag ingested laps with / filter fits by")
	return cmd
}

func runCalibrateCmd(cmd *cobra.Command, _ []string) error {
	store, err := telemetry.Open(calibrateDB)
	if err != nil {
		return fmt.Errorf("failed to open telemetry db: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to close telemetry db: %v\n", cerr)
		}
	}()

	w := cmd.OutOrStdout()
	if calibrateCSV != "" {
		f, err := os.Open(calibrateCSV)
		if err != nil {
			return fmt.Errorf("failed to open telemetry csv: %w", err)
		}
		defer f.Close()
		records, err := telemetry.ReadCSV(f)
		if err != nil {
			return fmt.Errorf("failed to read telemetry csv: %w", err)
		}
		if err := store.InsertLaps(cmd.Context(), calibrateSource, records); err != nil {
			return fmt.Errorf("failed to store telemetry: %w", err)
		}
		fmt.Fprintf(w, "ingested %d laps from %s\n", len(records), calibrateCSV)
	}

	count, err := store.CountLaps(cmd.Context(), calibrateSource)
	if err != nil {
		return err
	}
	rates, err := telemetry.FitDegradationRates(cmd.Context(), store, calibrateSource)
	if err != nil {
		return err
	}
	if len(rates) == 0 {
		return fmt.Errorf("no compound had enough laps to fit a degradation rate (%d laps stored)", count)
	}

	stock := strategy.DefaultCompoundParams()
	fmt.Fprintf(w, "fitted degradation rates from %d laps:\n", count)
	for _, c := range []domain.TireCompound{
		domain.TireCompoundSoft, domain.TireCompoundMedium, domain.TireCompoundHard,
		domain.TireCompoundIntermediate, domain.TireCompoundFullWet,
	} {
		rate, ok := rates[c]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-13s %.4f per lap (stock %.4f)\n", c, rate, stock[c].DecayRate)
	}
	fmt.Fprintln(w, "\npass --telemetry-db to 'f1strategy optimize' to use the calibrated model")
	return nil
}

/* dashboard
------------------------------------------------------------------------------------------------- */

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Run the live strategy dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
	cmd.Flags().StringVar(&dashboardTrack, "track", "", "circuit name or key (see 'f1strategy tracks')")
	cmd.Flags().StringVar(&dashboardDriver, "driver", "1", "driver number to follow")
	cmd.Flags().StringVar(&dashboardLog, "log", defaultLogPath, "log file path")
	if err := cmd.MarkFlagRequired("track"); err != nil {
		panic(err)
	}
	return cmd
}

func runDashboardCmd(_ *cobra.Command, _ []string) error {
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()
	l, f, err := logger.New(dashboardLog, slog.LevelDebug)
	if err != nil {
		return err
	}
	defer f.Close()

	circuit, err := loadCircuit(dashboardTrack, "")
	if err != nil {
		return err
	}
	engine, err := strategy.NewEngine(circuit.Config, strategy.WithEngineLogger(l))
	if err != nil {
		return err
	}

	// Create a wait group that ensures both client *and* TUI exit gracefully if either exits
	wg := sync.WaitGroup{}
	// create client responsible for listening to messages from the F1 LiveTiming API
	client := livetiming.New(
		livetiming.WithLogger(l),
		livetiming.WithDriverNumber(dashboardDriver),
		livetiming.WithInitialFuel(circuit.Config.InitialFuel),
	)
	wg.Add(1)
	go func() {
		defer cancelCtx() // cancel the shared context between TUI and Client if either exits
		defer wg.Done()   // decrement shared wait group between TUI and Client
		client.Listen(ctx)
		l.Debug("client exited")
	}()
	// create TUI
	dashboard := tui.NewDashboard(engine, strategy.OptimizeRequest{}, tui.WithContext(ctx), tui.WithLogger(l))
	wg.Add(1)
	go func() {
		defer cancelCtx() // cancel the shared context between TUI and Client if either exits
		defer wg.Done()   // decrement shared wait group between TUI and Client
		if _, rerr := dashboard.Run(); rerr != nil {
			l.Error("tui exited with error", "err", rerr)
		}
		l.Debug("tui exited")
	}()
	// pass messages between client and TUI
	for {
		select {
		case <-ctx.Done():
			l.Debug("context done")
			wg.Wait()
			return nil
		case err := <-client.Done():
			if err != nil {
				l.Error("client exited with error", "err", err)
			}
		case snapshot := <-client.Snapshots():
			dashboard.Send(tui.SnapshotMsg(snapshot))
		}
	}
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

func loadCircuit(name, overrides string) (track.Circuit, error) {
	if overrides != "" {
		return track.GetWithOverrides(name, overrides)
	}
	return track.Get(name)
}

func weatherAt(trackTemp, rain float64) domain.WeatherState {
	w := domain.NewDryWeather(trackTemp)
	w.RainIntensity = rain
	return w
}

func calibratedModel(ctx context.Context, circuit track.Circuit, dbPath, source string) (strategy.DegradationModel, error) {
	store, err := telemetry.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry db: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()
	rates, err := telemetry.FitDegradationRates(ctx, store, source)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no calibrated rates available in %s; run 'f1strategy calibrate' first", dbPath)
	}
	return strategy.NewCalibratedModel(rates, strategy.WithAbrasiveness(circuit.Config.TrackAbrasiveness)), nil
}

func printResults(w io.Writer, results []domain.SimulationResult) {
	fmt.Fprintf(w, "  %-3s %-20s %-16s %-13s %s\n", "#", "STRATEGY", "PIT LAPS", "TIME", "RISK")
	for i, r := range results {
		fmt.Fprintf(w, "  %-3d %-20s %-16s %-13s %s\n",
			i+1, r.Strategy.String(), pitLapList(r.Strategy), tui.FormatRaceTime(r.TotalTime), r.Risk)
	}
}

func pitLapList(strat domain.Strategy) string {
	if len(strat.Stops) == 0 {
		return "-"
	}
	laps := make([]string, len(strat.Stops))
	for i, stop := range strat.Stops {
		laps[i] = fmt.Sprintf("L%d", stop.Lap)
	}
	return strings.Join(laps, ", ")
}

func topN(results []domain.SimulationResult, n int) []domain.SimulationResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}
