package cmd

import (
	"fmt"
	"log"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Spencerx/ns-3-dev-git/distsim"
	"github.com/Spencerx/ns-3-dev-git/sim"
	"github.com/Spencerx/ns-3-dev-git/simulation"
)

var (
	schedulerKind string // Event scheduler implementation
	duration      int64  // Simulated run length in ticks
	resolution    string // Tick length, as a unit suffix such as "ns"
	interval      int64  // Delay between ping and pong in ticks
	ranks         int    // Number of ranks; 1 runs serially
	syncProtocol  string // Synchronization protocol for multi-rank runs
	lookahead     int64  // Minimum cross-rank delay in ticks
	monitorOn     bool   // Start the monitoring server
	monitorPort   int    // Monitoring server port
	outputFile    string // Data recorder output file
	traceOn       bool   // Record an event trace
)

// runCmd executes a ping-pong simulation using parameters from CLI flags.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a ping-pong demonstration simulation",
	Run: func(cmd *cobra.Command, args []string) {
		if ranks < 1 {
			log.Fatalf("Invalid rank count: %d", ranks)
		}

		if resolution != "" {
			u, err := sim.ParseTimeUnit(resolution)
			if err != nil {
				log.Fatalf("Invalid resolution: %s", err)
			}
			sim.SetTimeResolution(u)
		}

		if ranks == 1 {
			runSerial()
			return
		}

		runDistributed()
	},
}

func init() {
	runCmd.Flags().StringVar(&schedulerKind, "scheduler", "map",
		"Event scheduler: map, heap, list, calendar, or array")
	runCmd.Flags().Int64Var(&duration, "duration", 1000,
		"Simulated run length in ticks")
	runCmd.Flags().StringVar(&resolution, "resolution", "",
		"Tick length as a unit suffix (y, d, h, min, s, ms, us, ns, ps, fs)")
	runCmd.Flags().Int64Var(&interval, "interval", 10,
		"Delay between ping and pong in ticks")
	runCmd.Flags().IntVar(&ranks, "ranks", 1,
		"Number of ranks; more than 1 runs the distributed engines")
	runCmd.Flags().StringVar(&syncProtocol, "sync", "window",
		"Synchronization protocol for multi-rank runs: window or null")
	runCmd.Flags().Int64Var(&lookahead, "lookahead", 5,
		"Minimum cross-rank delay in ticks")
	runCmd.Flags().BoolVar(&monitorOn, "monitor", false,
		"Start the monitoring server")
	runCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"Monitoring server port; 0 picks a random port")
	runCmd.Flags().StringVar(&outputFile, "output", "",
		"Data recorder output file name, without extension")
	runCmd.Flags().BoolVar(&traceOn, "trace", false,
		"Record an event trace into the output database")

	rootCmd.AddCommand(runCmd)
}

// runSerial bounces an event between two entities on one engine.
func runSerial() {
	b := simulation.MakeBuilder().
		WithScheduler(sim.SchedulerKind(schedulerKind))

	if outputFile != "" {
		b = b.WithOutputFileName(outputFile)
	}

	if monitorOn {
		b = b.WithMonitorPort(monitorPort)
	} else {
		b = b.WithoutMonitoring()
	}

	s := b.Build()
	defer s.Terminate()

	if traceOn {
		s.GetTracer().StartTracing()
	}

	s.RegisterEntity("pinger")
	s.RegisterEntity("ponger")

	engine := s.GetEngine()
	bounces := 0

	var ping, pong func()
	ping = func() {
		bounces++
		s.Schedule("ponger", sim.VTime(interval), pong)
	}
	pong = func() {
		bounces++
		s.Schedule("pinger", sim.VTime(interval), ping)
	}

	s.Schedule("pinger", sim.VTime(interval), ping)

	if err := engine.RunUntil(sim.VTime(duration)); err != nil {
		log.Fatalf("Simulation failed: %s", err)
	}

	fmt.Printf("Ran %d bounces, simulated time %s\n", bounces, engine.Now())
}

// runDistributed spreads the ping-pong around a ring of ranks, one engine
// per rank, synchronized by the selected protocol.
func runDistributed() {
	if lookahead <= 0 {
		log.Fatalf("Invalid lookahead: %d", lookahead)
	}
	if interval < lookahead {
		log.Fatalf("Interval %d must be at least the lookahead %d",
			interval, lookahead)
	}

	conn := distsim.NewLocalConnector(ranks)
	defer conn.Close()

	switch syncProtocol {
	case "window":
		runWindowRing(conn)
	case "null":
		runNullMessageRing(conn)
	default:
		log.Fatalf("Unknown synchronization protocol: %s", syncProtocol)
	}
}

func newRankEngine() *sim.SerialEngine {
	return sim.NewSerialEngineWithScheduler(
		sim.NewScheduler(sim.SchedulerKind(schedulerKind)))
}

func runWindowRing(conn *distsim.LocalConnector) {
	engines := make([]*distsim.WindowEngine, ranks)
	counts := make([]int, ranks)

	for i := 0; i < ranks; i++ {
		i := i
		engines[i] = distsim.NewWindowEngine(
			newRankEngine(), i, sim.VTime(lookahead), conn)
		engines[i].RegisterReceiver(func(m distsim.Msg) {
			counts[i]++
			if engines[i].Now() < sim.VTime(duration) {
				engines[i].SendRemote(
					(i+1)%ranks, sim.VTime(interval), m.Context, m.Payload)
			}
		})
	}

	engines[0].Engine().Schedule(0, func() {
		engines[0].SendRemote(1%ranks, sim.VTime(interval), sim.NoContext, nil)
	})

	var wg sync.WaitGroup
	for _, e := range engines {
		wg.Add(1)
		go func(e *distsim.WindowEngine) {
			defer wg.Done()
			if err := e.Run(); err != nil {
				log.Fatalf("Rank %d failed: %s", e.Rank(), err)
			}
		}(e)
	}
	wg.Wait()

	reportRing(counts)
}

func runNullMessageRing(conn *distsim.LocalConnector) {
	engines := make([]*distsim.NullMessageEngine, ranks)
	counts := make([]int, ranks)

	for i := 0; i < ranks; i++ {
		i := i
		next := (i + 1) % ranks
		prev := (i + ranks - 1) % ranks
		engines[i] = distsim.NewNullMessageEngine(
			newRankEngine(), i,
			map[int]sim.VTime{next: sim.VTime(lookahead)},
			[]int{prev}, conn)
		engines[i].RegisterReceiver(func(m distsim.Msg) {
			counts[i]++
			if engines[i].Now() < sim.VTime(duration) {
				engines[i].SendRemote(
					next, sim.VTime(interval), m.Context, m.Payload)
			}
		})
	}

	engines[0].Engine().Schedule(0, func() {
		engines[0].SendRemote(1%ranks, sim.VTime(interval), sim.NoContext, nil)
	})

	var wg sync.WaitGroup
	for _, e := range engines {
		wg.Add(1)
		go func(e *distsim.NullMessageEngine) {
			defer wg.Done()
			if err := e.RunUntil(sim.VTime(duration)); err != nil {
				log.Fatalf("Rank %d failed: %s", e.Rank(), err)
			}
		}(e)
	}
	wg.Wait()

	reportRing(counts)
}

func reportRing(counts []int) {
	total := 0
	for rank, c := range counts {
		fmt.Printf("Rank %d received %d messages\n", rank, c)
		total += c
	}

	fmt.Printf("Total messages: %d\n", total)
}
