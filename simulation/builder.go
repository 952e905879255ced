package simulation

import (
	"github.com/rs/xid"

	"github.com/Spencerx/ns-3-dev-git/datarecording"
	"github.com/Spencerx/ns-3-dev-git/monitoring"
	"github.com/Spencerx/ns-3-dev-git/sim"
	"github.com/Spencerx/ns-3-dev-git/tracing"
)

// Builder assembles a Simulation: the engine, the data recorder, the event
// tracer, and optionally the monitoring server.
type Builder struct {
	schedulerKind  sim.SchedulerKind
	resolution     sim.TimeUnit
	resolutionSet  bool
	monitorOn      bool
	monitorPort    int
	outputFileName string
}

// MakeBuilder creates a builder with monitoring enabled and the default
// scheduler.
func MakeBuilder() Builder {
	return Builder{
		monitorOn: true,
	}
}

// WithScheduler selects the event scheduler implementation.
func (b Builder) WithScheduler(kind sim.SchedulerKind) Builder {
	b.schedulerKind = kind
	return b
}

// WithTimeResolution sets the tick length of the simulated clock. The
// resolution applies process-wide and cannot change once events exist.
func (b Builder) WithTimeResolution(u sim.TimeUnit) Builder {
	b.resolution = u
	b.resolutionSet = true
	return b
}

// WithoutMonitoring disables the monitoring server.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOutputFileName sets the output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	if b.resolutionSet {
		sim.SetTimeResolution(b.resolution)
	}

	s := &Simulation{
		id:           xid.New().String(),
		entitybyName: make(map[string]uint32),
	}

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "sim_" + s.id
	}
	s.dataRecorder = datarecording.New(outputPath)

	s.engine = sim.NewSerialEngineWithScheduler(
		sim.NewScheduler(b.schedulerKind))

	s.tracer = tracing.NewEventTracer(s.engine, s.dataRecorder)
	tracing.CollectTrace(s.engine, s.tracer)

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterEngine(s.engine)
		s.monitor.StartServer()
	}

	return s
}
