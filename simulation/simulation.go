// Package simulation bundles the pieces of a complete simulation: the
// engine, the data recorder, the event tracer, and the monitoring server.
// Models register named entities and schedule events on their behalf.
package simulation

import (
	"github.com/Spencerx/ns-3-dev-git/datarecording"
	"github.com/Spencerx/ns-3-dev-git/monitoring"
	"github.com/Spencerx/ns-3-dev-git/sim"
	"github.com/Spencerx/ns-3-dev-git/tracing"
)

// A Simulation provides the services required to define and run a
// simulation.
type Simulation struct {
	id     string
	engine *sim.SerialEngine

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	tracer       *tracing.EventTracer

	entityNames  []string
	entitybyName map[string]uint32
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() *sim.SerialEngine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil when monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetTracer returns the event tracer used in the simulation.
func (s *Simulation) GetTracer() *tracing.EventTracer {
	return s.tracer
}

// RegisterEntity assigns the named entity a context id. Events scheduled
// with that id are attributed to the entity in traces.
func (s *Simulation) RegisterEntity(name string) uint32 {
	if _, exists := s.entitybyName[name]; exists {
		panic("entity " + name + " already registered")
	}

	id := uint32(len(s.entityNames))
	s.entityNames = append(s.entityNames, name)
	s.entitybyName[name] = id

	return id
}

// EntityID returns the context id of a registered entity.
func (s *Simulation) EntityID(name string) uint32 {
	id, exists := s.entitybyName[name]
	if !exists {
		panic("entity " + name + " is not registered")
	}

	return id
}

// EntityName returns the name behind a context id, or an empty string for
// ids that belong to no entity.
func (s *Simulation) EntityName(id uint32) string {
	if int(id) >= len(s.entityNames) {
		return ""
	}

	return s.entityNames[id]
}

// Schedule schedules an event on behalf of a registered entity.
func (s *Simulation) Schedule(
	entity string,
	delay sim.VTime,
	fn sim.EventFunc,
) sim.EventID {
	return s.engine.ScheduleWithContext(s.EntityID(entity), delay, fn)
}

// Terminate ends the simulation, flushing all recorded data.
func (s *Simulation) Terminate() {
	s.tracer.StopTracing()
	s.dataRecorder.Close()
}
