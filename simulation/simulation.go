// Package simulation assembles an engine, an intersection and the trace
// collection into a runnable simulation.
package simulation

import (
	"github.com/sarchlab/crossroad/datarecording"
	"github.com/sarchlab/crossroad/intersection"
	"github.com/sarchlab/crossroad/monitoring"
	"github.com/sarchlab/crossroad/sim"
	"github.com/sarchlab/crossroad/tracing"
)

// A Simulation owns everything a run needs. It does not share state with
// other simulations.
type Simulation struct {
	id string

	engine       *sim.SerialEngine
	crossing     *intersection.Intersection
	collector    *tracing.Collector
	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	monitor      *monitoring.Monitor

	terminated bool
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetIntersection returns the simulated intersection.
func (s *Simulation) GetIntersection() *intersection.Intersection {
	return s.crossing
}

// GetCollector returns the collector of the trace.
func (s *Simulation) GetCollector() *tracing.Collector {
	return s.collector
}

// GetDataRecorder returns the data recorder used in the simulation, or nil if
// data recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// Run processes events until the queue is empty and returns the trace in
// processing order. On error, the records produced so far are returned with
// it.
func (s *Simulation) Run() ([]tracing.Record, error) {
	err := s.engine.Run()

	s.collector.Flush()
	if err != nil {
		return s.collector.Records(), err
	}

	s.engine.Finished()

	return s.collector.Records(), nil
}

// Summary summarizes the trace collected so far.
func (s *Simulation) Summary() tracing.Summary {
	return tracing.Summarize(s.collector.Records())
}

// Terminate closes the writers, the data recorder and the monitor.
func (s *Simulation) Terminate() {
	if s.terminated {
		return
	}
	s.terminated = true

	s.collector.Close()

	if s.dataRecorder != nil {
		s.execRecorder.End()
		s.dataRecorder.Close()
	}

	if s.monitor != nil {
		s.monitor.StopServer()
	}
}
