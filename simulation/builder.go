package simulation

import (
	"log"
	"strconv"

	"github.com/rs/xid"

	"github.com/sarchlab/crossroad/arrival"
	"github.com/sarchlab/crossroad/datarecording"
	"github.com/sarchlab/crossroad/intersection"
	"github.com/sarchlab/crossroad/monitoring"
	"github.com/sarchlab/crossroad/sim"
	"github.com/sarchlab/crossroad/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	name           string
	params         intersection.Params
	arrivals       arrival.Schedule
	insertionQueue bool
	uniqueIDs      bool
	writers        []tracing.Writer
	dataRecording  bool
	outputFileName string
	eventLogger    *log.Logger
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		name:   "Crossing",
		params: intersection.DefaultParams,
	}
}

// WithName sets the name of the intersection.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithParams sets the timing parameters of the light cycle.
func (b Builder) WithParams(p intersection.Params) Builder {
	b.params = p
	return b
}

// WithArrivals sets the car arrivals that populate the queue.
func (b Builder) WithArrivals(s arrival.Schedule) Builder {
	b.arrivals = s
	return b
}

// WithInsertionQueue makes the engine use an insertion-sorted list instead of
// a heap.
func (b Builder) WithInsertionQueue() Builder {
	b.insertionQueue = true
	return b
}

// WithUniqueIDs makes events use globally unique IDs instead of sequential
// numbers.
func (b Builder) WithUniqueIDs() Builder {
	b.uniqueIDs = true
	return b
}

// WithTraceWriter adds a writer that receives every record.
func (b Builder) WithTraceWriter(w tracing.Writer) Builder {
	b.writers = append(b.writers[:len(b.writers):len(b.writers)], w)
	return b
}

// WithDataRecording records the trace into an SQLite database.
func (b Builder) WithDataRecording() Builder {
	b.dataRecording = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithEventLogger logs every event into the logger before it is handled.
func (b Builder) WithEventLogger(logger *log.Logger) Builder {
	b.eventLogger = logger
	return b
}

// WithMonitoring starts a monitoring server with the simulation.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page in a browser.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		panic("monitor options cannot be set when monitoring is disabled")
	}

	if !b.dataRecording && b.outputFileName != "" {
		panic("output file name cannot be set when data recording is disabled")
	}

	if err := b.params.Validate(); err != nil {
		panic(err)
	}

	if err := b.arrivals.Validate(); err != nil {
		panic(err)
	}
}

// Build builds the simulation. The arrivals are scheduled before Build
// returns.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id: xid.New().String(),
	}

	s.engine = sim.NewSerialEngine()
	if b.insertionQueue {
		s.engine = sim.NewSerialEngineWithQueue(sim.NewInsertionQueue())
	}

	idGen := sim.NewSequentialIDGenerator()
	if b.uniqueIDs {
		idGen = sim.NewUniqueIDGenerator()
	}

	if b.eventLogger != nil {
		s.engine.AcceptHook(sim.NewEventLogger(b.eventLogger))
	}

	s.crossing = intersection.MakeBuilder().
		WithEngine(s.engine).
		WithIDGenerator(idGen).
		WithParams(b.params).
		Build(b.name)

	s.collector = tracing.NewCollector(s.crossing)
	s.engine.AcceptHook(s.collector)
	for _, w := range b.writers {
		s.collector.AddWriter(w)
	}

	if b.dataRecording {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "crossroad_sim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.collector.AddWriter(tracing.NewDBTraceWriter(s.dataRecorder))

		s.execRecorder = datarecording.NewExecRecorder(s.dataRecorder)
		s.execRecorder.Start()
		s.execRecorder.Set("Simulation ID", s.id)
		s.execRecorder.Set("Crossing Latency", b.params.CrossingLatency.String())
		s.execRecorder.Set("Passage Time", b.params.PassageTime.String())
		s.execRecorder.Set("Arrivals", strconv.Itoa(len(b.arrivals)))
	}

	for _, t := range b.arrivals {
		s.engine.Schedule(s.crossing.NewCarArrival(t))
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		if b.openBrowser {
			s.monitor.WithBrowser()
		}
		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterIntersection(s.crossing)
		s.monitor.RegisterCollector(s.collector)
		s.monitor.StartServer()
	}

	return s
}
