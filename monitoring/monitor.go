// Package monitoring turns a simulation into a server that can be inspected
// and controlled over HTTP while it runs.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/crossroad/intersection"
	"github.com/sarchlab/crossroad/sim"
	"github.com/sarchlab/crossroad/tracing"
)

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine      sim.Engine
	crossing    *intersection.Intersection
	collector   *tracing.Collector
	portNumber  int
	openBrowser bool
	listener    net.Listener

	progressBar *ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes the monitor open its page in a browser once it starts.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterEngine registers the engine that is used in the simulation. The
// monitor tracks the progress of the engine with a hook.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
	m.progressBar = &ProgressBar{
		ID:        "events",
		Name:      "Events",
		StartTime: time.Now(),
	}

	e.AcceptHook(&progressHook{bar: m.progressBar, engine: e})
}

// RegisterIntersection registers the intersection whose state is reported.
func (m *Monitor) RegisterIntersection(c *intersection.Intersection) {
	m.crossing = c
}

// RegisterCollector registers the collector whose records are reported.
func (m *Monitor) RegisterCollector(c *tracing.Collector) {
	m.collector = c
}

// Progress returns the progress bar of the processed events.
func (m *Monitor) Progress() *ProgressBar {
	return m.progressBar
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/state", m.state)
	r.HandleFunc("/api/params", m.params)
	r.HandleFunc("/api/trace", m.trace)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// StartServer starts the monitor as a web server with a custom port if wanted.
func (m *Monitor) StartServer() {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)
	m.listener = listener

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	r := m.router()
	go func() {
		err := http.Serve(listener, r)
		if err != nil && !isClosedErr(err) {
			log.Panic(err)
		}
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url + "/api/state"); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
		}
	}
}

// StopServer stops accepting connections.
func (m *Monitor) StopServer() {
	if m.listener == nil {
		return
	}

	_ = m.listener.Close()
	m.listener = nil
}

func isClosedErr(err error) bool {
	opErr, ok := err.(*net.OpError)
	return ok && opErr.Op == "accept"
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f,\"remaining\":%d}", now, m.engine.Remaining())
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	go func() {
		err := m.engine.Run()
		if err != nil {
			log.Panic(err)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	if m.crossing == nil {
		http.Error(w, "no intersection registered", http.StatusNotFound)
		return
	}

	s := m.crossing.State()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&s)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type paramsRsp struct {
	Name            string  `json:"name"`
	CrossingLatency float64 `json:"crossing_latency"`
	PassageTime     float64 `json:"passage_time"`
}

func (m *Monitor) params(w http.ResponseWriter, _ *http.Request) {
	if m.crossing == nil {
		http.Error(w, "no intersection registered", http.StatusNotFound)
		return
	}

	p := m.crossing.Params()
	writeJSON(w, paramsRsp{
		Name:            m.crossing.Name(),
		CrossingLatency: float64(p.CrossingLatency),
		PassageTime:     float64(p.PassageTime),
	})
}

func (m *Monitor) trace(w http.ResponseWriter, r *http.Request) {
	if m.collector == nil {
		http.Error(w, "no collector registered", http.StatusNotFound)
		return
	}

	offset, limit, err := parseWindow(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	records := m.collector.Records()
	if offset > len(records) {
		offset = len(records)
	}

	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	writeJSON(w, records)
}

func parseWindow(r *http.Request) (offset, limit int, err error) {
	offsetStr := r.URL.Query().Get("offset")
	if offsetStr == "" {
		offsetStr = "0"
	}

	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset %q", offsetStr)
	}

	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		limitStr = "0"
	}

	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return 0, 0, fmt.Errorf("invalid limit %q", limitStr)
	}

	return offset, limit, nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	bars := []ProgressBarSnapshot{}
	if m.progressBar != nil {
		bars = append(bars, m.progressBar.Snapshot())
	}

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
