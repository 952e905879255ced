// Package monitoring turns a running simulation into a small web server so
// that it can be observed and controlled from outside the process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/Spencerx/ns-3-dev-git/sim"
)

// PortEnvVar names the environment variable that sets the monitoring port.
// It can be placed in a .env file in the working directory.
const PortEnvVar = "SIM_MONITOR_PORT"

// Monitor exposes a simulation engine over HTTP. It can report and control
// the simulated clock, list progress bars, and report process resource usage.
type Monitor struct {
	engine     sim.Engine
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitoring server. Ports below
// 1000 are rejected and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that drives the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// CreateProgressBar creates a progress bar shown by the /api/progress
// endpoint.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := NewProgressBar(name, total)

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a finished bar from the listing.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitoring server. When no port has been set, the
// SIM_MONITOR_PORT environment variable (or a .env file) is consulted before
// falling back to a random port. Profiling endpoints are served under
// /debug/pprof.
func (m *Monitor) StartServer() {
	r := m.router()
	http.Handle("/", r)

	port := m.resolvePort()

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	dieOnErr(err)

	actualPort := listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(os.Stderr,
		"Monitoring simulation with http://localhost:%d\n", actualPort)

	go func() {
		dieOnErr(http.Serve(listener, nil))
	}()
}

// OpenDashboard opens the monitoring page in the local browser.
func (m *Monitor) OpenDashboard(port int) {
	err := browser.OpenURL(fmt.Sprintf("http://localhost:%d", port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
	}
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/stop", m.stop)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resources", m.listResources)
	r.HandleFunc("/", m.index)

	return r
}

func (m *Monitor) resolvePort() int {
	if m.portNumber != 0 {
		return m.portNumber
	}

	_ = godotenv.Load()

	portStr := os.Getenv(PortEnvVar)
	if portStr == "" {
		return 0
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1000 {
		fmt.Fprintf(os.Stderr,
			"Ignoring invalid %s value %q.\n", PortEnvVar, portStr)
		return 0
	}

	return port
}

func (m *Monitor) index(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, `<html><body><h1>Simulation Monitor</h1>
<p>Endpoints: /api/now /api/pause /api/continue /api/run /api/stop
/api/progress /api/resources /debug/pprof</p></body></html>`)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%d}", m.engine.Now())
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	go func() {
		if err := m.engine.Run(); err != nil {
			panic(err)
		}
	}()

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) stop(w http.ResponseWriter, _ *http.Request) {
	m.engine.Stop()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
