// cmd/skydeck/httpserv.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"runtime"
	"sync"
	"text/template"
	"time"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/mission"

	"github.com/shirou/gopsutil/v3/cpu"
)

///////////////////////////////////////////////////////////////////////////
// Status / statistics via HTTP...

type serverStats struct {
	Uptime           time.Duration
	AllocMemory      uint64
	TotalAllocMemory uint64
	SysMemory        uint64
	NumGC            uint32
	NumGoRoutines    int
	CPUUsage         int

	Plan planStatus
}

type planStatus struct {
	Name             string
	Vehicle          string
	Heading          string
	Speed            string
	Altitude         string
	Loiter           string
	GeofenceVertices int
	Commands         int

	Waypoints []waypointStatus
}

type waypointStatus struct {
	Name     string
	Location string
}

// httpStats is written by the UI thread each frame and read by the HTTP
// handler goroutine; mu must be held for both.
var httpStats struct {
	mu        sync.Mutex
	startTime time.Time
	plan      planStatus
}

func updateHTTPStats(session *mission.Session) {
	plan := session.Plan

	status := planStatus{
		Name:             plan.Name,
		Vehicle:          plan.Vehicle,
		Heading:          fmt.Sprintf("%03d", int(math.Round(float32(plan.Commands.Heading)))%360),
		Speed:            plan.Commands.Speed.String(),
		Altitude:         plan.Commands.Altitude.String(),
		Loiter:           (time.Duration(plan.Commands.LoiterSeconds) * time.Second).String(),
		GeofenceVertices: len(plan.Geofence),
		Commands:         session.CommandLog.Len(),
	}
	for _, wp := range plan.Waypoints {
		status.Waypoints = append(status.Waypoints, waypointStatus{
			Name:     wp.Name,
			Location: wp.Location.DDString(),
		})
	}

	httpStats.mu.Lock()
	httpStats.plan = status
	httpStats.mu.Unlock()
}

func launchHTTPServer(addr string, lg *log.Logger) {
	httpStats.startTime = time.Now()

	mux := http.NewServeMux()

	mux.HandleFunc("/sup", func(w http.ResponseWriter, r *http.Request) {
		statsHandler(w, r)
		lg.Infof("%s: served stats request", r.URL.String())
	})

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		lg.Warnf("%s: unable to start HTTP server: %v", addr, err)
		return
	}

	fmt.Printf("Launching HTTP server at %s\n", listener.Addr())
	go func() {
		if err := http.Serve(listener, mux); err != nil {
			lg.Errorf("HTTP server error: %v", err)
		}
	}()
}

var statsTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
<title>skydeck status</title>
</head>
<style>
table {
  border-collapse: collapse;
  width: 100%;
}

th, td {
  border: 1px solid #dddddd;
  padding: 8px;
  text-align: left;
}

tr:nth-child(even) {
  background-color: #f2f2f2;
}
</style>
<body>
<h1>Server Status</h1>
<ul>
  <li>Uptime: {{.Uptime}}</li>
  <li>CPU usage: {{.CPUUsage}}%</li>
  <li>Allocated memory: {{.AllocMemory}} MB</li>
  <li>Total allocated memory: {{.TotalAllocMemory}} MB</li>
  <li>System memory: {{.SysMemory}} MB</li>
  <li>Garbage collection passes: {{.NumGC}}</li>
  <li>Running goroutines: {{.NumGoRoutines}}</li>
</ul>

<h1>Mission Plan</h1>
<ul>
  <li>Plan: {{.Plan.Name}}</li>
  <li>Vehicle: {{.Plan.Vehicle}}</li>
  <li>Commanded heading: {{.Plan.Heading}}</li>
  <li>Commanded speed: {{.Plan.Speed}}</li>
  <li>Commanded altitude: {{.Plan.Altitude}}</li>
  <li>Loiter: {{.Plan.Loiter}}</li>
  <li>Geofence vertices: {{.Plan.GeofenceVertices}}</li>
  <li>Commands logged: {{.Plan.Commands}}</li>
</ul>

<h1>Waypoints</h1>
<table>
  <tr>
  <th>Name</th>
  <th>Location</th>

{{range .Plan.Waypoints}}
  </tr>
  <td>{{.Name}}</td>
  <td><tt>{{.Location}}</tt></td>
</tr>
{{end}}
</table>

</body>
</html>
`))

func statsHandler(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage, _ := cpu.Percent(time.Second, false)

	httpStats.mu.Lock()
	plan := httpStats.plan
	httpStats.mu.Unlock()

	stats := serverStats{
		Uptime:           time.Since(httpStats.startTime).Round(time.Second),
		AllocMemory:      m.Alloc / (1024 * 1024),
		TotalAllocMemory: m.TotalAlloc / (1024 * 1024),
		SysMemory:        m.Sys / (1024 * 1024),
		NumGC:            m.NumGC,
		NumGoRoutines:    runtime.NumGoroutine(),
		CPUUsage:         int(math.Round(float32(usage[0]))),

		Plan: plan,
	}

	statsTemplate.Execute(w, stats)
}
