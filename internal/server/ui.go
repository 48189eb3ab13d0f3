package server

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/nodepulse/nodepulse/internal/charts"
	"github.com/nodepulse/nodepulse/internal/query"
	"github.com/nodepulse/nodepulse/internal/telemetry"
)

// chartWindowHours is the lookback used by the chart endpoints.
const chartWindowHours = 24

// nodeSummary is one row of the home view.
type nodeSummary struct {
	NodeID        string
	ShortID       string
	LastSeen      string
	CPUCores      string
	MemoryTotalGB string
	TempSensors   string
}

// nodeDetails backs the per-node dashboard.
type nodeDetails struct {
	NodeID        string
	ShortID       string
	LastSeen      string
	Hostname      string
	OSName        string
	KernelVersion string
	CPUArch       string
	CPUCores      string
	MemoryTotalGB string
}

// handleHome implements GET /ui: one summary per known node, built from
// each node's latest snapshot.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ids, err := s.reader.NodeIDs(r.Context())
	if err != nil {
		s.log.Error("query node ids", "error", err)
		renderErrorPage(w, "Query Error", "Failed to load node list")
		return
	}

	summaries := make([]nodeSummary, 0, len(ids))
	for _, id := range ids {
		points, err := s.reader.LatestNodeMetrics(r.Context(), id)
		if err != nil {
			s.log.Warn("latest metrics", "node_id", id, "error", err)
			continue
		}
		summaries = append(summaries, buildNodeSummary(id, points))
	}

	renderHome(w, summaries)
}

// handleNode dispatches /ui/node/{id} and /ui/node/{id}/{chart}.svg.
func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/ui/node/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		s.handleNodeDashboard(w, r, parts[0])
	case len(parts) == 2 && parts[0] != "":
		s.handleNodeChart(w, r, parts[0], parts[1])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleNodeDashboard(w http.ResponseWriter, r *http.Request, nodeID string) {
	points, err := s.reader.LatestNodeMetrics(r.Context(), nodeID)
	if err != nil {
		s.log.Error("latest metrics", "node_id", nodeID, "error", err)
		renderErrorPage(w, "Query Error", "Failed to load node metrics")
		return
	}
	if len(points) == 0 {
		renderErrorPage(w, "Not Found", "No data found for node "+nodeID)
		return
	}

	renderNode(w, buildNodeDetails(nodeID, points))
}

func (s *Server) handleNodeChart(w http.ResponseWriter, r *http.Request, nodeID, chartFile string) {
	var svg string
	switch chartFile {
	case "cpu.svg":
		svg = s.cpuChart(r, nodeID)
	case "memory.svg":
		svg = s.memoryChart(r, nodeID)
	case "temperature.svg":
		svg = s.temperatureChart(r, nodeID)
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(svg))
}

func (s *Server) cpuChart(r *http.Request, nodeID string) string {
	points, err := s.reader.NodeMetrics(r.Context(), nodeID, "cpu_core_%_usage_percent", chartWindowHours)
	if err != nil {
		s.log.Error("cpu chart query", "node_id", nodeID, "error", err)
		return charts.RenderMessage("Query failed")
	}
	groups := query.GroupByIndex(points, "cpu_core_")
	if len(groups) == 0 {
		return charts.RenderMessage("No CPU data available")
	}

	data := charts.ChartData{
		Title:  "CPU Usage - Node " + shortenID(nodeID),
		XLabel: "Time",
		YLabel: "Usage (%)",
	}
	for _, label := range sortedLabels(groups) {
		data.Series = append(data.Series, charts.Series{
			Name: label, Unit: "%", Points: groups[label],
		})
	}
	return charts.Render(data)
}

func (s *Server) memoryChart(r *http.Request, nodeID string) string {
	used, err := s.reader.NodeMetrics(r.Context(), nodeID, "memory_used_bytes", chartWindowHours)
	if err != nil {
		s.log.Error("memory chart query", "node_id", nodeID, "error", err)
		return charts.RenderMessage("Query failed")
	}
	if len(used) == 0 {
		return charts.RenderMessage("No memory data available")
	}
	total, err := s.reader.NodeMetrics(r.Context(), nodeID, "memory_total_bytes", chartWindowHours)
	if err != nil {
		s.log.Error("memory chart query", "node_id", nodeID, "error", err)
		return charts.RenderMessage("Query failed")
	}

	const bytesPerGB = 1 << 30
	data := charts.ChartData{
		Title:  "Memory Usage - Node " + shortenID(nodeID),
		XLabel: "Time",
		YLabel: "Memory (GB)",
		Series: []charts.Series{
			{Name: "Used Memory", Unit: "GB", Points: query.SeriesValues(used, 1.0/bytesPerGB)},
		},
	}
	if len(total) > 0 {
		data.Series = append(data.Series, charts.Series{
			Name: "Total Memory", Unit: "GB", Points: query.SeriesValues(total, 1.0/bytesPerGB),
		})
	}
	return charts.Render(data)
}

func (s *Server) temperatureChart(r *http.Request, nodeID string) string {
	points, err := s.reader.NodeMetrics(r.Context(), nodeID, "temperature_sensor_%_celsius", chartWindowHours)
	if err != nil {
		s.log.Error("temperature chart query", "node_id", nodeID, "error", err)
		return charts.RenderMessage("Query failed")
	}
	groups := query.GroupByIndex(points, "temperature_sensor_")
	if len(groups) == 0 {
		return charts.RenderMessage("No temperature data available")
	}

	data := charts.ChartData{
		Title:  "Temperature - Node " + shortenID(nodeID),
		XLabel: "Time",
		YLabel: "Temperature (°C)",
	}
	for _, label := range sortedLabels(groups) {
		data.Series = append(data.Series, charts.Series{
			Name: label, Unit: "°C", Points: groups[label],
		})
	}
	return charts.Render(data)
}

// buildNodeSummary extracts the home-view fields from a node's latest
// snapshot.
func buildNodeSummary(nodeID string, points []telemetry.Point) nodeSummary {
	summary := nodeSummary{NodeID: nodeID, ShortID: shortenID(nodeID)}

	for _, p := range points {
		if summary.LastSeen == "" && p.Timestamp != "" {
			summary.LastSeen = formatTimestamp(p.Timestamp)
		}
		switch p.ProbeName {
		case "cpu_core_count":
			summary.CPUCores = p.ProbeValue
		case "memory_total_bytes":
			summary.MemoryTotalGB = formatMemoryGB(p.ProbeValue)
		case "temperature_sensor_count":
			summary.TempSensors = p.ProbeValue
		}
	}
	return summary
}

// buildNodeDetails extracts the dashboard fields from a node's latest
// snapshot.
func buildNodeDetails(nodeID string, points []telemetry.Point) nodeDetails {
	details := nodeDetails{NodeID: nodeID, ShortID: shortenID(nodeID)}

	for _, p := range points {
		if details.LastSeen == "" && p.Timestamp != "" {
			details.LastSeen = formatTimestamp(p.Timestamp)
		}
		switch p.ProbeName {
		case "system_hostname":
			details.Hostname = p.ProbeValue
		case "system_os_name":
			details.OSName = p.ProbeValue
		case "system_kernel_version":
			details.KernelVersion = p.ProbeValue
		case "system_cpu_arch":
			details.CPUArch = p.ProbeValue
		case "cpu_core_count":
			details.CPUCores = p.ProbeValue
		case "memory_total_bytes":
			details.MemoryTotalGB = formatMemoryGB(p.ProbeValue)
		}
	}
	return details
}

// shortenID truncates long node ids (UUIDs) for display.
func shortenID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}

// formatTimestamp turns a wire timestamp into "YYYY-MM-DD HH:MM:SS".
func formatTimestamp(ts string) string {
	if len(ts) >= 19 {
		return ts[:10] + " " + ts[11:19]
	}
	return ts
}

// formatMemoryGB renders a byte-count metric value as gigabytes.
func formatMemoryGB(value string) string {
	bytes, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(bytes/(1<<30), 'f', 1, 64) + " GB"
}

// sortedLabels orders chart legends so "Core 2" comes before "Core 10".
func sortedLabels(groups map[string][]query.SeriesPoint) []string {
	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labelLess(labels[i], labels[j])
	})
	return labels
}

// labelLess compares labels sharing a prefix by their trailing number,
// everything else lexicographically.
func labelLess(a, b string) bool {
	pa, na, aok := splitTrailingInt(a)
	pb, nb, bok := splitTrailingInt(b)
	if aok && bok && pa == pb {
		return na < nb
	}
	return a < b
}

func splitTrailingInt(s string) (prefix string, n int, ok bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}
