package observability

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type key struct {
	Method string
	Path   string
	Status int
}

type stat struct {
	Count     int64
	LatencyMS float64
}

type gradeStats struct {
	Submissions int64
	Perfect     int64
	ScoreSum    int64
	TotalSum    int64
}

// Collector counts requests and graded submissions and exposes them as text metrics.
type Collector struct {
	db *sql.DB

	mu           sync.RWMutex
	requestStats map[key]stat
	grades       gradeStats
	startedAt    time.Time
}

// NewCollector accepts a nil db when content is not database-backed.
func NewCollector(db *sql.DB) *Collector {
	return &Collector{
		db:           db,
		requestStats: make(map[key]stat),
		startedAt:    time.Now(),
	}
}

// ObserveScore records one graded submission.
func (c *Collector) ObserveScore(score, total int) {
	c.mu.Lock()
	c.grades.Submissions++
	c.grades.ScoreSum += int64(score)
	c.grades.TotalSum += int64(total)
	if total > 0 && score == total {
		c.grades.Perfect++
	}
	c.mu.Unlock()
}

func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		latencyMS := float64(time.Since(start).Microseconds()) / 1000.0
		path := routePath(r)

		c.mu.Lock()
		k := key{Method: r.Method, Path: path, Status: status}
		s := c.requestStats[k]
		s.Count++
		s.LatencyMS += latencyMS
		c.requestStats[k] = s
		c.mu.Unlock()

		entry := map[string]any{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       path,
			"status":     status,
			"bytes":      ww.BytesWritten(),
			"latency_ms": latencyMS,
			"remote_ip":  strings.TrimSpace(r.RemoteAddr),
		}
		b, _ := json.Marshal(entry)
		log.Printf("%s", string(b))
	})
}

func (c *Collector) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	statsCopy := make(map[key]stat, len(c.requestStats))
	for k, v := range c.requestStats {
		statsCopy[k] = v
	}
	grades := c.grades
	startedAt := c.startedAt
	c.mu.RUnlock()

	keys := make([]key, 0, len(statsCopy))
	for k := range statsCopy {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Method != keys[j].Method {
			return keys[i].Method < keys[j].Method
		}
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Status < keys[j].Status
	})

	var sb strings.Builder
	sb.WriteString("# phishaware observability metrics\n")
	sb.WriteString("# TYPE phishaware_uptime_seconds gauge\n")
	sb.WriteString(fmt.Sprintf("phishaware_uptime_seconds %.0f\n", time.Since(startedAt).Seconds()))

	sb.WriteString("# TYPE phishaware_http_requests_total counter\n")
	sb.WriteString("# TYPE phishaware_http_request_latency_ms_sum counter\n")
	sb.WriteString("# TYPE phishaware_http_request_latency_ms_avg gauge\n")
	for _, k := range keys {
		s := statsCopy[k]
		labels := fmt.Sprintf("method=\"%s\",path=\"%s\",status=\"%d\"", k.Method, k.Path, k.Status)
		sb.WriteString(fmt.Sprintf("phishaware_http_requests_total{%s} %d\n", labels, s.Count))
		sb.WriteString(fmt.Sprintf("phishaware_http_request_latency_ms_sum{%s} %.3f\n", labels, s.LatencyMS))
		avg := 0.0
		if s.Count > 0 {
			avg = s.LatencyMS / float64(s.Count)
		}
		sb.WriteString(fmt.Sprintf("phishaware_http_request_latency_ms_avg{%s} %.3f\n", labels, avg))
	}

	sb.WriteString("# TYPE phishaware_quiz_submissions_total counter\n")
	sb.WriteString(fmt.Sprintf("phishaware_quiz_submissions_total %d\n", grades.Submissions))
	sb.WriteString("# TYPE phishaware_quiz_perfect_scores_total counter\n")
	sb.WriteString(fmt.Sprintf("phishaware_quiz_perfect_scores_total %d\n", grades.Perfect))
	sb.WriteString("# TYPE phishaware_quiz_score_ratio_avg gauge\n")
	ratio := 0.0
	if grades.TotalSum > 0 {
		ratio = float64(grades.ScoreSum) / float64(grades.TotalSum)
	}
	sb.WriteString(fmt.Sprintf("phishaware_quiz_score_ratio_avg %.3f\n", ratio))

	if c.db != nil {
		dbs := c.db.Stats()
		sb.WriteString("# TYPE phishaware_db_open_connections gauge\n")
		sb.WriteString(fmt.Sprintf("phishaware_db_open_connections %d\n", dbs.OpenConnections))
		sb.WriteString("# TYPE phishaware_db_in_use_connections gauge\n")
		sb.WriteString(fmt.Sprintf("phishaware_db_in_use_connections %d\n", dbs.InUse))
		sb.WriteString("# TYPE phishaware_db_idle_connections gauge\n")
		sb.WriteString(fmt.Sprintf("phishaware_db_idle_connections %d\n", dbs.Idle))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}

// routePath prefers the matched chi pattern so unknown paths do not explode label cardinality.
func routePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return normalizedPath(r.URL.Path)
}

func normalizedPath(path string) string {
	if path == "" {
		return "/"
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
