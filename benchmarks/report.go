// Package benchmarks provides tools for parsing and reporting benchmark
// results against the store's performance targets.
package benchmarks

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Result represents a single benchmark result.
type Result struct {
	// Name is the benchmark name (e.g., "BenchmarkTreeSearch")
	Name string `json:"name"`
	// Package is the package containing the benchmark
	Package string `json:"package"`
	// Iterations is the number of iterations run
	Iterations int `json:"iterations"`
	// NsPerOp is nanoseconds per operation
	NsPerOp float64 `json:"nsPerOp"`
	// BytesPerOp is bytes allocated per operation
	BytesPerOp int64 `json:"bytesPerOp"`
	// AllocsPerOp is allocations per operation
	AllocsPerOp int64 `json:"allocsPerOp"`
}

// Target is one performance target for the store.
type Target struct {
	// Benchmark is the name of the benchmark the target binds to.
	Benchmark string
	// Description is a human-readable description
	Description string
	// MaxNsPerOp is the maximum allowed nanoseconds per operation
	MaxNsPerOp float64
	// MinOpsPerSec is the minimum required operations per second
	MinOpsPerSec float64
}

// defaultTargets returns the store's performance targets. Lookups and
// scans run against the in-memory index; insert and commit targets
// include the revision write.
func defaultTargets() []Target {
	return []Target{
		{
			Benchmark:   "BenchmarkTreeSearch",
			Description: "Point lookup in the index",
			MaxNsPerOp:  5000, // < 5 us
		},
		{
			Benchmark:   "BenchmarkTreeScan",
			Description: "Full-range scan, per key",
			MaxNsPerOp:  1000, // < 1 us per visited key
		},
		{
			Benchmark:    "BenchmarkTreeInsert",
			Description:  "Insert including the journal flush",
			MinOpsPerSec: 1000,
		},
		{
			Benchmark:   "BenchmarkEngineCommit",
			Description: "One journal batch to one durable revision",
			MaxNsPerOp:  50000000, // < 50 ms
		},
	}
}

// Report represents a complete benchmark report.
type Report struct {
	// Timestamp is when the report was generated
	Timestamp time.Time `json:"timestamp"`
	// GoVersion is the Go version used
	GoVersion string `json:"goVersion"`
	// OS is the operating system
	OS string `json:"os"`
	// Arch is the CPU architecture
	Arch string `json:"arch"`
	// Results contains all benchmark results
	Results []Result `json:"results"`

	targets []Target
}

// NewReport creates a new benchmark report with the default targets.
func NewReport() *Report {
	return &Report{
		Timestamp: time.Now(),
		targets:   defaultTargets(),
	}
}

// benchLine matches one line of `go test -bench -benchmem` output:
// BenchmarkName-N    iterations    ns/op    B/op    allocs/op
var benchLine = regexp.MustCompile(`^(Benchmark\w+)(?:-\d+)?\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+(\d+)\s+B/op)?(?:\s+(\d+)\s+allocs/op)?`)

// ParseBenchmarkOutput parses Go benchmark output and returns results.
func ParseBenchmarkOutput(r io.Reader) ([]Result, error) {
	var results []Result
	currentPkg := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "pkg:") {
			if parts := strings.Fields(line); len(parts) >= 2 {
				currentPkg = parts[1]
			}
			continue
		}

		m := benchLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		result := Result{Name: m[1], Package: currentPkg}
		result.Iterations, _ = strconv.Atoi(m[2])
		result.NsPerOp, _ = strconv.ParseFloat(m[3], 64)
		if m[4] != "" {
			result.BytesPerOp, _ = strconv.ParseInt(m[4], 10, 64)
		}
		if m[5] != "" {
			result.AllocsPerOp, _ = strconv.ParseInt(m[5], 10, 64)
		}
		results = append(results, result)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading benchmark output: %w", err)
	}
	return results, nil
}

// AddResults adds benchmark results to the report.
func (r *Report) AddResults(results []Result) {
	r.Results = append(r.Results, results...)
}

// SetSystemInfo sets the system information for the report.
func (r *Report) SetSystemInfo(goVersion, os, arch string) {
	r.GoVersion = goVersion
	r.OS = os
	r.Arch = arch
}

// TargetCheck represents the result of checking a benchmark against a
// performance target.
type TargetCheck struct {
	Benchmark       string  `json:"benchmark"`
	Description     string  `json:"description"`
	Passed          bool    `json:"passed"`
	ActualNsPerOp   float64 `json:"actualNsPerOp"`
	TargetNsPerOp   float64 `json:"targetNsPerOp,omitempty"`
	ActualOpsPerSec float64 `json:"actualOpsPerSec,omitempty"`
	TargetOpsPerSec float64 `json:"targetOpsPerSec,omitempty"`
}

// CheckTargets checks benchmark results against the performance targets.
// Targets whose benchmark was not run are skipped.
func (r *Report) CheckTargets() []TargetCheck {
	byName := make(map[string]Result, len(r.Results))
	for _, result := range r.Results {
		byName[result.Name] = result
	}

	var checks []TargetCheck
	for _, target := range r.targets {
		result, ok := byName[target.Benchmark]
		if !ok {
			continue
		}

		check := TargetCheck{
			Benchmark:     target.Benchmark,
			Description:   target.Description,
			ActualNsPerOp: result.NsPerOp,
		}
		switch {
		case target.MaxNsPerOp > 0:
			check.TargetNsPerOp = target.MaxNsPerOp
			check.Passed = result.NsPerOp <= target.MaxNsPerOp
		case target.MinOpsPerSec > 0:
			check.ActualOpsPerSec = 1e9 / result.NsPerOp
			check.TargetOpsPerSec = target.MinOpsPerSec
			check.Passed = check.ActualOpsPerSec >= target.MinOpsPerSec
		}
		checks = append(checks, check)
	}
	return checks
}

// GenerateTextReport generates a text report.
func (r *Report) GenerateTextReport(w io.Writer) error {
	fmt.Fprintf(w, "=== revtree Performance Benchmark Report ===\n\n")
	fmt.Fprintf(w, "Generated: %s\n", r.Timestamp.Format(time.RFC3339))
	if r.GoVersion != "" {
		fmt.Fprintf(w, "Go Version: %s\n", r.GoVersion)
	}
	if r.OS != "" && r.Arch != "" {
		fmt.Fprintf(w, "Platform: %s/%s\n", r.OS, r.Arch)
	}
	fmt.Fprintln(w)

	for _, pkg := range r.packages() {
		results := r.packageResults(pkg)
		fmt.Fprintf(w, "--- Package: %s ---\n\n", pkg)

		fmt.Fprintf(w, "%-40s %12s %12s %12s %12s\n",
			"Benchmark", "Iterations", "ns/op", "B/op", "allocs/op")
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 90))
		for _, result := range results {
			fmt.Fprintf(w, "%-40s %12d %12.2f %12d %12d\n",
				result.Name, result.Iterations, result.NsPerOp,
				result.BytesPerOp, result.AllocsPerOp)
		}
		fmt.Fprintln(w)
	}

	checks := r.CheckTargets()
	if len(checks) == 0 {
		return nil
	}

	fmt.Fprintln(w, "=== Target Compliance ===")
	fmt.Fprintln(w)
	allPassed := true
	for _, check := range checks {
		status := "PASS"
		if !check.Passed {
			status = "FAIL"
			allPassed = false
		}

		var actual, target string
		if check.TargetNsPerOp > 0 {
			actual = formatDuration(check.ActualNsPerOp)
			target = fmt.Sprintf("< %s", formatDuration(check.TargetNsPerOp))
		} else {
			actual = formatOpsPerSec(check.ActualOpsPerSec)
			target = fmt.Sprintf(">= %s", formatOpsPerSec(check.TargetOpsPerSec))
		}
		fmt.Fprintf(w, "%-25s %-40s %12s %12s %8s\n",
			check.Benchmark, check.Description, actual, target, status)
	}

	fmt.Fprintln(w)
	if allPassed {
		fmt.Fprintln(w, "All targets met.")
	} else {
		fmt.Fprintln(w, "WARNING: some targets not met!")
	}
	return nil
}

// GenerateJSONReport generates a JSON report.
func (r *Report) GenerateJSONReport(w io.Writer) error {
	out := struct {
		*Report
		Checks []TargetCheck `json:"checks"`
	}{r, r.CheckTargets()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// SaveReport saves the report to a file.
func (r *Report) SaveReport(filename string, format string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	switch format {
	case "text", "txt":
		return r.GenerateTextReport(f)
	case "json":
		return r.GenerateJSONReport(f)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

// Summary returns a one-paragraph summary of the benchmark results.
func (r *Report) Summary() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total benchmarks: %d\n", len(r.Results)))

	if len(r.Results) > 0 {
		var totalNs float64
		var totalAllocs int64
		for _, result := range r.Results {
			totalNs += result.NsPerOp
			totalAllocs += result.AllocsPerOp
		}
		sb.WriteString(fmt.Sprintf("Average ns/op: %.2f\n", totalNs/float64(len(r.Results))))
		sb.WriteString(fmt.Sprintf("Average allocs/op: %.2f\n", float64(totalAllocs)/float64(len(r.Results))))
	}

	checks := r.CheckTargets()
	passed := 0
	for _, check := range checks {
		if check.Passed {
			passed++
		}
	}
	sb.WriteString(fmt.Sprintf("Targets: %d/%d passed\n", passed, len(checks)))
	return sb.String()
}

func (r *Report) packages() []string {
	seen := make(map[string]bool)
	var pkgs []string
	for _, result := range r.Results {
		pkg := result.Package
		if pkg == "" {
			pkg = "unknown"
		}
		if !seen[pkg] {
			seen[pkg] = true
			pkgs = append(pkgs, pkg)
		}
	}
	sort.Strings(pkgs)
	return pkgs
}

func (r *Report) packageResults(pkg string) []Result {
	var results []Result
	for _, result := range r.Results {
		p := result.Package
		if p == "" {
			p = "unknown"
		}
		if p == pkg {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return results
}

func formatDuration(ns float64) string {
	switch {
	case ns < 1000:
		return fmt.Sprintf("%.2f ns", ns)
	case ns < 1000000:
		return fmt.Sprintf("%.2f us", ns/1000)
	case ns < 1000000000:
		return fmt.Sprintf("%.2f ms", ns/1000000)
	}
	return fmt.Sprintf("%.2f s", ns/1000000000)
}

func formatOpsPerSec(ops float64) string {
	switch {
	case ops >= 1000000:
		return fmt.Sprintf("%.2fM/s", ops/1000000)
	case ops >= 1000:
		return fmt.Sprintf("%.2fK/s", ops/1000)
	}
	return fmt.Sprintf("%.2f/s", ops)
}
