package cli

import (
	"fmt"
	"time"
)

type ExportStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type ReportIssue struct {
	Subject string
	Message string
	Details []string
}

type ExportReport struct {
	out         *Output
	steps       []ExportStep
	warnings    []ReportIssue
	errors      []ReportIssue
	startTime   time.Time
	workCount   int
	outputDir   string
	hasFailures bool
}

func NewExportReport(out *Output, outputDir string) *ExportReport {
	return &ExportReport{
		out:       out,
		steps:     make([]ExportStep, 0),
		warnings:  make([]ReportIssue, 0),
		errors:    make([]ReportIssue, 0),
		startTime: time.Now(),
		outputDir: outputDir,
	}
}

func (r *ExportReport) SetWorkCount(count int) {
	r.workCount = count
}

func (r *ExportReport) StartStep(name string) int {
	r.steps = append(r.steps, ExportStep{
		Name:      name,
		StartTime: time.Now(),
	})
	return len(r.steps) - 1
}

func (r *ExportReport) EndStep(id int, err error) {
	step := &r.steps[id]
	step.EndTime = time.Now()
	step.Success = err == nil
	if err != nil {
		step.Error = err.Error()
		r.hasFailures = true
	}
}

func (r *ExportReport) AddWarning(subject string, message string, details []string) {
	r.warnings = append(r.warnings, ReportIssue{
		Subject: subject,
		Message: message,
		Details: details,
	})
}

func (r *ExportReport) AddError(subject string, message string, details []string) {
	r.errors = append(r.errors, ReportIssue{
		Subject: subject,
		Message: message,
		Details: details,
	})
	r.hasFailures = true
}

func (r *ExportReport) Render() {
	duration := time.Since(r.startTime)

	if len(r.errors) == 0 && len(r.warnings) == 0 && !r.hasFailures {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *ExportReport) renderMinimal(duration time.Duration) {
	w := r.out.out
	fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"%d works found\n", r.workCount)
	fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"Export complete in %s\n", formatDuration(duration))

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Output: "+r.outputDir))
	}
}

func (r *ExportReport) renderVerbose(duration time.Duration) {
	w := r.out.out
	fmt.Fprintf(w, "  %d works found\n", r.workCount)

	fmt.Fprintln(w)
	for _, step := range r.steps {
		status := r.out.Green("✓")
		if !step.Success {
			status = r.out.Red("✗")
		}
		fmt.Fprintf(w, "  %s %s\n", status, step.Name)
		if step.Error != "" {
			fmt.Fprintf(w, "      %s\n", step.Error)
		}
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(r.out.errOut, "  "+r.out.Red("✗ ")+"Errors (%d):\n", len(r.errors))
		r.renderIssues(r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  "+r.out.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		r.renderIssues(r.warnings)
	}

	fmt.Fprintln(w)
	if r.hasFailures {
		fmt.Fprintf(r.out.errOut, "  %s\n", r.out.Red(fmt.Sprintf("Export failed after %s", formatDuration(duration))))
	} else {
		fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"Export complete in %s\n", formatDuration(duration))
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Output: "+r.outputDir))
	}
}

func (r *ExportReport) renderIssues(issues []ReportIssue) {
	w := r.out.out
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s %s\n", r.out.Red("✗"), issue.Subject)
		fmt.Fprintf(w, "    %s\n", issue.Message)

		for _, detail := range deduplicateStrings(issue.Details) {
			fmt.Fprintf(w, "      • %s\n", detail)
		}
	}
}

func (r *ExportReport) HasFailures() bool {
	return r.hasFailures
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings keeps first-seen order and annotates repeats.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}

	return result
}
