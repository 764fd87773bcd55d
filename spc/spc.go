// Package spc turns statistical process-control chart metadata into
// generation requests: chart-type display names, suggestion prompt
// assembly, and the cache-key fields that make two semantically identical
// suggestion requests share one cached response.
package spc

import (
	"fmt"
	"strings"
)

// ChartType identifies a control chart variant.
type ChartType string

const (
	ChartXbarR ChartType = "xbar_r"
	ChartXbarS ChartType = "xbar_s"
	ChartIMR   ChartType = "i_mr"
	ChartP     ChartType = "p"
	ChartNP    ChartType = "np"
	ChartC     ChartType = "c"
	ChartU     ChartType = "u"
	ChartEWMA  ChartType = "ewma"
	ChartCUSUM ChartType = "cusum"
	ChartRun   ChartType = "run"
)

var displayNames = map[ChartType]string{
	ChartXbarR: "X̄-R chart (subgroup means and ranges)",
	ChartXbarS: "X̄-S chart (subgroup means and standard deviations)",
	ChartIMR:   "I-MR chart (individuals and moving range)",
	ChartP:     "p chart (proportion nonconforming)",
	ChartNP:    "np chart (count nonconforming)",
	ChartC:     "c chart (count of defects)",
	ChartU:     "u chart (defects per unit)",
	ChartEWMA:  "EWMA chart (exponentially weighted moving average)",
	ChartCUSUM: "CUSUM chart (cumulative sum)",
	ChartRun:   "run chart",
}

// DisplayName translates the chart-type code into the name used in
// prompts. Unknown codes pass through unchanged so a new chart type
// degrades to its raw identifier instead of failing.
func (t ChartType) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

// Known reports whether the chart type has a registered display name.
func (t ChartType) Known() bool {
	_, ok := displayNames[t]
	return ok
}

// SuggestionRequest carries the chart metadata a suggestion is generated
// from. Every field here is semantically relevant and participates in the
// cache key; volatile values (timestamps, UI state) must stay out.
type SuggestionRequest struct {
	ChartType   ChartType
	Process     string
	CenterLine  float64
	UCL         float64
	LCL         float64
	SampleSize  int
	Violations  []string
	UserContext string
	MaxChars    int
}

// Validate rejects requests that cannot produce a meaningful prompt.
func (r *SuggestionRequest) Validate() error {
	if strings.TrimSpace(string(r.ChartType)) == "" {
		return fmt.Errorf("spc: chart type must not be empty")
	}
	if strings.TrimSpace(r.Process) == "" {
		return fmt.Errorf("spc: process name must not be empty")
	}
	return nil
}

// Prompt assembles the generation prompt for this request.
func (r *SuggestionRequest) Prompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are assisting with statistical process control.\n")
	fmt.Fprintf(&b, "Chart: %s for process %q.\n", r.ChartType.DisplayName(), r.Process)
	fmt.Fprintf(&b, "Center line %.4g, UCL %.4g, LCL %.4g", r.CenterLine, r.UCL, r.LCL)
	if r.SampleSize > 0 {
		fmt.Fprintf(&b, ", subgroup size %d", r.SampleSize)
	}
	b.WriteString(".\n")
	if len(r.Violations) > 0 {
		fmt.Fprintf(&b, "Detected signals: %s.\n", strings.Join(r.Violations, "; "))
	} else {
		b.WriteString("No control rule violations detected.\n")
	}
	if ctx := strings.TrimSpace(r.UserContext); ctx != "" {
		fmt.Fprintf(&b, "Operator context: %s\n", ctx)
	}
	max := r.MaxChars
	if max <= 0 {
		max = 500
	}
	fmt.Fprintf(&b, "Give one short, concrete suggestion (at most %d characters) for what to do next.", max)
	return b.String()
}

// KeyFields returns the flat bag of cache-key inputs for this request:
// chart metadata, user-supplied context and the length bound.
func (r *SuggestionRequest) KeyFields() map[string]any {
	return map[string]any{
		"chart_type":   string(r.ChartType),
		"process":      r.Process,
		"center_line":  r.CenterLine,
		"ucl":          r.UCL,
		"lcl":          r.LCL,
		"sample_size":  r.SampleSize,
		"violations":   strings.Join(r.Violations, ";"),
		"user_context": r.UserContext,
		"max_chars":    r.MaxChars,
	}
}
