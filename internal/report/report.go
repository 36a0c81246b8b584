// Package report renders analysis results for people (detailed text or a
// summary table) and for machines (JSON or YAML export).
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dbsmedya/keyprofiler/internal/analyzer"
	"github.com/dbsmedya/keyprofiler/internal/config"
	"github.com/dbsmedya/keyprofiler/internal/profiler"
)

const bytesPerMB = 1024 * 1024

// Options controls rendering.
type Options struct {
	Color        bool // ANSI colours in the detailed report
	PreviewWidth int  // display columns per preview line
	SampleKeys   int  // sample keys listed per pattern
	SampleData   int  // sample previews listed per pattern
}

// DefaultOptions returns the rendering defaults.
func DefaultOptions() Options {
	return Options{PreviewWidth: 100, SampleKeys: 3, SampleData: 2}
}

// Formatter writes reports to w.
type Formatter struct {
	w    io.Writer
	opts Options
	num  *message.Printer
}

// New creates a Formatter. Zero limits fall back to the defaults.
func New(w io.Writer, opts Options) *Formatter {
	def := DefaultOptions()
	if opts.PreviewWidth <= 0 {
		opts.PreviewWidth = def.PreviewWidth
	}
	if opts.SampleKeys <= 0 {
		opts.SampleKeys = def.SampleKeys
	}
	if opts.SampleData <= 0 {
		opts.SampleData = def.SampleData
	}
	return &Formatter{
		w:    w,
		opts: opts,
		num:  message.NewPrinter(language.English),
	}
}

// Write renders res in the named format.
func (f *Formatter) Write(res analyzer.AnalysisResult, format string) error {
	switch format {
	case config.FormatDetailed, "":
		return f.Detailed(res)
	case config.FormatSummary:
		return f.Summary(res)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Detailed writes the summary block followed by every pattern, largest
// first.
func (f *Formatter) Detailed(res analyzer.AnalysisResult) error {
	f.header("Key Pattern Analysis")
	f.summaryBlock(res)

	fmt.Fprintln(f.w)
	f.section("Key Patterns (sorted by count)")
	for _, p := range res.Ordered() {
		fmt.Fprintln(f.w)
		f.pattern(p)
	}
	return nil
}

// Summary writes the summary block and a table of pattern counts.
func (f *Formatter) Summary(res analyzer.AnalysisResult) error {
	f.header("Key Pattern Summary")
	f.summaryBlock(res)
	fmt.Fprintln(f.w)

	t := table.NewWriter()
	t.SetOutputMirror(f.w)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Keys", "Pattern"})
	for _, p := range res.Ordered() {
		t.AppendRow(table.Row{f.num.Sprintf("%d", p.TotalKeys), p.Pattern})
	}
	t.Render()
	return nil
}

func (f *Formatter) summaryBlock(res analyzer.AnalysisResult) {
	mem := res.TotalMemoryBytes()
	f.section("Summary")
	fmt.Fprintf(f.w, "  Total Keys:      %s\n", f.num.Sprintf("%d", res.TotalKeys))
	fmt.Fprintf(f.w, "  Unique Patterns: %d\n", len(res.Patterns))
	fmt.Fprintf(f.w, "  Total Memory:    %s bytes (%.2f MB, sampled keys only)\n",
		f.num.Sprintf("%d", mem), float64(mem)/bytesPerMB)
	if res.RunID != "" {
		fmt.Fprintf(f.w, "  Run:             %s (scan %s, total %s)\n", res.RunID, res.ScanDuration, res.Duration)
	}
}

func (f *Formatter) pattern(p analyzer.PatternReport) {
	fmt.Fprintf(f.w, "  Pattern: %s\n", f.paint(color.Cyan, p.Pattern))
	fmt.Fprintf(f.w, "    Count:   %s keys\n", f.num.Sprintf("%d", p.TotalKeys))
	fmt.Fprintf(f.w, "    Types:   %s\n", shapeLine(p.Shapes))

	if p.AvgMemoryBytes > 0 {
		fmt.Fprintf(f.w, "    Memory:  %s bytes (avg %s bytes/key, ~%s bytes estimated for all keys)\n",
			f.num.Sprintf("%d", p.MemoryBytes),
			f.num.Sprintf("%.1f", p.AvgMemoryBytes),
			f.num.Sprintf("%d", p.EstimatedMemoryBytes()),
		)
	}

	if p.TTL[profiler.TTLTimed] > 0 {
		fmt.Fprintf(f.w, "    TTL:     %d with TTL, %d permanent, %d expired\n",
			p.TTL[profiler.TTLTimed], p.TTL[profiler.TTLPermanent], p.TTL[profiler.TTLExpired])
	}

	if p.Failed > 0 {
		fmt.Fprintf(f.w, "    %s %d of %d samples could not be profiled\n",
			f.paint(color.Yellow, "Failed:"), p.Failed, p.Sampled)
		for _, fl := range p.Failures {
			fmt.Fprintf(f.w, "      • %s: %s\n", fl.Key, f.clip(fl.Reason, 6))
		}
	}

	if len(p.SampleKeys) > 0 {
		fmt.Fprintln(f.w, "    Sample keys:")
		for i, k := range p.SampleKeys {
			if i == f.opts.SampleKeys {
				break
			}
			fmt.Fprintf(f.w, "      • %s\n", k)
		}
	}

	if len(p.Samples) > 0 {
		fmt.Fprintln(f.w, "    Sample data:")
		for i, s := range p.Samples {
			if i == f.opts.SampleData {
				break
			}
			fmt.Fprintf(f.w, "      • %s (%s)\n", s.Key, s.Shape)
			fmt.Fprintf(f.w, "        → %s\n", f.clip(PreviewText(s), 10))
		}
	}
}

// clip truncates s to the preview width, less indent columns.
func (f *Formatter) clip(s string, indent int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, f.opts.PreviewWidth-indent, "...")
}

func (f *Formatter) paint(c color.Color, s string) string {
	if !f.opts.Color {
		return s
	}
	return c.Sprint(s)
}

func (f *Formatter) header(title string) {
	width := runewidth.StringWidth(title) + 4
	fmt.Fprintln(f.w, strings.Repeat("=", width))
	fmt.Fprintf(f.w, "  %s\n", f.paint(color.Bold, title))
	fmt.Fprintln(f.w, strings.Repeat("=", width))
	fmt.Fprintln(f.w)
}

func (f *Formatter) section(title string) {
	fmt.Fprintf(f.w, "[%s]\n", title)
	fmt.Fprintln(f.w, strings.Repeat("-", runewidth.StringWidth(title)+2))
}

// shapeLine renders a histogram as "scalar=3, map=1", most frequent first.
func shapeLine(h map[profiler.Shape]int) string {
	if len(h) == 0 {
		return "none profiled"
	}
	shapes := make([]profiler.Shape, 0, len(h))
	for s := range h {
		shapes = append(shapes, s)
	}
	sort.Slice(shapes, func(i, j int) bool {
		if h[shapes[i]] != h[shapes[j]] {
			return h[shapes[i]] > h[shapes[j]]
		}
		return shapes[i] < shapes[j]
	})
	parts := make([]string, len(shapes))
	for i, s := range shapes {
		parts[i] = fmt.Sprintf("%s=%d", s, h[s])
	}
	return strings.Join(parts, ", ")
}
