package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gchahal1982/G3DAI-sub005/internal/dicom"
	"github.com/gchahal1982/G3DAI-sub005/internal/forge"
	"github.com/gchahal1982/G3DAI-sub005/internal/image"
	"github.com/gchahal1982/G3DAI-sub005/internal/processor"
)

// version is set at build time via -ldflags
var version = "dev"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func main() {
	// Check for generate subcommand (before flag.Parse)
	if len(os.Args) > 1 && os.Args[1] == "generate" {
		os.Exit(runGenerate(os.Args[2:]))
	}

	workers := flag.Int("workers", 0, fmt.Sprintf("Number of decode workers (default: %d = CPU cores)", runtime.NumCPU()))
	cacheSize := flag.Int("cache", 100, "Decoded result cache capacity")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showMetrics := flag.Bool("metrics", false, "Print processor metrics after decoding")
	enhance := flag.Bool("enhance", false, "Run the enhancement passes on decoded pixels")
	showVersion := flag.Bool("version", false, "Show version")

	var tagNames []string
	flag.Func("tag", "Print a tag by name, e.g. 'PatientName' (repeatable)", func(s string) error {
		if _, err := dicom.LookupName(s); err != nil {
			return err
		}
		tagNames = append(tagNames, s)
		return nil
	})

	flag.Parse()

	if *showVersion {
		fmt.Printf("dicomview %s\n", version)
		os.Exit(0)
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: dicomview [flags] <file>...")
		fmt.Fprintln(os.Stderr, "       dicomview generate [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *workers <= 0 {
		*workers = runtime.NumCPU()
	}
	cfg := processor.Config{
		Workers:       *workers,
		CacheCapacity: *cacheSize,
		Logger:        log,
	}
	if *enhance {
		cfg.Enhancers = []image.Enhancer{
			image.NoiseReduction{},
			image.ContrastEnhancement{},
		}
	}
	proc := processor.New(cfg)
	defer proc.Close()

	var mu sync.Mutex
	reports := make(map[string]string, len(files))
	failed := false

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.Workers + 1)
	for _, path := range files {
		path := path
		g.Go(func() error {
			report, err := decodeFile(ctx, proc, path, tagNames)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				reports[path] = errorStyle.Render(fmt.Sprintf("✗ %s: %v", path, err))
				failed = true
				return nil
			}
			reports[path] = report
			return nil
		})
	}
	_ = g.Wait()

	// Stable output order regardless of decode completion order.
	sorted := make([]string, 0, len(files))
	for _, path := range files {
		if _, seen := reports[path]; !seen {
			continue
		}
		sorted = append(sorted, path)
	}
	sort.Strings(sorted)
	for _, path := range sorted {
		fmt.Println(reports[path])
	}

	if *showMetrics {
		m := proc.Metrics()
		fmt.Println(titleStyle.Render("Processor"))
		fmt.Printf("  %s %d/%d entries\n", labelStyle.Render("cache:"), m.CacheSize, m.CacheCapacity)
		fmt.Printf("  %s %d\n", labelStyle.Render("workers:"), m.WorkerCount)
		fmt.Printf("  %s %d decodes, %d cache hits, %d failures\n",
			labelStyle.Render("totals:"), m.Decodes, m.CacheHits, m.Failures)
	}

	if failed {
		os.Exit(1)
	}
}

func decodeFile(ctx context.Context, proc *processor.Processor, path string, tagNames []string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	img, err := proc.Decode(ctx, buf)
	if err != nil {
		return "", err
	}
	return renderReport(path, img, tagNames), nil
}

func renderReport(path string, img *processor.DecodedImage, tagNames []string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("✓ %s", path)))
	b.WriteString("\n")
	writeLine := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(label+":"), value)
	}

	md := img.Metadata
	writeLine("patient", fmt.Sprintf("%s (%s)", md.Patient.Name, orDash(md.Patient.ID)))
	writeLine("study", fmt.Sprintf("%s %s", orDash(md.Study.Description), orDash(md.Study.InstanceUID)))
	writeLine("series", fmt.Sprintf("%s #%d %s", md.Series.Modality, md.Series.Number, orDash(md.Series.Description)))

	g := img.Geometry
	writeLine("geometry", fmt.Sprintf("%dx%dx%d, %d bits, %.2fx%.2f mm",
		g.Columns, g.Rows, g.NumberOfFrames, g.BitsAllocated, g.PixelSpacing[1], g.PixelSpacing[0]))
	writeLine("pixels", fmt.Sprintf("%d bytes", len(img.PixelBuffer)))

	q := img.Processing.Quality
	writeLine("quality", fmt.Sprintf("snr=%.2f contrast=%.3f sharpness=%.4f", q.SNR, q.Contrast, q.Sharpness))
	writeLine("decoded in", img.Processing.Elapsed.String())
	if len(img.Processing.Optimizations) > 0 {
		writeLine("passes", strings.Join(img.Processing.Optimizations, ", "))
	}

	for _, name := range tagNames {
		entry, err := dicom.LookupName(name)
		if err != nil {
			continue
		}
		writeLine(entry.Name, orDash(img.Dataset.GetString(entry.Tag, "")))
	}

	for _, w := range img.Dataset.Warnings {
		b.WriteString("  " + warnStyle.Render("warning: "+w) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// runGenerate writes a sample file, handy for trying the viewer without
// real data on hand.
func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	out := fs.String("out", "sample.dcm", "Output file path")
	rows := fs.Int("rows", 256, "Image rows")
	cols := fs.Int("cols", 256, "Image columns")
	modality := fs.String("modality", "MR", "Modality code")
	patient := fs.String("patient", "", "Patient name")
	overlay := fs.String("overlay", "SAMPLE", "Text burned into the pixels")
	seed := fs.Uint64("seed", 1, "Pixel noise seed")
	_ = fs.Parse(args)

	err := forge.WriteFixture(forge.FixtureOptions{
		Path:        *out,
		Rows:        *rows,
		Columns:     *cols,
		Modality:    *modality,
		PatientName: *patient,
		Overlay:     *overlay,
		Seed:        *seed,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		return 1
	}
	fmt.Printf("✓ wrote %s (%dx%d %s)\n", *out, *cols, *rows, *modality)
	return 0
}
