// Package processor is the concurrent front door of the pipeline: it
// decodes buffers on a fixed worker pool, deduplicates concurrent decodes
// of identical content, and caches finished results by content hash.
package processor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
	"resenje.org/singleflight"

	"github.com/gchahal1982/G3DAI-sub005/internal/clinical"
	"github.com/gchahal1982/G3DAI-sub005/internal/dicom"
	"github.com/gchahal1982/G3DAI-sub005/internal/image"
)

// ErrClosed is returned by Decode after Close.
var ErrClosed = errors.New("processor: closed")

// DecodedImage bundles everything one decode produces.
type DecodedImage struct {
	// ID joins the study, series and SOP instance UIDs, which is unique
	// per instance in well-formed data.
	ID string

	Dataset  *dicom.Dataset
	Metadata *clinical.Metadata
	Geometry *image.Geometry

	// PixelBuffer aliases the input buffer; treat as read-only.
	PixelBuffer []byte

	Processing ProcessingInfo
}

// ProcessingInfo reports how a decode went.
type ProcessingInfo struct {
	Elapsed       time.Duration
	Quality       image.Quality
	Optimizations []string
	Accelerated   bool
}

// Config tunes a Processor. Zero values select the defaults.
type Config struct {
	// Workers is the fixed pool size. Defaults to the CPU count.
	Workers int
	// CacheCapacity bounds the result cache. Defaults to 100 entries.
	CacheCapacity int
	// Enhancers run in order over the pixel buffer of every decode.
	Enhancers []image.Enhancer
	// Logger receives per-decode debug lines. Defaults to the standard
	// logrus logger.
	Logger *logrus.Logger
}

type task struct {
	buf []byte
	key string
	res chan taskResult
}

type taskResult struct {
	img *DecodedImage
	err error
}

// Processor owns a worker pool and a result cache. Construct with New,
// release with Close.
type Processor struct {
	log       *logrus.Logger
	enhancers []image.Enhancer

	cache *resultCache
	group singleflight.Group[string, *DecodedImage]

	workers int
	tasks   chan task
	quit    chan struct{}
	wg      sync.WaitGroup

	closeOnce  sync.Once
	processing atomic.Int64

	// Cumulative counters since construction.
	decodes   atomic.Int64
	cacheHits atomic.Int64
	failures  atomic.Int64
}

// New starts the worker pool and returns a ready Processor.
func New(cfg Config) *Processor {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	p := &Processor{
		log:       cfg.Logger,
		enhancers: cfg.Enhancers,
		cache:     newResultCache(cfg.CacheCapacity),
		workers:   cfg.Workers,
		tasks:     make(chan task, cfg.Workers*2),
		quit:      make(chan struct{}),
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// contentKey derives the cache key from the buffer alone, so the same
// bytes hit the same entry no matter where or when they came from.
func contentKey(buf []byte) string {
	return fmt.Sprintf("%d-%016x", len(buf), xxhash.Sum64(buf))
}

// Decode runs the full pipeline over one buffer: parse, clinical and
// geometry extraction, pixel access, enhancement passes and quality
// statistics.
//
// Results are cached by content hash; identical buffers decoded
// concurrently share one execution. Cancelling ctx abandons the wait but
// lets in-flight work finish for any other caller joined on it.
func (p *Processor) Decode(ctx context.Context, buf []byte) (*DecodedImage, error) {
	select {
	case <-p.quit:
		return nil, ErrClosed
	default:
	}

	key := contentKey(buf)
	if img, ok := p.cache.get(key); ok {
		p.cacheHits.Add(1)
		p.log.WithField("key", key).Debug("cache hit")
		return img, nil
	}

	img, shared, err := p.group.Do(ctx, key, func(ctx context.Context) (*DecodedImage, error) {
		return p.dispatch(ctx, task{buf: buf, key: key, res: make(chan taskResult, 1)})
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.log.WithField("key", key).Debug("joined in-flight decode")
	}
	return img, nil
}

func (p *Processor) dispatch(ctx context.Context, t task) (*DecodedImage, error) {
	select {
	case p.tasks <- t:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrClosed
	}

	select {
	case r := <-t.res:
		return r.img, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrClosed
	}
}

func (p *Processor) worker() {
	defer p.wg.Done()
	for {
		select {
		case t := <-p.tasks:
			p.processing.Add(1)
			img, err := p.process(t.buf)
			p.processing.Add(-1)
			p.decodes.Add(1)
			if err == nil {
				p.cache.put(t.key, img)
			} else {
				p.failures.Add(1)
			}
			t.res <- taskResult{img: img, err: err}
		case <-p.quit:
			return
		}
	}
}

// process is one full pipeline run. It is the only place a decode error
// can originate.
func (p *Processor) process(buf []byte) (*DecodedImage, error) {
	start := time.Now()

	ds, err := dicom.Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	md := clinical.Extract(ds)
	geo := image.ExtractGeometry(ds)

	pixels, err := image.ExtractPixels(ds)
	if err != nil {
		return nil, fmt.Errorf("extract pixels: %w", err)
	}
	if msg := image.CheckSize(pixels, geo); msg != "" {
		p.log.WithField("id", imageID(md)).Warn(msg)
	}

	optimizations := make([]string, 0, len(p.enhancers))
	for _, enh := range p.enhancers {
		out, err := enh.Enhance(pixels, geo)
		if err != nil {
			return nil, fmt.Errorf("enhance %s: %w", enh.Name(), err)
		}
		pixels = out
		optimizations = append(optimizations, enh.Name())
	}

	img := &DecodedImage{
		ID:          imageID(md),
		Dataset:     ds,
		Metadata:    md,
		Geometry:    geo,
		PixelBuffer: pixels,
		Processing: ProcessingInfo{
			Elapsed:       time.Since(start),
			Quality:       image.AssessQuality(pixels, geo),
			Optimizations: optimizations,
		},
	}

	p.log.WithFields(logrus.Fields{
		"id":       img.ID,
		"elapsed":  img.Processing.Elapsed,
		"warnings": len(ds.Warnings),
	}).Debug("decoded dataset")
	return img, nil
}

func imageID(md *clinical.Metadata) string {
	parts := []string{
		md.Study.InstanceUID,
		md.Series.InstanceUID,
		md.Image.SOPInstanceUID,
	}
	id := strings.Trim(strings.Join(parts, "_"), "_")
	if id == "" {
		return "unidentified"
	}
	return id
}

// Close stops the workers, drops every cached result and fails pending
// and future Decode calls with ErrClosed. Safe to call more than once.
func (p *Processor) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.wg.Wait()
		p.cache.clear()
	})
}
