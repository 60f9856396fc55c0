package grain

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/banshee-data/mlography/internal/fsutil"
	"github.com/banshee-data/mlography/internal/imageio"
	"golang.org/x/sync/errgroup"
)

// Source is one folder of segmentation images and the model label its
// records are filed under.
type Source struct {
	Folder string
	Model  string
}

// ImageResult is the measurement of one image.
type ImageResult struct {
	Model       string
	Identifier  string
	Filename    string
	Measurement *Measurement
}

// Records returns one record per valid line.
func (r ImageResult) Records() []Record {
	var out []Record
	for _, l := range r.Measurement.Lines {
		if !l.Valid {
			continue
		}
		out = append(out, Record{
			Model:      r.Model,
			Identifier: r.Identifier,
			Filename:   r.Filename,
			Line:       l.Index,
			GrainSize:  l.GrainSize,
		})
	}
	return out
}

// BatchResult collects a batch run. Images are in task order; Records are
// sorted with SortRecords.
type BatchResult struct {
	Images  []ImageResult
	Records []Record
	// Skipped counts images that could not be decoded or measured.
	Skipped int
}

// Batch measures every image of a set of sources on a bounded worker pool.
type Batch struct {
	FS        fsutil.FileSystem
	Estimator *Estimator
	// Workers bounds concurrent tasks; 0 means runtime.NumCPU().
	Workers int
	Exts    []string
	// Seed drives random lines. Each task gets its own stream derived from
	// the seed and its position, so results do not depend on Workers.
	Seed uint64
	// AnnotateDir, when set, receives heyn_<name> overlays under a
	// per-model subdirectory.
	AnnotateDir string
}

type task struct {
	seq    int
	folder string
	model  string
	name   string
}

// Run measures all images in sources. Missing folders and unreadable images
// are logged and skipped. If ctx is cancelled no new tasks start and the
// partial result is returned with the context error.
func (b *Batch) Run(ctx context.Context, sources []Source) (*BatchResult, error) {
	tasks := b.plan(sources)
	res := &BatchResult{}

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type result struct {
		seq int
		img *ImageResult
	}
	results := make(chan result)
	byTask := make([]*ImageResult, len(tasks))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range results {
			if r.img == nil {
				res.Skipped++
				continue
			}
			byTask[r.seq] = r.img
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := b.process(t)
			if err != nil {
				logf("skipping %s: %v", filepath.Join(t.folder, t.name), err)
			}
			results <- result{seq: t.seq, img: img}
			return nil
		})
	}
	err := g.Wait()
	close(results)
	<-done

	for _, img := range byTask {
		if img == nil {
			continue
		}
		res.Images = append(res.Images, *img)
		res.Records = append(res.Records, img.Records()...)
	}
	SortRecords(res.Records)

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return res, fmt.Errorf("grain batch: %w", err)
	}
	logf("measured %d images, skipped %d, %d records", len(res.Images), res.Skipped, len(res.Records))
	return res, nil
}

func (b *Batch) plan(sources []Source) []task {
	var tasks []task
	for _, src := range sources {
		names, err := fsutil.ListImages(b.FS, src.Folder, b.Exts)
		if err != nil {
			logf("folder %s for model %q: %v", src.Folder, src.Model, err)
			continue
		}
		if len(names) == 0 {
			logf("no images in %s", src.Folder)
			continue
		}
		for _, name := range names {
			tasks = append(tasks, task{seq: len(tasks), folder: src.Folder, model: src.Model, name: name})
		}
	}
	return tasks
}

func (b *Batch) process(t task) (*ImageResult, error) {
	path := filepath.Join(t.folder, t.name)
	logf("processing image: %s", path)

	img, err := imageio.Load(b.FS, path)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(b.Seed, uint64(t.seq)))
	m, err := b.Estimator.Measure(img, rng)
	if err != nil {
		return nil, err
	}

	r := &ImageResult{
		Model:       t.model,
		Identifier:  ExtractDegem(t.name),
		Filename:    t.name,
		Measurement: m,
	}

	if b.AnnotateDir != "" {
		dir := filepath.Join(b.AnnotateDir, ModelDirName(t.model))
		out := filepath.Join(dir, "heyn_"+t.name)
		if err := b.FS.MkdirAll(dir, 0755); err != nil {
			logf("annotate %s: %v", out, err)
		} else if err := imageio.Save(b.FS, out, Annotate(img, m)); err != nil {
			logf("annotate %s: %v", out, err)
		}
	}
	return r, nil
}

// ModelDirName turns a model label into a directory name.
func ModelDirName(model string) string {
	return strings.ReplaceAll(model, " ", "_")
}
