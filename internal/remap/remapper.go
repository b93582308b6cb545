package remap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/macarthurlab/leiden/internal/hgvs"
)

// Service is the batch job protocol of the remapping service.
// *Client implements it.
type Service interface {
	SubmitVariantBatch(ctx context.Context, variants []string) int
	WaitForBatch(ctx context.Context, id int) error
	GetBatchResults(ctx context.Context, id int) ([]string, error)
	RemapVariant(ctx context.Context, variant string) (string, error)
}

// Cache remembers successful remappings between runs.
type Cache interface {
	Lookup(ctx context.Context, variant string) (genomic string, ok bool, err error)
	Store(ctx context.Context, variant, genomic string) error
}

// Result is the outcome of remapping one variant.
type Result struct {
	Input   string
	Genomic string // genomic HGVS, "" on failure
	Variant hgvs.GenomicVariant
	Err     error
	Cached  bool
}

// OK reports whether the variant was remapped.
func (r Result) OK() bool {
	return r.Err == nil && r.Genomic != ""
}

// Remapper remaps variant lists in batches, falling back to single variant
// requests when a batch cannot be used.
type Remapper struct {
	svc       Service
	cache     Cache
	batchSize int
	logger    *zap.Logger
}

// NewRemapper creates a Remapper. cache may be nil.
func NewRemapper(svc Service, cache Cache, batchSize int) *Remapper {
	if batchSize <= 0 {
		batchSize = DefaultConfig().BatchSize
	}
	return &Remapper{
		svc:       svc,
		cache:     cache,
		batchSize: batchSize,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (r *Remapper) SetLogger(l *zap.Logger) {
	r.logger = l
}

// RemapAll remaps variants and returns one Result per input, in input order.
func (r *Remapper) RemapAll(ctx context.Context, variants []string) []Result {
	results := make([]Result, len(variants))
	var pending []int

	for i, v := range variants {
		results[i].Input = v
		if genomic, ok := r.lookup(ctx, v); ok {
			results[i] = r.resolved(v, genomic)
			results[i].Cached = true
			continue
		}
		pending = append(pending, i)
	}

	for start := 0; start < len(pending); start += r.batchSize {
		end := min(start+r.batchSize, len(pending))
		chunk := pending[start:end]

		if err := ctx.Err(); err != nil {
			for _, i := range pending[start:] {
				results[i].Err = err
			}
			break
		}

		if len(chunk) == 1 {
			r.remapSingle(ctx, results, chunk)
			continue
		}
		r.remapBatch(ctx, results, chunk)
	}

	return results
}

func (r *Remapper) remapBatch(ctx context.Context, results []Result, chunk []int) {
	inputs := make([]string, len(chunk))
	for j, i := range chunk {
		inputs[j] = results[i].Input
	}

	id := r.svc.SubmitVariantBatch(ctx, inputs)
	if id == FailedToSubmit {
		r.logger.Info("batch rejected, remapping variants individually", zap.Int("variants", len(chunk)))
		r.remapSingle(ctx, results, chunk)
		return
	}

	if err := r.svc.WaitForBatch(ctx, id); err != nil {
		if errors.Is(err, ErrTimeout) || ctx.Err() != nil {
			r.logger.Warn("batch did not complete", zap.Int("job", id), zap.Error(err))
			for _, i := range chunk {
				results[i].Err = err
			}
			return
		}
		r.logger.Warn("batch polling failed, remapping variants individually", zap.Int("job", id), zap.Error(err))
		r.remapSingle(ctx, results, chunk)
		return
	}

	mapped, err := r.svc.GetBatchResults(ctx, id)
	if err != nil || len(mapped) != len(chunk) {
		r.logger.Warn("unusable batch results, remapping variants individually",
			zap.Int("job", id), zap.Int("submitted", len(chunk)), zap.Int("returned", len(mapped)), zap.Error(err))
		r.remapSingle(ctx, results, chunk)
		return
	}

	for j, i := range chunk {
		if mapped[j] == "" {
			results[i].Err = fmt.Errorf("%w: %s: no genomic mapping", ErrRemapping, results[i].Input)
			continue
		}
		results[i] = r.resolved(results[i].Input, mapped[j])
		r.store(ctx, results[i])
	}
}

func (r *Remapper) remapSingle(ctx context.Context, results []Result, chunk []int) {
	for _, i := range chunk {
		v := results[i].Input
		genomic, err := r.svc.RemapVariant(ctx, v)
		if err != nil || genomic == "" {
			if err == nil {
				err = fmt.Errorf("%w: %s: no genomic mapping", ErrRemapping, v)
			}
			results[i].Err = err
			continue
		}
		results[i] = r.resolved(v, genomic)
		r.store(ctx, results[i])
	}
}

func (r *Remapper) resolved(input, genomic string) Result {
	return Result{
		Input:   input,
		Genomic: genomic,
		Variant: hgvs.ParseGenomic(genomic),
	}
}

func (r *Remapper) lookup(ctx context.Context, variant string) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	genomic, ok, err := r.cache.Lookup(ctx, variant)
	if err != nil {
		r.logger.Warn("remap cache lookup failed", zap.String("variant", variant), zap.Error(err))
		return "", false
	}
	return genomic, ok && genomic != ""
}

func (r *Remapper) store(ctx context.Context, res Result) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Store(ctx, res.Input, res.Genomic); err != nil {
		r.logger.Warn("remap cache store failed", zap.String("variant", res.Input), zap.Error(err))
	}
}
