package svtoolbox_api

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// The defaults of the breakpoint support validation
const (
	DefaultTolerance   = 5
	DefaultMinDeletion = 20
)

// The settings of the breakpoint support validation
type ValidationOptions struct {
	// The maximum distance in bases between a junction and a breakpoint
	Tolerance int

	// The minimum length of a deletion in the alignment to count as a junction
	MinDeletion int
}

// DefaultValidationOptions returns the default tolerance and minimum deletion length
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		Tolerance:   DefaultTolerance,
		MinDeletion: DefaultMinDeletion,
	}
}

// CheckContigSupport decides whether the alignments of the assembled contig of
// a variant break at both of its breakpoints
// No alignments means no support, it is never an error
func CheckContigSupport(variant *Variant, alignments []AlignedSegment, options ValidationOptions) (bool, error) {
	if len(alignments) == 0 {
		return false, nil
	}

	first, second, err := variant.Breakpoints()
	if err != nil {
		return false, err
	}

	return corroborates(alignments, first, options) && corroborates(alignments, second, options), nil
}

// Check if any of the alignments has a junction near the breakpoint
func corroborates(alignments []AlignedSegment, breakpoint Breakpoint, options ValidationOptions) bool {
	for _, alignment := range alignments {
		if alignment.Contig != breakpoint.Chromosome {
			continue
		}
		for _, junction := range alignment.Junctions(options.MinDeletion) {
			distance := junction - breakpoint.Pos
			if distance < 0 {
				distance = -distance
			}
			if distance <= int64(options.Tolerance) {
				return true
			}
		}
	}
	return false
}

// Validator checks variants against an index of contig alignments
type Validator struct {
	index   AlignmentIndex
	options ValidationOptions
	threads int
	logger  *zap.Logger
}

// NewValidator creates a validator for the alignments in the index
func NewValidator(index AlignmentIndex, options ValidationOptions) *Validator {
	return &Validator{
		index:   index,
		options: options,
		logger:  zap.NewNop(),
	}
}

// SetThreads sets the amount of variants validated at the same time, 0 uses all CPUs
func (val *Validator) SetThreads(threads int) {
	val.threads = threads
}

// SetLogger sets the logger for debug and info messages
func (val *Validator) SetLogger(l *zap.Logger) {
	val.logger = l
}

// Validate checks one variant against the alignments named after its ID
func (val *Validator) Validate(variant *Variant) (bool, error) {
	return CheckContigSupport(variant, val.index[variant.Id()], val.options)
}

// ValidateAll checks all variants in parallel
// The result of variants[i] is stored in the i-th element of the returned slice
func (val *Validator) ValidateAll(ctx context.Context, variants []*Variant) ([]bool, error) {
	threads := val.threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	supported := make([]bool, len(variants))
	g, ctx2 := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, variant := range variants {
		i, variant := i, variant
		g.Go(func() error {
			if err := ctx2.Err(); err != nil {
				return err
			}
			ok, err := val.Validate(variant)
			if err != nil {
				return fmt.Errorf("validate variant %s: %w", variant.Id(), err)
			}
			supported[i] = ok
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	count := 0
	for _, ok := range supported {
		if ok {
			count++
		}
	}
	val.logger.Info("validated variants",
		zap.Int("variants", len(variants)),
		zap.Int("supported", count),
		zap.Int("alignments", len(val.index)))

	return supported, nil
}
