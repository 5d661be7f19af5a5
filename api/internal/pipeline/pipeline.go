// Package pipeline runs the three model calls for a photo and merges their
// normalized answers into one response.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"reuse-api/api/internal/listing"
	"reuse-api/api/internal/prompt"
	"reuse-api/api/internal/util"
	"reuse-api/api/internal/vision"
)

type Stage string

const (
	StageReusability Stage = "reusability"
	StageDescription Stage = "description"
	StageCategory    Stage = "category"
)

// StageError is a failed model call. Only reusability and description
// failures reach callers; category failures are absorbed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	switch e.Stage {
	case StageReusability:
		return "Reusability check failed: " + e.Err.Error()
	case StageDescription:
		return "Description failed: " + e.Err.Error()
	default:
		return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
	}
}

func (e *StageError) Unwrap() error { return e.Err }

type Service struct {
	engine vision.Engine
}

func New(engine vision.Engine) *Service {
	return &Service{engine: engine}
}

func (s *Service) Engine() vision.Engine { return s.engine }

// generate calls the engine, turning a panic into an error. Stages run in
// errgroup goroutines that no HTTP recoverer covers.
func (s *Service) generate(ctx context.Context, p string, img vision.Image) (raw string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Ctx(ctx).Error().
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Str("engine", s.engine.Name()).
				Msg("engine panicked")
			err = fmt.Errorf("engine panic: %v", rec)
		}
	}()
	return s.engine.Generate(ctx, p, img)
}

// CheckReusability asks the model whether the item in img can be reused.
func (s *Service) CheckReusability(ctx context.Context, img vision.Image) (listing.Verdict, error) {
	raw, err := s.generate(ctx, prompt.Reusability, img)
	if err != nil {
		return listing.Verdict{}, &StageError{Stage: StageReusability, Err: err}
	}
	return listing.NewVerdict(raw), nil
}

// Generate produces the full response for img. Nothing beyond the reusability
// call is issued when the item is not reusable.
func (s *Service) Generate(ctx context.Context, img vision.Image) (listing.Response, error) {
	verdict, err := s.CheckReusability(ctx, img)
	if err != nil {
		return listing.Response{}, err
	}
	if !verdict.Reusable {
		return listing.Assemble(verdict, listing.Listing{}, listing.CategoryAssignment{}), nil
	}

	var (
		item     listing.Listing
		category = listing.DefaultCategory()
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := s.generate(gctx, prompt.SalesPitch, img)
		if err != nil {
			return &StageError{Stage: StageDescription, Err: err}
		}
		item = listing.ParseListing(raw)
		return nil
	})
	g.Go(func() error {
		raw, err := s.generate(gctx, prompt.Category, img)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("stage", string(StageCategory)).
				Str("engine", s.engine.Name()).
				Msg("category call failed, using defaults")
			return nil
		}
		category = listing.ParseCategory(raw)
		log.Ctx(ctx).Debug().
			Str("raw", util.ClampRunes(raw, 200)).
			Str("category", category.Category).
			Str("subcategory", category.Subcategory).
			Msg("category parsed")
		return nil
	})
	if err := g.Wait(); err != nil {
		return listing.Response{}, err
	}
	return listing.Assemble(verdict, item, category), nil
}
