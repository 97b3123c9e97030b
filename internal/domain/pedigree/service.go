package pedigree

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"herd-pedigree/internal/platform/logger"
	"herd-pedigree/internal/platform/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxDepth       = 5
	MaxAllowedDepth       = 10
	DefaultMaxCoefficient = 0.0625
)

var otelTracer = otel.Tracer("herd-pedigree/pedigree")

type Options struct {
	MaxDepth              int
	FounderInbreeding     float64
	EnforceSex            bool
	RankWorkers           int
	DefaultMaxCoefficient float64
	DescendantDepth       int
	Thresholds            Thresholds
}

func DefaultOptions() Options {
	return Options{
		MaxDepth:              DefaultMaxDepth,
		EnforceSex:            true,
		RankWorkers:           1,
		DefaultMaxCoefficient: DefaultMaxCoefficient,
		DescendantDepth:       DefaultDescendantDepth,
		Thresholds:            DefaultThresholds(),
	}
}

func (o Options) Validate() error {
	var errs []error
	if o.MaxDepth < 0 || o.MaxDepth > MaxAllowedDepth {
		errs = append(errs, fmt.Errorf("%w: max depth must be within [0, %d] (%d)", ErrConfiguration, MaxAllowedDepth, o.MaxDepth))
	}
	if math.IsNaN(o.FounderInbreeding) || o.FounderInbreeding < 0 || o.FounderInbreeding > 1 {
		errs = append(errs, fmt.Errorf("%w: founder inbreeding must be within [0, 1] (%v)", ErrConfiguration, o.FounderInbreeding))
	}
	if math.IsNaN(o.DefaultMaxCoefficient) || o.DefaultMaxCoefficient < 0 || o.DefaultMaxCoefficient > 1 {
		errs = append(errs, fmt.Errorf("%w: default max coefficient must be within [0, 1] (%v)", ErrConfiguration, o.DefaultMaxCoefficient))
	}
	if o.DescendantDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: descendant depth cannot be negative (%d)", ErrConfiguration, o.DescendantDepth))
	}
	if err := o.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Genealogy es la respuesta de AnalyzeGenealogy.
type Genealogy struct {
	AnimalID      string
	SearchedDepth int
	Ancestors     []AncestorEntry
}

// Service es la fachada del motor para la capa de serving.
// Cada operación toma el Store vigente una sola vez y trabaja sobre él.
type Service struct {
	source     Source
	opts       Options
	classifier Classifier
	snap       Snapshot
	log        logger.Logger
	now        func() time.Time

	reloadMu sync.Mutex
}

func NewService(source Source, opts Options, log logger.Logger) (*Service, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	classifier, err := NewClassifier(opts.Thresholds)
	if err != nil {
		return nil, err
	}
	if opts.RankWorkers <= 0 {
		opts.RankWorkers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		source:     source,
		opts:       opts,
		classifier: classifier,
		log:        log.With(map[string]any{"component": "pedigree"}),
		now:        time.Now,
	}, nil
}

func (s *Service) Options() Options { return s.opts }

// Reload lee el source y reemplaza el snapshot de forma atómica.
// Si falla, el snapshot anterior sigue vigente.
func (s *Service) Reload(ctx context.Context) (SnapshotInfo, error) {
	if s.source == nil {
		return SnapshotInfo{}, fmt.Errorf("%w: no source configured", ErrNoSnapshot)
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, span := otelTracer.Start(ctx, "pedigree.Reload")
	defer span.End()
	done := metrics.TimeOp("reload")

	animals, err := s.source.LoadAnimals(ctx)
	if err == nil {
		var st *Store
		st, err = NewStore(animals, s.now())
		if err == nil {
			s.snap.Swap(st)
			info := st.Info()
			done(true)
			metrics.Default().IncSnapshotReload(true)
			metrics.Default().SetSnapshotAnimals(info.Animals)
			span.SetAttributes(attribute.Int("pedigree.animals", info.Animals))

			fields := map[string]any{
				"snapshot_id": info.ID,
				"animals":     info.Animals,
				"cut_edges":   len(info.CutEdges),
			}
			if len(info.CutEdges) > 0 {
				s.log.Warn("pedigree snapshot loaded with cyclic links removed", fields)
			} else {
				s.log.Info("pedigree snapshot loaded", fields)
			}
			return info, nil
		}
	}

	done(false)
	metrics.Default().IncSnapshotReload(false)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.log.Error("pedigree snapshot reload failed", map[string]any{"error": err.Error()})
	return SnapshotInfo{}, fmt.Errorf("reload snapshot: %w", err)
}

// Install reemplaza el snapshot con un Store ya construido (tests, seeds).
func (s *Service) Install(st *Store) {
	s.snap.Swap(st)
	metrics.Default().SetSnapshotAnimals(st.Len())
}

func (s *Service) Snapshot() (SnapshotInfo, error) {
	st, err := s.snap.Current()
	if err != nil {
		return SnapshotInfo{}, err
	}
	return st.Info(), nil
}

func (s *Service) calculator(st *Store) *Calculator {
	return NewCalculator(st, s.opts.MaxDepth, s.opts.FounderInbreeding)
}

// SimulateMating evalúa un par sire x dam.
func (s *Service) SimulateMating(ctx context.Context, sireID, damID string) (MatingVerdict, error) {
	_, span := s.start(ctx, "pedigree.SimulateMating",
		attribute.String("pedigree.sire_id", sireID), attribute.String("pedigree.dam_id", damID))
	done := metrics.TimeOp("simulate")

	v, err := func() (MatingVerdict, error) {
		st, err := s.snap.Current()
		if err != nil {
			return MatingVerdict{}, err
		}
		return NewSimulator(s.calculator(st), s.classifier, s.opts.EnforceSex).Simulate(sireID, damID)
	}()
	s.finish(span, done, err)
	return v, err
}

// AnalyzeGenealogy traza los ancestros de animalID. depth se acota al máximo configurado.
func (s *Service) AnalyzeGenealogy(ctx context.Context, animalID string, depth int) (Genealogy, error) {
	_, span := s.start(ctx, "pedigree.AnalyzeGenealogy",
		attribute.String("pedigree.animal_id", animalID), attribute.Int("pedigree.depth", depth))
	done := metrics.TimeOp("genealogy")

	g, err := func() (Genealogy, error) {
		if depth < 0 {
			return Genealogy{}, fmt.Errorf("%w: depth cannot be negative (%d)", ErrInvalidArgument, depth)
		}
		st, err := s.snap.Current()
		if err != nil {
			return Genealogy{}, err
		}
		lin, err := st.Trace(animalID, min(depth, s.opts.MaxDepth))
		if err != nil {
			return Genealogy{}, err
		}
		return Genealogy{AnimalID: lin.Root, SearchedDepth: lin.MaxDepth, Ancestors: lin.Entries()}, nil
	}()
	s.finish(span, done, err)
	return g, err
}

// FindCompatibleMates rankea todos los machos del snapshot contra femaleID.
// maxCoefficient < 0 usa el default configurado.
func (s *Service) FindCompatibleMates(ctx context.Context, femaleID string, maxCoefficient float64) (*Ranking, error) {
	return s.RankPool(ctx, femaleID, maxCoefficient, nil)
}

// RankPool es FindCompatibleMates sobre un pool explícito (nil = todos los machos).
func (s *Service) RankPool(ctx context.Context, femaleID string, maxCoefficient float64, pool []string) (*Ranking, error) {
	ctx, span := s.start(ctx, "pedigree.FindCompatibleMates", attribute.String("pedigree.female_id", femaleID))
	done := metrics.TimeOp("rank")

	if maxCoefficient < 0 {
		maxCoefficient = s.opts.DefaultMaxCoefficient
	}
	r, err := func() (*Ranking, error) {
		st, err := s.snap.Current()
		if err != nil {
			return nil, err
		}
		ranker := NewRanker(s.calculator(st), s.classifier, s.opts.EnforceSex, s.opts.RankWorkers)
		return ranker.Rank(ctx, femaleID, maxCoefficient, pool)
	}()
	if err == nil {
		metrics.Default().ObserveCandidates(r.Evaluated)
		span.SetAttributes(attribute.Int("pedigree.evaluated", r.Evaluated), attribute.Int("pedigree.compatible", r.Len()))
	}
	s.finish(span, done, err)
	return r, err
}

// InbreedingOf es el coeficiente propio del animal.
func (s *Service) InbreedingOf(ctx context.Context, animalID string) (InbreedingResult, error) {
	_, span := s.start(ctx, "pedigree.InbreedingOf", attribute.String("pedigree.animal_id", animalID))
	done := metrics.TimeOp("inbreeding")

	res, err := func() (InbreedingResult, error) {
		st, err := s.snap.Current()
		if err != nil {
			return InbreedingResult{}, err
		}
		return s.calculator(st).InbreedingOf(animalID)
	}()
	s.finish(span, done, err)
	return res, err
}

// Descendants devuelve los descendientes; depth 0 usa el default configurado.
func (s *Service) Descendants(ctx context.Context, animalID string, depth int) ([]DescendantEntry, error) {
	_, span := s.start(ctx, "pedigree.Descendants", attribute.String("pedigree.animal_id", animalID))
	done := metrics.TimeOp("descendants")

	out, err := func() ([]DescendantEntry, error) {
		st, err := s.snap.Current()
		if err != nil {
			return nil, err
		}
		if depth == 0 {
			depth = s.opts.DescendantDepth
		}
		return st.Descendants(animalID, depth)
	}()
	s.finish(span, done, err)
	return out, err
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otelTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) finish(span trace.Span, done func(bool), err error) {
	done(err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
