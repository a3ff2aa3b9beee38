package hydro

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// GeometryProvider resolves a vessel identifier into its hull geometry.
// The returned version changes whenever the geometry is re-imported, so it
// participates in cache keys. Implementations return domain.ErrNotFound
// (wrapped) for unknown vessels.
type GeometryProvider interface {
	HullGeometryForVessel(vesselID string) (*HullGeometry, int64, error)
}

// LoadcaseProvider resolves a loadcase identifier into an immutable
// loadcase snapshot.
type LoadcaseProvider interface {
	LoadcaseByID(loadcaseID string) (*Loadcase, error)
}

// ResultCache stores computed results keyed by condition. A nil cache
// disables caching; failures are logged and never fail a computation.
type ResultCache interface {
	Get(key string, dest interface{}) (bool, error)
	Put(key string, value interface{}, ttl time.Duration) error
}

// Service is the engine's in-process API: it resolves vessels and loadcases
// through the providers and runs the calculator. Each call loads its own
// geometry/loadcase snapshot, so concurrent calls for different vessels are
// fully independent.
type Service struct {
	geometries GeometryProvider
	loadcases  LoadcaseProvider
	cache      ResultCache
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewService creates a hydro service. cache may be nil.
func NewService(geometries GeometryProvider, loadcases LoadcaseProvider, cache ResultCache, cacheTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		geometries: geometries,
		loadcases:  loadcases,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log.With().Str("service", "hydro").Logger(),
	}
}

// calculatorFor loads the vessel's geometry snapshot and binds a calculator
// to it.
func (s *Service) calculatorFor(vesselID string) (*Calculator, int64, error) {
	geo, version, err := s.geometries.HullGeometryForVessel(vesselID)
	if err != nil {
		return nil, 0, err
	}
	return NewCalculator(geo), version, nil
}

// resolve loads both sides of a computation: the vessel's calculator and
// the loadcase snapshot.
func (s *Service) resolve(vesselID, loadcaseID string) (*Calculator, int64, *Loadcase, error) {
	calc, version, err := s.calculatorFor(vesselID)
	if err != nil {
		return nil, 0, nil, err
	}
	lc, err := s.loadcases.LoadcaseByID(loadcaseID)
	if err != nil {
		return nil, 0, nil, err
	}
	return calc, version, lc, nil
}

// ComputeAt returns the hydrostatic result for one floating condition.
// Results are cached per geometry version and condition; the engine itself
// recomputes on every cache miss since geometry and loadcase may change
// between calls.
func (s *Service) ComputeAt(ctx context.Context, vesselID, loadcaseID string, cond Condition) (*HydroResult, error) {
	calc, version, lc, err := s.resolve(vesselID, loadcaseID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("hydro:%s:v%d:d=%s:t=%s:h=%s:rho=%s:kg=%s",
		vesselID, version,
		cond.Draft.String(), cond.Trim.String(), cond.Heel.String(),
		lc.Rho.String(), lc.KG.String())

	if s.cache != nil {
		var cached HydroResult
		if ok, cErr := s.cache.Get(key, &cached); cErr != nil {
			s.log.Warn().Err(cErr).Str("key", key).Msg("Result cache read failed")
		} else if ok {
			return &cached, nil
		}
	}

	res, err := calc.Compute(cond, lc)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cErr := s.cache.Put(key, res, s.cacheTTL); cErr != nil {
			s.log.Warn().Err(cErr).Str("key", key).Msg("Result cache write failed")
		}
	}
	return res, nil
}

// ComputeTable computes results for a list of drafts, checking for
// cancellation between entries.
func (s *Service) ComputeTable(ctx context.Context, vesselID, loadcaseID string, drafts []decimal.Decimal) ([]*HydroResult, error) {
	results := make([]*HydroResult, 0, len(drafts))
	for _, draft := range drafts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res, err := s.ComputeAt(ctx, vesselID, loadcaseID, Condition{Draft: draft})
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// SolveTrim finds the equilibrium draft pair for a target displacement.
func (s *Service) SolveTrim(ctx context.Context, vesselID, loadcaseID string, req TrimSolveRequest) (*TrimSolverResult, error) {
	calc, _, lc, err := s.resolve(vesselID, loadcaseID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := calc.SolveTrim(req, lc)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("vessel", vesselID).
		Bool("converged", result.Converged).
		Int("iterations", result.Iterations).
		Dur("elapsed", time.Since(start)).
		Msg("Trim solve completed")
	return result, nil
}

// GenerateCurves produces the requested hydrostatic curves over a draft
// sweep.
func (s *Service) GenerateCurves(ctx context.Context, vesselID, loadcaseID string, types []CurveType, minDraft, maxDraft decimal.Decimal, points int) ([]Curve, error) {
	calc, _, lc, err := s.resolve(vesselID, loadcaseID)
	if err != nil {
		return nil, err
	}
	return calc.GenerateCurves(ctx, types, minDraft, maxDraft, points, lc)
}

// BonjeanCurves produces sectional-area-vs-draft curves, one per station.
func (s *Service) BonjeanCurves(ctx context.Context, vesselID string, minDraft, maxDraft decimal.Decimal, points int) ([]BonjeanCurve, error) {
	calc, _, err := s.calculatorFor(vesselID)
	if err != nil {
		return nil, err
	}
	return calc.BonjeanCurves(ctx, minDraft, maxDraft, points)
}

// ComputeStabilityCurve builds the righting-arm curve for a loadcase.
// Observers receive each point as it is computed.
func (s *Service) ComputeStabilityCurve(ctx context.Context, loadcaseID string, minAngle, maxAngle, increment decimal.Decimal, method StabilityMethod, observers ...func(StabilityCurvePoint)) (*StabilityCurve, error) {
	lc, err := s.loadcases.LoadcaseByID(loadcaseID)
	if err != nil {
		return nil, err
	}
	calc, _, err := s.calculatorFor(lc.VesselID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	curve, err := calc.ComputeStabilityCurve(ctx, lc, minAngle, maxAngle, increment, method, observers...)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("loadcase", loadcaseID).
		Int("points", len(curve.Points)).
		Dur("elapsed", time.Since(start)).
		Msg("Stability sweep completed")
	return curve, nil
}

// CheckCriteria evaluates a completed righting-arm curve against the
// default intact-stability criteria.
func (s *Service) CheckCriteria(curve *StabilityCurve) (*CriteriaResult, error) {
	return CheckCriteria(curve)
}
