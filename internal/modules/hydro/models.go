package hydro

import (
	"github.com/shopspring/decimal"
)

// Loadcase is an immutable snapshot of the loading condition used as the
// equilibrium target for the trim solver and stability calculator.
type Loadcase struct {
	ID       string          `json:"id"`
	VesselID string          `json:"vessel_id"`
	Name     string          `json:"name"`
	Rho      decimal.Decimal `json:"rho"` // fluid density, t/m3
	KG       decimal.Decimal `json:"kg"`  // vertical center of gravity above keel, m

	// TargetDisplacement is the displaced weight (t) the condition should
	// float at; nil when the loadcase carries no equilibrium target.
	TargetDisplacement *decimal.Decimal `json:"target_displacement,omitempty"`
}

// Condition selects the floating condition for a single computation.
type Condition struct {
	Draft decimal.Decimal `json:"draft"`
	Trim  decimal.Decimal `json:"trim"` // trim angle, degrees, positive bow down
	Heel  decimal.Decimal `json:"heel"` // heel angle, degrees
}

// HydroResult is the engine's principal output for one floating condition.
// Created fresh per call and never mutated afterwards.
type HydroResult struct {
	Draft decimal.Decimal `json:"draft"`
	Trim  decimal.Decimal `json:"trim"`
	Heel  decimal.Decimal `json:"heel"`

	DispVolume decimal.Decimal `json:"disp_volume"` // displaced volume, m3
	DispWeight decimal.Decimal `json:"disp_weight"` // displaced weight, t

	KB  decimal.Decimal `json:"kb"`  // vertical center of buoyancy, m
	LCB decimal.Decimal `json:"lcb"` // longitudinal center of buoyancy, m
	TCB decimal.Decimal `json:"tcb"` // transverse center of buoyancy, m

	Awp decimal.Decimal `json:"awp"` // waterplane area, m2
	LCF decimal.Decimal `json:"lcf"` // longitudinal center of flotation, m
	Iwp decimal.Decimal `json:"iwp"` // waterplane longitudinal second moment, m4
	It  decimal.Decimal `json:"it"`  // waterplane transverse second moment, m4

	BMt decimal.Decimal `json:"bmt"` // transverse metacentric radius, m
	BMl decimal.Decimal `json:"bml"` // longitudinal metacentric radius, m
	GMt decimal.Decimal `json:"gmt"` // transverse metacentric height, m
	GMl decimal.Decimal `json:"gml"` // longitudinal metacentric height, m

	Cb  decimal.Decimal `json:"cb"`  // block coefficient
	Cp  decimal.Decimal `json:"cp"`  // prismatic coefficient
	Cm  decimal.Decimal `json:"cm"`  // midship section coefficient
	Cwp decimal.Decimal `json:"cwp"` // waterplane coefficient
}

// CurveType names a hydrostatic curve.
type CurveType string

const (
	CurveDisplacement CurveType = "displacement"
	CurveKB           CurveType = "kb"
	CurveLCB          CurveType = "lcb"
	CurveAwp          CurveType = "awp"
	CurveGMt          CurveType = "gmt"
)

// CurvePoint is one (independent, dependent) sample of a curve.
type CurvePoint struct {
	X decimal.Decimal `json:"x"`
	Y decimal.Decimal `json:"y"`
}

// Curve is an ordered, immutable sequence of curve points.
type Curve struct {
	Type   CurveType    `json:"type"`
	Points []CurvePoint `json:"points"`
}

// BonjeanCurve is the sectional area as a function of draft for one station.
type BonjeanCurve struct {
	StationIndex int             `json:"station_index"`
	X            decimal.Decimal `json:"x"`
	Points       []CurvePoint    `json:"points"`
}

// StabilityCurvePoint is one sample of the righting-arm curve.
type StabilityCurvePoint struct {
	Heel decimal.Decimal `json:"heel"` // degrees
	GZ   decimal.Decimal `json:"gz"`  // m
	KN   decimal.Decimal `json:"kn"`  // m
}

// StabilityCurve is the righting-arm curve for one loadcase, built in
// strictly increasing heel order, together with the located maximum.
type StabilityCurve struct {
	LoadcaseID   string                `json:"loadcase_id"`
	Method       StabilityMethod       `json:"method"`
	Points       []StabilityCurvePoint `json:"points"`
	MaxGZ        decimal.Decimal       `json:"max_gz"`
	AngleAtMaxGZ decimal.Decimal       `json:"angle_at_max_gz"`
	GMt          decimal.Decimal       `json:"gmt"` // upright GMt for criteria evaluation
}

// StabilityMethod selects how the heel sweep treats displacement.
type StabilityMethod string

const (
	// MethodConstantDisplacement re-solves the draft at each heel angle so
	// the displaced weight stays at the loadcase target.
	MethodConstantDisplacement StabilityMethod = "constant-displacement"
	// MethodFixedDraft keeps the upright equilibrium draft for every angle
	// (cross-curve style).
	MethodFixedDraft StabilityMethod = "fixed-draft"
)

// SolverStep is one immutable record of the trim solver's iteration trail.
type SolverStep struct {
	Iteration  int             `json:"iteration"`
	MeanDraft  decimal.Decimal `json:"mean_draft"`
	Residual   decimal.Decimal `json:"residual"`
	Derivative decimal.Decimal `json:"derivative"`
}

// TrimSolverResult records both the solver's answer and its diagnostic
// trail. Non-convergence is a normal outcome, not an error: Converged is
// false, Iterations equals the budget and the best estimate is returned.
type TrimSolverResult struct {
	DraftFwd   decimal.Decimal `json:"draft_fwd"`
	DraftAft   decimal.Decimal `json:"draft_aft"`
	MeanDraft  decimal.Decimal `json:"mean_draft"`
	Converged  bool            `json:"converged"`
	Iterations int             `json:"iterations"`
	Residual   decimal.Decimal `json:"residual"`
	Result     *HydroResult    `json:"result,omitempty"`
	Trace      []SolverStep    `json:"trace,omitempty"`
}
