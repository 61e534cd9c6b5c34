package engine

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// Planner runs complete placement passes for one engine configuration.
// It holds no per-pass state and can be shared.
type Planner struct {
	Config   model.EngineConfig
	registry *Registry
	logger   *log.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger makes the planner log pass summaries and fallback decisions.
func WithLogger(l *log.Logger) Option {
	return func(p *Planner) {
		p.logger = l
	}
}

// New validates cfg and returns a planner for it.
func New(cfg model.EngineConfig, opts ...Option) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	p := &Planner{
		Config:   cfg,
		registry: NewRegistry(cfg.BoxTypes),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Registry returns the planner's box registry.
func (p *Planner) Registry() *Registry {
	return p.registry
}

// Grids builds one slot grid per registered type, in registry order. Each
// grid is centered on the floor center plus the type's offset and tiles the
// floor shrunk by twice that offset, so it stays inside the floor bounds.
func (p *Planner) Grids(geom model.FloorGeometry) []model.SlotGrid {
	grids := make([]model.SlotGrid, 0, len(p.registry.order))
	for _, tag := range p.registry.order {
		bt := p.registry.types[tag]
		center := geom.Center.Add(bt.Offset)
		width := math.Max(geom.Bounds.Width()-2*math.Abs(bt.Offset.X), p.Config.MinFloorExtent)
		length := math.Max(geom.Bounds.Length()-2*math.Abs(bt.Offset.Z), p.Config.MinFloorExtent)
		grids = append(grids, GenerateGrid(tag, geom, center, length, width, bt.Spec, p.Config.Spacing))
	}
	return grids
}

// Plan resolves the floor, generates the grids and assigns every container.
// When some containers have an unknown box type the returned result still
// holds the placements of all valid containers, the offenders are listed in
// Rejected, and the error matches ErrUnknownBoxType.
func (p *Planner) Plan(layout model.Layout) (model.PlanResult, error) {
	geom := ResolveFloor(layout.Floor, p.Config)
	grids := p.Grids(geom)

	byType := make(map[model.TypeTag]model.SlotGrid, len(grids))
	for _, g := range grids {
		byType[g.Type] = g
	}

	assigner := NewAssigner(p.registry, p.Config.FallbackSpacing, p.logger)
	placements, err := assigner.Assign(layout.Containers, byType, geom)

	result := model.PlanResult{
		Geometry:   geom,
		Grids:      grids,
		Placements: placements,
	}
	if err != nil {
		result.Rejected = p.rejectedRecords(layout.Containers)
	}

	if p.logger != nil {
		counts := result.CountBySource()
		p.logger.Info("placement pass",
			"floor", geom.Index,
			"containers", len(layout.Containers),
			"slot", counts[model.SourceSlot],
			"explicit", counts[model.SourceExplicit],
			"cross_type", counts[model.SourceCrossType],
			"fallback", counts[model.SourceFallback],
			"rejected", len(result.Rejected))
	}
	return result, err
}

// rejectedRecords returns the containers whose box type is not registered.
func (p *Planner) rejectedRecords(containers []model.ContainerRecord) []model.ContainerRecord {
	var out []model.ContainerRecord
	for _, c := range containers {
		if _, err := p.registry.Lookup(c.BoxType); err != nil {
			out = append(out, c)
		}
	}
	return out
}
