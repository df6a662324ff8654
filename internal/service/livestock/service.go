package livestock

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/service/lineage"
)

// Service manages the pig registry and answers lineage questions over it.
type Service struct {
	pigs   repository.Store[models.Pig]
	logger *zap.Logger
}

// NewService wires a livestock service.
func NewService(pigs repository.Store[models.Pig], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{pigs: pigs, logger: logger}
}

// List returns the herd, optionally restricted to one status.
func (s *Service) List(ctx context.Context, status models.AnimalStatus) ([]models.Pig, error) {
	pigs, err := s.pigs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pigs: %w", err)
	}
	if status == "" {
		return pigs, nil
	}
	out := make([]models.Pig, 0, len(pigs))
	for _, p := range pigs {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get resolves a pig by ID or tag.
func (s *Service) Get(ctx context.Context, ref string) (models.Pig, error) {
	ix, err := s.index(ctx)
	if err != nil {
		return models.Pig{}, err
	}
	p, ok := ix.Resolve(ref)
	if !ok {
		return models.Pig{}, fmt.Errorf("pig %s: %w", ref, repository.ErrNotFound)
	}
	return p, nil
}

// Register validates and stores a new pig. Parent references are not checked:
// an unknown sire or dam is recorded as given and treated as unknown by lineage.
func (s *Service) Register(ctx context.Context, p models.Pig) (models.Pig, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Pig{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.pigs.Save(ctx, p.ID, p); err != nil {
		return models.Pig{}, fmt.Errorf("save pig: %w", err)
	}
	s.logger.Info("pig registered", zap.String("id", p.ID), zap.String("tag", p.TagID), zap.String("stage", string(p.Stage)))
	return p, nil
}

// Update replaces the stored pig with id.
func (s *Service) Update(ctx context.Context, id string, p models.Pig) (models.Pig, error) {
	if _, err := s.pigs.Get(ctx, id); err != nil {
		return models.Pig{}, err
	}
	p.ID = id
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Pig{}, err
	}
	if err := s.pigs.Save(ctx, id, p); err != nil {
		return models.Pig{}, fmt.Errorf("save pig: %w", err)
	}
	return p, nil
}

// Remove deletes a pig. Offspring keep their dangling parent reference.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.pigs.Delete(ctx, id)
}

// InbreedingCheck runs the pedigree overlap check for one pig.
func (s *Service) InbreedingCheck(ctx context.Context, ref string, depth int) (lineage.OverlapResult, error) {
	ix, err := s.index(ctx)
	if err != nil {
		return lineage.OverlapResult{}, err
	}
	p, ok := ix.Resolve(ref)
	if !ok {
		return lineage.OverlapResult{}, fmt.Errorf("pig %s: %w", ref, repository.ErrNotFound)
	}
	res := ix.CheckOverlap(p, depth)
	if res.Risk {
		s.logger.Info("inbreeding risk detected", zap.String("pig", p.ID), zap.Strings("common", res.Common))
	}
	return res, nil
}

// MatingCheck runs the overlap check on a planned sire/dam pair.
func (s *Service) MatingCheck(ctx context.Context, sireRef, damRef string, depth int) (lineage.OverlapResult, error) {
	ix, err := s.index(ctx)
	if err != nil {
		return lineage.OverlapResult{}, err
	}
	for _, ref := range []string{sireRef, damRef} {
		if _, ok := ix.Resolve(ref); !ok {
			return lineage.OverlapResult{}, fmt.Errorf("pig %s: %w", ref, repository.ErrNotFound)
		}
	}
	return ix.CheckPair(sireRef, damRef, depth), nil
}

// Pedigree returns the lineage explorer tree for a pig.
func (s *Service) Pedigree(ctx context.Context, ref string, depth int) (*lineage.Node, error) {
	if depth <= 0 {
		depth = lineage.DefaultDepth
	}
	ix, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := ix.Resolve(ref); !ok {
		return nil, fmt.Errorf("pig %s: %w", ref, repository.ErrNotFound)
	}
	return ix.Tree(ref, depth), nil
}

// Offspring lists direct descendants of a pig.
func (s *Service) Offspring(ctx context.Context, ref string) ([]models.Pig, error) {
	ix, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := ix.Resolve(ref); !ok {
		return nil, fmt.Errorf("pig %s: %w", ref, repository.ErrNotFound)
	}
	return ix.Offspring(ref), nil
}

// AtRisk lists active pigs whose own parents share an ancestor.
func (s *Service) AtRisk(ctx context.Context) ([]models.Pig, error) {
	pigs, err := s.pigs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pigs: %w", err)
	}
	ix := lineage.NewIndex(pigs)
	var out []models.Pig
	for _, p := range pigs {
		if p.Status != models.StatusActive {
			continue
		}
		if ix.CheckOverlap(p, lineage.DefaultDepth).Risk {
			out = append(out, p)
		}
	}
	return out, nil
}

// HerdCount tallies pigs by stage and status.
type HerdCount struct {
	Total    int            `json:"total"`
	Active   int            `json:"active"`
	ByStage  map[string]int `json:"byStage"`
	ByStatus map[string]int `json:"byStatus"`
	Breeds   []string       `json:"breeds"`
}

// Count tallies a herd. Only active animals are counted per stage.
func Count(pigs []models.Pig) HerdCount {
	hc := HerdCount{ByStage: map[string]int{}, ByStatus: map[string]int{}}
	breeds := map[string]struct{}{}
	for _, p := range pigs {
		hc.Total++
		hc.ByStatus[string(p.Status)]++
		if p.Status != models.StatusActive {
			continue
		}
		hc.Active++
		stage := string(p.Stage)
		if stage == "" {
			stage = "unknown"
		}
		hc.ByStage[stage]++
		if p.Breed != "" {
			breeds[p.Breed] = struct{}{}
		}
	}
	for b := range breeds {
		hc.Breeds = append(hc.Breeds, b)
	}
	sort.Strings(hc.Breeds)
	return hc
}

func (s *Service) index(ctx context.Context) (*lineage.Index, error) {
	pigs, err := s.pigs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pigs: %w", err)
	}
	return lineage.NewIndex(pigs), nil
}
