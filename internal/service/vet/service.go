// Package vet keeps the health book: treatments, vaccinations, protocols
// and the withdrawal periods that gate sales.
package vet

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/service/lineage"
)

// Service records health events against the herd.
type Service struct {
	records   repository.Store[models.HealthRecord]
	protocols repository.Store[models.Protocol]
	pigs      repository.Store[models.Pig]
	logger    *zap.Logger
}

// NewService wires the vet suite over the shared store set.
func NewService(set *repository.Set, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records:   set.HealthRecords,
		protocols: set.Protocols,
		pigs:      set.Pigs,
		logger:    logger,
	}
}

// SaveProtocol validates and stores a protocol.
func (s *Service) SaveProtocol(ctx context.Context, p models.Protocol) (models.Protocol, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return models.Protocol{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.protocols.Save(ctx, p.ID, p); err != nil {
		return models.Protocol{}, fmt.Errorf("save protocol: %w", err)
	}
	return p, nil
}

// Protocols lists the stored protocols.
func (s *Service) Protocols(ctx context.Context) ([]models.Protocol, error) {
	return s.protocols.List(ctx)
}

// findProtocol matches a protocol by ID or case-insensitive name.
func (s *Service) findProtocol(ctx context.Context, ref string) (models.Protocol, bool, error) {
	if ref == "" {
		return models.Protocol{}, false, nil
	}
	all, err := s.protocols.List(ctx)
	if err != nil {
		return models.Protocol{}, false, fmt.Errorf("list protocols: %w", err)
	}
	for _, p := range all {
		if p.ID == ref || strings.EqualFold(p.Name, ref) {
			return p, true, nil
		}
	}
	return models.Protocol{}, false, nil
}

// Record stores a health event. A named protocol supplies the kind,
// withdrawal period and booster interval the record leaves unset.
func (s *Service) Record(ctx context.Context, rec models.HealthRecord) (models.HealthRecord, error) {
	proto, ok, err := s.findProtocol(ctx, rec.Protocol)
	if err != nil {
		return models.HealthRecord{}, err
	}
	if ok {
		rec.Protocol = proto.Name
		if rec.Kind == "" {
			rec.Kind = proto.Kind
		}
		if rec.WithdrawalDays == 0 {
			rec.WithdrawalDays = proto.WithdrawalDays
		}
		if rec.NextDueDate == nil && proto.IntervalDays > 0 && !rec.Date.IsZero() {
			due := rec.Date.AddDate(0, 0, proto.IntervalDays)
			rec.NextDueDate = &due
		}
	}
	if err := rec.Validate(); err != nil {
		return models.HealthRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := s.records.Save(ctx, rec.ID, rec); err != nil {
		return models.HealthRecord{}, fmt.Errorf("save health record: %w", err)
	}
	s.logger.Info("health record saved",
		zap.String("pig", rec.PigID),
		zap.String("kind", string(rec.Kind)),
		zap.String("protocol", rec.Protocol))
	return rec, nil
}

// History lists a pig's health records, oldest first.
func (s *Service) History(ctx context.Context, pigRef string) ([]models.HealthRecord, error) {
	pig, known, err := s.resolve(ctx, pigRef)
	if err != nil {
		return nil, err
	}
	all, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	var out []models.HealthRecord
	for _, r := range all {
		if r.PigID == pigRef || (known && (r.PigID == pig.ID || r.PigID == pig.TagID)) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Withdrawal says whether a pig may be sold at a given time.
type Withdrawal struct {
	PigID string     `json:"pigId"`
	Clear bool       `json:"clear"`
	Until *time.Time `json:"until,omitempty"`
	// Medication responsible for the latest withdrawal end.
	Medication string `json:"medication,omitempty"`
}

// WithdrawalStatus reports whether every treatment on the pig has cleared by at.
func (s *Service) WithdrawalStatus(ctx context.Context, pigRef string, at time.Time) (Withdrawal, error) {
	history, err := s.History(ctx, pigRef)
	if err != nil {
		return Withdrawal{}, err
	}
	out := Withdrawal{PigID: pigRef, Clear: true}
	var latest time.Time
	for _, r := range history {
		if r.WithdrawalDays == 0 {
			continue
		}
		ends := r.WithdrawalEnds()
		if ends.After(latest) {
			latest = ends
			out.Medication = r.Medication
		}
	}
	if !latest.IsZero() && at.Before(latest) {
		out.Clear = false
		out.Until = &latest
	} else {
		out.Medication = ""
	}
	return out, nil
}

// DueVaccination is a booster falling due inside the reminder window.
type DueVaccination struct {
	PigID    string    `json:"pigId"`
	Label    string    `json:"label"`
	Protocol string    `json:"protocol"`
	DueDate  time.Time `json:"dueDate"`
	Overdue  bool      `json:"overdue"`
}

// DueVaccinations lists boosters due on or before now+window. Only the most
// recent vaccination per pig and protocol counts, and animals that have left
// the farm are skipped.
func (s *Service) DueVaccinations(ctx context.Context, now time.Time, window time.Duration) ([]DueVaccination, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	pigs, err := s.pigs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pigs: %w", err)
	}
	return dueVaccinations(records, lineage.NewIndex(pigs), now, window), nil
}

func dueVaccinations(records []models.HealthRecord, ix *lineage.Index, now time.Time, window time.Duration) []DueVaccination {
	type key struct{ pig, protocol string }
	latest := make(map[key]models.HealthRecord)
	var order []key
	for _, r := range records {
		if r.Kind != models.HealthVaccination {
			continue
		}
		k := key{r.PigID, strings.ToLower(r.Protocol)}
		prev, seen := latest[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || r.Date.After(prev.Date) {
			latest[k] = r
		}
	}

	horizon := now.Add(window)
	var out []DueVaccination
	for _, k := range order {
		r := latest[k]
		if r.NextDueDate == nil || r.NextDueDate.After(horizon) {
			continue
		}
		label := r.PigID
		if p, ok := ix.Resolve(r.PigID); ok {
			if p.Status != models.StatusActive {
				continue
			}
			label = p.Label()
		}
		out = append(out, DueVaccination{
			PigID:    r.PigID,
			Label:    label,
			Protocol: r.Protocol,
			DueDate:  *r.NextDueDate,
			Overdue:  r.NextDueDate.Before(now),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

func (s *Service) resolve(ctx context.Context, ref string) (models.Pig, bool, error) {
	pigs, err := s.pigs.List(ctx)
	if err != nil {
		return models.Pig{}, false, fmt.Errorf("list pigs: %w", err)
	}
	p, ok := lineage.NewIndex(pigs).Resolve(ref)
	return p, ok, nil
}
