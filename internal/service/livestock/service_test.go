package livestock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/repository/memory"
)

func seed(t *testing.T, svc *Service, pigs ...models.Pig) {
	t.Helper()
	for _, p := range pigs {
		_, err := svc.Register(context.Background(), p)
		require.NoError(t, err)
	}
}

func newService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(memory.NewStore[models.Pig](), nil)
	seed(t, svc,
		models.Pig{ID: "boar", TagID: "B-01", Gender: models.GenderMale, Stage: models.StageBoar, Breed: "Duroc"},
		models.Pig{ID: "sow", TagID: "S-01", Gender: models.GenderFemale, Stage: models.StageSow, Breed: "Large White"},
		models.Pig{ID: "bro", TagID: "G-01", Gender: models.GenderMale, Stage: models.StageGrower, SireID: "B-01", DamID: "S-01"},
		models.Pig{ID: "sis", TagID: "G-02", Gender: models.GenderFemale, Stage: models.StageGilt, SireID: "boar", DamID: "sow"},
		models.Pig{ID: "inbred", TagID: "P-01", Gender: models.GenderFemale, Stage: models.StagePiglet, SireID: "G-01", DamID: "G-02"},
		models.Pig{ID: "gone", TagID: "X-01", Gender: models.GenderMale, Status: models.StatusSold},
	)
	return svc
}

func TestRegisterValidatesAndAssignsID(t *testing.T) {
	svc := NewService(memory.NewStore[models.Pig](), nil)
	ctx := context.Background()

	p, err := svc.Register(ctx, models.Pig{TagID: "T-9", Gender: "MALE"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.StatusActive, p.Status)

	_, err = svc.Register(ctx, models.Pig{Gender: models.GenderMale})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestGetByTagOrID(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	p, err := svc.Get(ctx, "B-01")
	require.NoError(t, err)
	assert.Equal(t, "boar", p.ID)

	p, err = svc.Get(ctx, "sow")
	require.NoError(t, err)
	assert.Equal(t, "S-01", p.TagID)

	_, err = svc.Get(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListFiltersStatus(t *testing.T) {
	svc := newService(t)
	active, err := svc.List(context.Background(), models.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 5)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestUpdateAndRemove(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "bro", models.Pig{
		TagID: "G-01", Gender: models.GenderMale, Stage: models.StageFinisher,
		SireID: "B-01", DamID: "S-01", WeightKg: 95,
	})
	require.NoError(t, err)
	assert.Equal(t, "bro", updated.ID)
	assert.Equal(t, models.StageFinisher, updated.Stage)
	assert.Equal(t, "B-01", updated.SireID)

	_, err = svc.Update(ctx, "ghost", models.Pig{TagID: "Z", Gender: models.GenderMale})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, svc.Remove(ctx, "sow"))
	// The dam reference now dangles; the check still runs and treats it as unknown.
	res, err := svc.InbreedingCheck(ctx, "P-01", 0)
	require.NoError(t, err)
	assert.True(t, res.Risk)
	assert.Equal(t, []string{"boar"}, res.Common)
	assert.NotContains(t, res.SireLine, "sow")
	assert.NotContains(t, res.DamLine, "sow")
}

func TestInbreedingCheck(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.InbreedingCheck(ctx, "P-01", 3)
	require.NoError(t, err)
	assert.True(t, res.Risk)
	assert.Equal(t, []string{"boar", "sow"}, res.Common)

	res, err = svc.InbreedingCheck(ctx, "G-01", 3)
	require.NoError(t, err)
	assert.False(t, res.Risk)

	_, err = svc.InbreedingCheck(ctx, "nope", 3)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMatingCheck(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.MatingCheck(ctx, "G-01", "G-02", 0)
	require.NoError(t, err)
	assert.True(t, res.Risk)

	res, err = svc.MatingCheck(ctx, "B-01", "S-01", 0)
	require.NoError(t, err)
	assert.False(t, res.Risk)

	_, err = svc.MatingCheck(ctx, "B-01", "missing", 0)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPedigreeAndOffspring(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tree, err := svc.Pedigree(ctx, "inbred", 0)
	require.NoError(t, err)
	assert.Equal(t, "bro", tree.Sire.Pig.ID)
	assert.Equal(t, "boar", tree.Sire.Sire.Pig.ID)

	kids, err := svc.Offspring(ctx, "S-01")
	require.NoError(t, err)
	require.Len(t, kids, 2)

	_, err = svc.Pedigree(ctx, "ghost", 3)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAtRiskAndCount(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	risky, err := svc.AtRisk(ctx)
	require.NoError(t, err)
	require.Len(t, risky, 1)
	assert.Equal(t, "inbred", risky[0].ID)

	pigs, err := svc.List(ctx, "")
	require.NoError(t, err)
	hc := Count(pigs)
	assert.Equal(t, 6, hc.Total)
	assert.Equal(t, 5, hc.Active)
	assert.Equal(t, 1, hc.ByStatus["sold"])
	assert.Equal(t, 1, hc.ByStage["boar"])
	assert.Equal(t, []string{"Duroc", "Large White"}, hc.Breeds)
}
