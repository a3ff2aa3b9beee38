package vessels

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	testdb "github.com/abhee15/navarch-studio-sub003/internal/testing"
	"github.com/abhee15/navarch-studio-sub003/pkg/logger"
)

func newTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	db, cleanup := testdb.NewTestDB(t, "fleet")
	return NewRepository(db.Conn(), logger.Discard()), cleanup
}

func testVessel(id, name string) *Vessel {
	now := time.Now().UTC().Truncate(time.Second)
	lpp := decimal.NewFromInt(100)
	beam := decimal.NewFromInt(10)
	return &Vessel{
		ID:        id,
		Name:      name,
		LengthPP:  &lpp,
		Beam:      &beam,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	v := testVessel("v-1", "Test Barge")
	v.Description = "a box"
	require.NoError(t, repo.Create(v))

	got, err := repo.GetByID("v-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Barge", got.Name)
	assert.Equal(t, "a box", got.Description)
	require.NotNil(t, got.LengthPP)
	assert.True(t, got.LengthPP.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, got.Beam)
	assert.Nil(t, got.Depth)
	assert.Equal(t, int64(0), got.GeometryVersion)
	assert.Equal(t, v.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestRepositoryGetNotFound(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	_, err := repo.GetByID("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepositoryListOrdersByName(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	require.NoError(t, repo.Create(testVessel("v-b", "Bravo")))
	require.NoError(t, repo.Create(testVessel("v-a", "Alpha")))

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Bravo", list[1].Name)
}

func TestRepositoryUpdate(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	v := testVessel("v-1", "Before")
	require.NoError(t, repo.Create(v))

	v.Name = "After"
	v.Beam = nil
	require.NoError(t, repo.Update(v))

	got, err := repo.GetByID("v-1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Nil(t, got.Beam)
}

func TestRepositoryUpdateNotFound(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	err := repo.Update(testVessel("ghost", "Ghost"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	require.NoError(t, repo.Create(testVessel("v-1", "Doomed")))
	require.NoError(t, repo.Delete("v-1"))

	_, err := repo.GetByID("v-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete("v-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
