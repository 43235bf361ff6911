package equipment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroconnect/agroconnect-backend/pkg/db/dbtest"
)

func TestSeedImportsOnce(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	seeder := NewSeeder(repo, nil, nil)
	ctx := context.Background()

	n, err := seeder.Seed(ctx)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	again, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, n, count)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	for _, row := range rows {
		assert.True(t, row.IsFromJSON, row.Name)
		assert.Nil(t, row.OwnerID, row.Name)
		assert.Contains(t, row.Price, "₹", row.Name)
	}
}

type stubSeedLock struct {
	held     bool
	acquired int
	released int
}

func (l *stubSeedLock) Acquire(context.Context) (bool, error) {
	l.acquired++
	return !l.held, nil
}

func (l *stubSeedLock) Release(context.Context) error {
	l.released++
	return nil
}

func TestSeedSkipsWhileAnotherInstanceHoldsTheLock(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	lock := &stubSeedLock{held: true}

	n, err := NewSeeder(repo, lock, nil).Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, lock.released, "a lock we never got is not released")

	lock.held = false
	n, err = NewSeeder(repo, lock, nil).Seed(ctx)
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.Equal(t, 1, lock.released)
}

func TestSeedBySecondInstanceFindsPopulatedPool(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()

	first, err := NewSeeder(NewRepository(conn), &stubSeedLock{}, nil).Seed(ctx)
	require.NoError(t, err)
	second, err := NewSeeder(NewRepository(conn), &stubSeedLock{}, nil).Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, second)

	count, err := NewRepository(conn).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, first, count)
}

func TestParseSeedFillsDefaults(t *testing.T) {
	rows, err := parseSeed([]byte(`{"equipment":[{"name":"Old Cart","type":"Bullock Cart","price":"200","condition":"Rusty"}]}`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Other", rows[0].Type.String())
	assert.Equal(t, "Good", rows[0].Condition.String())
	assert.Equal(t, "₹200", rows[0].Price)
	assert.Equal(t, "Not provided", rows[0].OwnerPhone)
	assert.Equal(t, "Unknown", rows[0].Location)
	assert.True(t, rows[0].Available)
	assert.Equal(t, 4.5, rows[0].Rating)

	_, err = parseSeed([]byte(`{`))
	require.Error(t, err)
}
