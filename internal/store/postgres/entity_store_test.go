package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

func newMockStore(t *testing.T) (*EntityStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	store, err := NewEntityStoreWithPool(mock, "sanction_entities")
	require.NoError(t, err)
	return store, mock
}

func TestNewEntityStoreWithPoolValidation(t *testing.T) {
	t.Parallel()

	_, err := NewEntityStoreWithPool(nil, "sanction_entities")
	assert.Error(t, err)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewEntityStoreWithPool(mock, `entities; DROP TABLE users`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")

	store, err := NewEntityStoreWithPool(mock, "")
	require.NoError(t, err)
	assert.Equal(t, "sanction_entities", store.table)
}

func TestNewEntityStoreRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := NewEntityStore(context.Background(), EntityStoreConfig{})
	assert.Error(t, err)
}

func TestUpsertEntity(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	entity := model.NewEntity("eu-1", "Viktor Petrov", model.EntityTypePerson, "eu-sanctions")
	entity.Nationality = "Russia"

	mock.ExpectExec("INSERT INTO sanction_entities").
		WithArgs("eu-1", "eu-sanctions", "run-123", "Viktor Petrov", "person", "active",
			"Russia", entity.CreatedAt, entity.LastUpdated, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.UpsertEntity(context.Background(), "run-123", entity))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertEntityRejectsBadInput(t *testing.T) {
	t.Parallel()

	store, _ := newMockStore(t)

	err := store.UpsertEntity(context.Background(), "run-123", nil)
	assert.Error(t, err)

	blank := &model.SanctionEntity{Name: "No ID", CreatedAt: time.Now(), LastUpdated: time.Now()}
	err = store.UpsertEntity(context.Background(), "run-123", blank)
	assert.Error(t, err)
}

func TestUpsertEntitiesStopsOnFirstError(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	first := model.NewEntity("a", "First", model.EntityTypePerson, "ofac")
	second := model.NewEntity("b", "Second", model.EntityTypePerson, "ofac")

	mock.ExpectExec("INSERT INTO sanction_entities").
		WithArgs("a", "ofac", "run-1", "First", "person", "active",
			"", first.CreatedAt, first.LastUpdated, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO sanction_entities").
		WithArgs("b", "ofac", "run-1", "Second", "person", "active",
			"", second.CreatedAt, second.LastUpdated, pgxmock.AnyArg()).
		WillReturnError(assert.AnError)

	err := store.UpsertEntities(context.Background(), "run-1", []*model.SanctionEntity{first, second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert entity b")
	assert.NoError(t, mock.ExpectationsWereMet())
}
