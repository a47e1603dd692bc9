//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/startdusk/saltyorm/orm"
	"github.com/startdusk/saltyorm/orm/internal/test"
)

func TestMySQLModel(t *testing.T) {
	suite.Run(t, &ModelSuite{
		Suite{
			driver: orm.ProviderMySQL,
			dsn:    "root:root@tcp(localhost:13306)/integration_test",
		},
	})
}

func TestSQLite3Model(t *testing.T) {
	suite.Run(t, &ModelSuite{
		Suite{
			driver: orm.ProviderSQLite,
			dsn:    "file:test_model.db?cache=shared&mode=memory",
		},
	})
}

type ModelSuite struct {
	Suite
}

func (s *ModelSuite) TestFields() {
	m, err := orm.NewModel(context.Background(), s.db, test.UserTable)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), test.UserFields(), m.Fields())
}

func (s *ModelSuite) TestSave() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := s.seed()
	require.Len(t, users, 4)
	jane := users[0]
	assert.True(t, jane.ID() > 0)
	created, ok := jane.Created()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), created, time.Minute)
	tags, _ := jane.Get("tags")
	assert.Equal(t, "admin,dev", tags.String())

	login, _ := users[3].Get("last_login")
	assert.Equal(t, orm.KindTime, login.Kind())

	jane.Set("age", 30)
	updated, err := jane.Save(ctx, true)
	require.NoError(t, err)
	age, _ := updated.Get("age")
	assert.Equal(t, "30", age.String())
	modified, ok := updated.Modified()
	require.True(t, ok)
	assert.False(t, modified.Before(created))

	_, err = updated.Delete(ctx)
	require.NoError(t, err)
	_, err = updated.Objects().Get(ctx, orm.C("id").Eq(updated.ID()))
	assert.ErrorIs(t, err, orm.ErrRecordNotFound)
}

func (s *ModelSuite) TestSaveMismatch() {
	m, err := orm.NewModel(context.Background(), s.db, test.UserTable, orm.WithValues(orm.F{"name": "Tom"}))
	require.NoError(s.T(), err)
	_, err = m.Save(context.Background(), false)
	assert.ErrorIs(s.T(), err, orm.ErrAttributeMismatch)
}
