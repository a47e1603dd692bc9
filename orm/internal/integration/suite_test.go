//go:build integration

package integration

import (
	"context"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/startdusk/saltyorm/orm"
	"github.com/startdusk/saltyorm/orm/internal/test"
	"github.com/startdusk/saltyorm/orm/mysql"
	"github.com/startdusk/saltyorm/orm/sqlite3"
)

type Suite struct {
	suite.Suite

	driver string
	dsn    string

	db *orm.DB
}

func (s *Suite) SetupSuite() {
	var err error
	switch s.driver {
	case orm.ProviderMySQL:
		s.db, err = mysql.OpenDSN(s.dsn)
	default:
		s.db, err = sqlite3.Open(s.dsn)
	}
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.db.Ping(context.Background()))

	_, err = s.db.ExecCommit(context.Background(), test.CreateUserSQL(s.driver), nil)
	require.NoError(s.T(), err)
}

// 每个测试结束之后清空数据
func (s *Suite) TearDownTest() {
	_, err := s.db.ExecCommit(context.Background(), "DELETE FROM user WHERE id > ?", []any{0})
	require.NoError(s.T(), err)
}

func (s *Suite) TearDownSuite() {
	_ = s.db.Close()
}

// seed 插入测试数据
func (s *Suite) seed() []*orm.Model {
	res := make([]*orm.Model, 0, 4)
	for _, vals := range test.Users() {
		m, err := orm.NewModel(context.Background(), s.db, test.UserTable, orm.WithValues(vals))
		require.NoError(s.T(), err)
		saved, err := m.Save(context.Background(), true)
		require.NoError(s.T(), err)
		res = append(res, saved)
	}
	return res
}
