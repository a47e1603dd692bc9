package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdusk/saltyorm/orm/internal/errs"
)

func TestSelector_Build(t *testing.T) {
	cases := []struct {
		name      string
		builder   func() (*Selector, error)
		wantQuery *Query
		wantErr   error
	}{
		{
			name: "no where",
			builder: func() (*Selector, error) {
				return NewSelector("user"), nil
			},
			wantQuery: &Query{
				SQL: "SELECT * FROM user",
			},
		},
		{
			name: "fields",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				s.SetFields("id", "name")
				return s, nil
			},
			wantQuery: &Query{
				SQL: "SELECT id, name FROM user",
			},
		},
		{
			name: "where",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.AddPredicate(false, []Q{C("age").Gt(18)}, nil)
			},
			wantQuery: &Query{
				SQL:  "SELECT * FROM user WHERE age > ?",
				Args: []any{18},
			},
		},
		{
			name: "pairs sorted",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.AddPredicate(false, nil, F{"name": "Tom", "age": 18})
			},
			wantQuery: &Query{
				SQL:  "SELECT * FROM user WHERE age = ? AND name = ?",
				Args: []any{18, "Tom"},
			},
		},
		{
			name: "predicates and pairs",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.AddPredicate(false, []Q{C("id").Gt(1)}, F{"name": "Tom"})
			},
			wantQuery: &Query{
				SQL:  "SELECT * FROM user WHERE id > ? AND name = ?",
				Args: []any{1, "Tom"},
			},
		},
		{
			name: "add predicate twice",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				if err := s.AddPredicate(false, []Q{C("id").Gt(1)}, nil); err != nil {
					return nil, err
				}
				return s, s.AddPredicate(false, []Q{C("id").Lt(10)}, nil)
			},
			wantQuery: &Query{
				SQL:  "SELECT * FROM user WHERE id > ? AND id < ?",
				Args: []any{1, 10},
			},
		},
		{
			name: "exclude",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.AddPredicate(true, []Q{C("name").Eq("Tom"), C("age").IsNull()}, nil)
			},
			wantQuery: &Query{
				SQL:  "SELECT * FROM user WHERE NOT name = ? AND age IS NOT NULL",
				Args: []any{"Tom"},
			},
		},
		{
			name: "in",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.AddPredicate(false, []Q{C("name").In("Jane", "John", "Patrick")}, nil)
			},
			wantQuery: &Query{
				SQL:  "SELECT * FROM user WHERE name IN (?, ?, ?)",
				Args: []any{"Jane", "John", "Patrick"},
			},
		},
		{
			name: "empty predicate",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.AddPredicate(false, nil, nil)
			},
			wantErr: errs.ErrInvalidArgument,
		},
		{
			name: "group by aggregate",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				s.SetFields("id", "name")
				s.SetGroupBy("name")
				return s, s.SetAggregate(Count("id"))
			},
			wantQuery: &Query{
				SQL: "SELECT id, name, COUNT (id) as id__count FROM user GROUP BY name",
			},
		},
		{
			name: "aggregate without group by",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.SetAggregate(Max("id"))
			},
			wantQuery: &Query{
				SQL: "SELECT *, MAX(id) as id__max FROM user",
			},
		},
		{
			name: "aggregate missing field",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.SetAggregate(Max(""))
			},
			wantErr: errs.ErrMissingField,
		},
		{
			name: "order by limit distinct",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				s.SetFields("name")
				s.SetDistinct()
				s.SetOrderBy("name", "id DESC")
				return s, s.SetLimit(10)
			},
			wantQuery: &Query{
				SQL: "SELECT DISTINCT name FROM user ORDER BY name, id DESC LIMIT 10",
			},
		},
		{
			name: "limit zero",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.SetLimit(0)
			},
			wantQuery: &Query{
				SQL: "SELECT * FROM user LIMIT 0",
			},
		},
		{
			name: "negative limit",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				return s, s.SetLimit(-1)
			},
			wantErr: errs.ErrInvalidArgument,
		},
		{
			name: "raw",
			builder: func() (*Selector, error) {
				s := NewSelector("user")
				s.SetFields("id")
				s.SetRaw("SELECT * FROM user WHERE id = ?", 1)
				return s, nil
			},
			wantQuery: &Query{
				SQL:  "SELECT * FROM user WHERE id = ?",
				Args: []any{1},
			},
		},
		{
			name: "no table",
			builder: func() (*Selector, error) {
				return NewSelector(""), nil
			},
			wantErr: errs.ErrModelConfiguration,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := tc.builder()
			if err == nil {
				var q *Query
				q, err = s.Build("?")
				if err == nil {
					assert.Equal(t, tc.wantQuery, q)
				}
			}
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSelector_BuildPlaceholder(t *testing.T) {
	s := NewSelector("user")
	require.NoError(t, s.AddPredicate(false, []Q{C("id").Between(1, 10)}, nil))

	q, err := s.Build("%s")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM user WHERE id BETWEEN %s AND %s", q.SQL)

	// 没有指定占位符的时候保留通用占位符
	q, err = s.Build("")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM user WHERE id BETWEEN ?? AND ??", q.SQL)
}

func TestSelector_Clone(t *testing.T) {
	s := NewSelector("user")
	s.SetFields("id")
	require.NoError(t, s.AddPredicate(false, []Q{C("id").Gt(1)}, nil))

	c := s.clone()
	c.SetFields("name")
	require.NoError(t, c.AddPredicate(false, []Q{C("age").Lt(30)}, nil))
	require.NoError(t, c.SetLimit(5))

	q, err := s.Build("?")
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM user WHERE id > ?", q.SQL)

	q, err = c.Build("?")
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM user WHERE id > ? AND age < ? LIMIT 5", q.SQL)
}

func TestSelector_CountQuery(t *testing.T) {
	cases := []struct {
		name      string
		builder   func() *Selector
		wantQuery *Query
	}{
		{
			name: "table",
			builder: func() *Selector {
				return NewSelector("user")
			},
			wantQuery: &Query{SQL: "SELECT COUNT(1) AS count FROM user"},
		},
		{
			name: "order by only",
			builder: func() *Selector {
				s := NewSelector("user")
				s.SetOrderBy("id")
				return s
			},
			wantQuery: &Query{SQL: "SELECT COUNT(1) AS count FROM user"},
		},
		{
			name: "filtered",
			builder: func() *Selector {
				s := NewSelector("user")
				_ = s.AddPredicate(false, nil, F{"name": "Tom"})
				return s
			},
			wantQuery: &Query{
				SQL:  "SELECT COUNT(1) AS count FROM (SELECT * FROM user WHERE name = ?) AS sub_query",
				Args: []any{"Tom"},
			},
		},
		{
			name: "limit",
			builder: func() *Selector {
				s := NewSelector("user")
				_ = s.SetLimit(3)
				return s
			},
			wantQuery: &Query{
				SQL: "SELECT COUNT(1) AS count FROM (SELECT * FROM user LIMIT 3) AS sub_query",
			},
		},
		{
			name: "raw",
			builder: func() *Selector {
				s := NewSelector("user")
				s.SetRaw("SELECT * FROM user WHERE age > ?", 18)
				return s
			},
			wantQuery: &Query{
				SQL:  "SELECT COUNT(1) AS count FROM (SELECT * FROM user WHERE age > ?) AS raw_query",
				Args: []any{18},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := tc.builder().countQuery("?")
			require.NoError(t, err)
			assert.Equal(t, tc.wantQuery, q)
		})
	}
}
