package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	cases := []struct {
		name      string
		agg       Aggregate
		wantAlias string
		wantStr   string
		wantFlat  string
	}{
		{
			name:      "max",
			agg:       Max("id"),
			wantAlias: "id__max",
			wantStr:   "MAX (id) as id__max",
			wantFlat:  "MAX(id) as id__max",
		},
		{
			name:      "min",
			agg:       Min("age"),
			wantAlias: "age__min",
			wantStr:   "MIN (age) as age__min",
			wantFlat:  "MIN(age) as age__min",
		},
		{
			name:      "count alias",
			agg:       Count("id").As("total"),
			wantAlias: "total",
			wantStr:   "COUNT (id) as total",
			wantFlat:  "COUNT(id) as total",
		},
		{
			name:      "sum",
			agg:       Sum("score"),
			wantAlias: "score__sum",
			wantStr:   "SUM (score) as score__sum",
			wantFlat:  "SUM(score) as score__sum",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantAlias, tc.agg.Alias())
			assert.Equal(t, tc.wantStr, tc.agg.String())
			assert.Equal(t, tc.wantFlat, tc.agg.render(false))
		})
	}
}

func TestNewAggregate(t *testing.T) {
	a, err := NewAggregate("avg", "age", "")
	assert.NoError(t, err)
	assert.Equal(t, "AVG (age) as age__avg", a.String())

	_, err = NewAggregate("max", " ", "")
	assert.ErrorIs(t, err, ErrMissingField)
}
