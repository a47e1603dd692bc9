package prometheus

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdusk/saltyorm/orm"
)

func TestMiddlewareBuilder(t *testing.T) {
	reg := prometheus.NewRegistry()
	mdl := MiddlewareBuilder{
		Namespace:  "saltyorm",
		Subsystem:  "orm",
		Name:       "query_duration",
		Help:       "statement latency",
		Registerer: reg,
	}.Build()

	root := mdl(func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
		if qc.Type == "DELETE" {
			return &orm.QueryResult{Err: errors.New("mock error")}
		}
		return &orm.QueryResult{}
	})
	for _, typ := range []string{"SELECT", "SELECT", "DELETE"} {
		root(context.Background(), &orm.QueryContext{
			Type:     typ,
			Query:    &orm.Query{SQL: typ},
			Provider: orm.ProviderSQLite,
		})
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 1)
	assert.Equal(t, "saltyorm_orm_query_duration", mfs[0].GetName())

	counts := make(map[string]uint64, 2)
	for _, m := range mfs[0].GetMetric() {
		labels := make(map[string]string, 3)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, orm.ProviderSQLite, labels["provider"])
		counts[labels["type"]+"/"+labels["status"]] = m.GetSummary().GetSampleCount()
	}
	assert.Equal(t, map[string]uint64{
		"SELECT/ok":    2,
		"DELETE/error": 1,
	}, counts)
}
