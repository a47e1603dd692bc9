package prometheus

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/startdusk/saltyorm/orm"
)

type MiddlewareBuilder struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string

	// Registerer 为空的时候注册到默认的 Registry
	Registerer prometheus.Registerer
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	vector := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:      m.Name,
		Subsystem: m.Subsystem,
		Namespace: m.Namespace,
		Help:      m.Help,

		// 设置指标 如 0.5: 0.01 0.5是一个指标，0.01是一个误差值，表示0.5上下0.01 即误差范围为 0.49-0.51
		Objectives: map[float64]float64{
			0.5:   0.01,
			0.75:  0.01,
			0.90:  0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{
		"type",     // SELECT, INSERT, UPDATE, DELETE
		"provider", // sqlite3, mysql
		"status",   // ok, error
	})

	reg := m.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(vector)

	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			startTime := time.Now()
			res := next(ctx, qc)
			status := "ok"
			if res.Err != nil {
				status = "error"
			}
			// 记录执行时间, 单位毫秒
			duration := float64(time.Since(startTime).Microseconds()) / 1000
			vector.WithLabelValues(qc.Type, qc.Provider, status).Observe(duration)
			return res
		}
	}
}
