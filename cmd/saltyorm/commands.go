package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/startdusk/saltyorm/orm"
)

// queryOptions select, sql, count 共用的查询参数
type queryOptions struct {
	fields   []string
	where    map[string]string
	exclude  map[string]string
	orderBy  []string
	groupBy  []string
	limit    int
	distinct bool
	raw      string
}

func (q *queryOptions) bind(cmd *cobra.Command, full bool) {
	flags := cmd.Flags()
	flags.StringToStringVar(&q.where, "where", nil, "equality filters, e.g. name=Tom,age=18")
	flags.StringToStringVar(&q.exclude, "exclude", nil, "negated equality filters")
	flags.StringVar(&q.raw, "raw", "", "raw SELECT statement, other query flags are ignored")
	if !full {
		return
	}
	flags.StringSliceVar(&q.fields, "fields", nil, "columns to select")
	flags.StringSliceVar(&q.orderBy, "order", nil, "ORDER BY terms, e.g. \"age DESC\"")
	flags.StringSliceVar(&q.groupBy, "group", nil, "GROUP BY columns")
	flags.IntVar(&q.limit, "limit", -1, "LIMIT, negative means no limit")
	flags.BoolVar(&q.distinct, "distinct", false, "SELECT DISTINCT")
}

func pairs(m map[string]string) orm.F {
	res := make(orm.F, len(m))
	for k, v := range m {
		res[k] = v
	}
	return res
}

// apply 把参数转成 QuerySet, 错误在 QuerySet 里延迟返回
func (q *queryOptions) apply(qs *orm.QuerySet) *orm.QuerySet {
	if q.raw != "" {
		return qs.RawQuery(q.raw)
	}
	if len(q.where) > 0 {
		qs = qs.FilterBy(pairs(q.where))
	}
	if len(q.exclude) > 0 {
		qs = qs.ExcludeBy(pairs(q.exclude))
	}
	if len(q.fields) > 0 {
		qs = qs.ValuesList(q.fields...)
	}
	if len(q.groupBy) > 0 {
		qs = qs.GroupBy(q.groupBy...)
	}
	if len(q.orderBy) > 0 {
		qs = qs.OrderBy(q.orderBy...)
	}
	if q.limit >= 0 {
		qs = qs.Limit(q.limit)
	}
	if q.distinct {
		qs = qs.Distinct()
	}
	return qs
}

// withSession 打开连接执行 fn, 结束之后关闭连接
func withSession(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, s *session) error) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(cfg, opts.logger())
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()
	return fn(cmd.Context(), s)
}

func newColumnsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "List the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				m, err := s.model(ctx, args[0])
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(m.Fields()))
				for i, f := range m.Fields() {
					rows = append(rows, []string{fmt.Sprint(i), f})
				}
				return printTable(cmd.OutOrStdout(), []string{"#", "column"}, rows)
			})
		},
	}
}

func newCountCommand(opts *rootOptions) *cobra.Command {
	q := &queryOptions{limit: -1}
	cmd := &cobra.Command{
		Use:   "count <table>",
		Short: "Count the rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				m, err := s.model(ctx, args[0])
				if err != nil {
					return err
				}
				cnt, err := q.apply(m.Objects()).Count(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), cnt)
				return err
			})
		},
	}
	q.bind(cmd, false)
	return cmd
}

func newSelectCommand(opts *rootOptions) *cobra.Command {
	q := &queryOptions{}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "select <table>",
		Short: "Query the rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				m, err := s.model(ctx, args[0])
				if err != nil {
					return err
				}
				models, err := q.apply(m.Objects()).Models(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), models)
				}
				return printModels(cmd.OutOrStdout(), models)
			})
		},
	}
	q.bind(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON lines")
	return cmd
}

// newSQLCommand 只生成 SQL, 不连接数据库
func newSQLCommand(opts *rootOptions) *cobra.Command {
	q := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "sql <table>",
		Short: "Print the SELECT statement without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			// 测试连接不会查询表结构, 也不会真正执行
			cfg.Testing = true
			s, err := newSession(cfg, opts.logger())
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			m, err := s.model(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sql, params, err := q.apply(m.Objects()).ToSQL()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err = fmt.Fprintln(out, sql); err != nil {
				return err
			}
			if len(params) > 0 {
				_, err = fmt.Fprintln(out, params...)
			}
			return err
		},
	}
	q.bind(cmd, true)
	return cmd
}

func sortedColumns(models []*orm.Model) []string {
	if len(models) == 0 {
		return nil
	}
	cols := models[0].Fields()
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		seen[c] = struct{}{}
	}
	var extra []string
	for _, m := range models[1:] {
		for _, c := range m.Fields() {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				extra = append(extra, c)
			}
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

