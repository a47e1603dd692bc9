package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/startdusk/saltyorm/orm"
)

func printTable(w io.Writer, headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

func printModels(w io.Writer, models []*orm.Model) error {
	if len(models) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}
	cols := sortedColumns(models)
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		row := make([]string, 0, len(cols))
		for _, c := range cols {
			v, ok := m.Get(c)
			if !ok || v.IsNull() {
				row = append(row, "NULL")
				continue
			}
			row = append(row, v.String())
		}
		rows = append(rows, row)
	}
	return printTable(w, cols, rows)
}

// printJSON 一行一条记录
func printJSON(w io.Writer, models []*orm.Model) error {
	for _, m := range models {
		bs, err := m.JSON(false)
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintln(w, string(bs)); err != nil {
			return err
		}
	}
	return nil
}
