package utils

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	return t
}

func Fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

// OrDash renders empty values as "-" so table columns stay aligned.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
