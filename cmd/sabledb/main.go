// Command sabledb is a fixed-menu demonstration shell over the
// planner/executor core: it wires up the catalog, storage managers and
// engine, then lets an operator step through a handful of named
// scenarios using github.com/chzyer/readline for line editing and
// history. It deliberately does not accept free-form SQL text — SQL
// tokenization and parsing, and the client session loop built around
// it, are both treated as external collaborators by this module (see
// ast.Statement's own doc comment) — so every scenario's statements are
// constructed directly as ast.Statement values instead.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/engine"
	"github.com/sabledb/sabledb/logging"
	"github.com/sabledb/sabledb/storage/index"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/types"
)

func main() {
	log := logging.New(&logging.Options{Debug: true})
	defer func() { _ = log.Sync() }()

	eng := engine.New(catalog.NewCatalog(), record.NewHeapManager(), index.NewSortedIndexManager(), log)
	session := engine.NewSession(eng)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sabledb> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	fmt.Println("sabledb demo shell — type \\help for the scenario list")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println("^C")
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		_ = rl.SaveHistory(line)

		switch line {
		case "\\q", "quit", "exit":
			return
		case "\\help", "help":
			printHelp()
		case "\\list", "list":
			printScenarioList()
		default:
			runNamed(session, strings.TrimPrefix(line, "\\run "))
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  \list | list         show the available scenarios
  \run <name>          run one scenario by name
  <name>               same as "\run <name>"
  \q | quit | exit      quit
  \help | help          this text`)
}

func printScenarioList() {
	for _, sc := range scenarios() {
		fmt.Printf("  %-10s %s\n", sc.name, sc.about)
	}
}

func runNamed(session *engine.Session, name string) {
	name = strings.TrimSpace(name)
	for _, sc := range scenarios() {
		if sc.name != name {
			continue
		}
		runScenario(session, sc)
		return
	}
	fmt.Printf("unknown scenario %q — try \\list\n", name)
}

func runScenario(session *engine.Session, sc scenario) {
	fmt.Printf("-- %s: %s\n", sc.name, sc.about)
	for _, stmt := range sc.stmts {
		res, err := session.Execute(stmt)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		printResult(res)
	}
}

func printResult(res *engine.Result) {
	switch {
	case res.ExplainText != "":
		fmt.Println(res.ExplainText)
	case len(res.Text) > 0:
		printTextRows(res.Columns, res.Text)
	case len(res.Columns) > 0:
		printValueRows(res.Columns, res.Rows)
	case res.Message != "":
		fmt.Println(res.Message)
	default:
		fmt.Printf("OK (%d affected)\n", res.Affected)
	}
}

func printTextRows(cols []string, rows [][]string) {
	widths := columnWidths(cols, rows)
	printRow(cols, widths)
	printSeparator(widths)
	for _, row := range rows {
		printRow(row, widths)
	}
}

func printValueRows(cols []string, rows [][]types.Value) {
	strRows := make([][]string, len(rows))
	for i, row := range rows {
		strRow := make([]string, len(row))
		for j, v := range row {
			strRow[j] = v.String()
		}
		strRows[i] = strRow
	}
	printTextRows(cols, strRows)
	fmt.Printf("(%d rows)\n", len(rows))
}

func columnWidths(cols []string, rows [][]string) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}
	return widths
}

func printRow(values []string, widths []int) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = padRight(v, widths[i])
	}
	fmt.Println(strings.Join(parts, " | "))
}

func printSeparator(widths []int) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	fmt.Println(strings.Join(parts, "-+-"))
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
