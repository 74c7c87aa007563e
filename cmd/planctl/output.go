package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/render"
)

const wordWrap = 120

// printReport выводит отчет markdown-стратегией; без --raw документ
// проходит через glamour.
func (c *cli) printReport(result planning.Result) error {
	sections, err := c.report.Render(result)
	if err != nil {
		return err
	}

	doc := render.Document(sections)
	if c.raw {
		_, err = fmt.Fprint(c.out, doc)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	styled, err := renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err = fmt.Fprint(c.out, styled)
	return err
}

func (c *cli) println(line string) {
	fmt.Fprintln(c.out, line)
}
