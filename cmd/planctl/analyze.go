package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/termui"
)

func (c *cli) analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Predict architecture and cost",
	}

	var fields planning.FormFields
	manual := &cobra.Command{
		Use:   "manual",
		Short: "Analyze workload figures entered as flags",
		Example: `  planctl analyze manual --data-size 500 --tables 120 --qps 8000 --ha
  planctl analyze manual --data-size 2048 --growth 35 --rw-split --raw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.coordinator.AnalyzeManualInput(cmd.Context(), c.state, fields)
			if err != nil {
				return err
			}
			return c.printReport(result)
		},
	}

	flags := manual.Flags()
	flags.StringVar(&fields.DataSize, "data-size", "", "total data size, GB")
	flags.StringVar(&fields.TableCount, "tables", "", "number of tables")
	flags.StringVar(&fields.QPS, "qps", "", "queries per second")
	flags.StringVar(&fields.TPS, "tps", "", "transactions per second")
	flags.StringVar(&fields.Connections, "connections", "", "concurrent connections (default 1000)")
	flags.StringVar(&fields.GrowthRate, "growth", "", "yearly data growth, percent (default 20)")
	flags.BoolVar(&fields.HA, "ha", false, "need high availability")
	flags.BoolVar(&fields.DR, "dr", false, "need disaster recovery")
	flags.BoolVar(&fields.RWSplit, "rw-split", false, "need read/write splitting")

	image := &cobra.Command{
		Use:   "image <file>",
		Short: "Analyze a screenshot or photo of workload figures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, data, err := readInput(args[0])
			if err != nil {
				return err
			}

			if _, err := c.coordinator.SelectFile(c.state, name, data); err != nil {
				return err
			}

			result, err := c.coordinator.AnalyzeImage(cmd.Context(), c.state)
			if err != nil {
				return err
			}
			return c.printReport(result)
		},
	}

	cmd.AddCommand(manual, image)
	return cmd
}

func (c *cli) recognizeCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "recognize <file>",
		Short: "Extract workload figures from an image or spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recognitionMode, err := planning.ParseRecognitionMode(mode)
			if err != nil {
				return err
			}

			name, data, err := readInput(args[0])
			if err != nil {
				return err
			}

			rec, err := c.coordinator.Recognize(cmd.Context(), c.state, name, data, recognitionMode)
			if err != nil {
				return err
			}

			title := "Recognized workload"
			var fields []termui.Field
			if recognitionMode == planning.RecognitionCase {
				title = "Recognized case"
				fields = caseFields(c.state.CaseForm())
			} else {
				fields = formFields(c.state.Form())
			}
			if rec.IsMock {
				title += " (mock)"
			}

			c.println(termui.Fields(title, fields))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(planning.RecognitionPredict), "recognition mode: predict or case")
	return cmd
}

func readInput(path string) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	return filepath.Base(path), data, nil
}

func formFields(form planning.FormFields) []termui.Field {
	return []termui.Field{
		{Label: "data size, GB", Value: orDash(form.DataSize)},
		{Label: "tables", Value: orDash(form.TableCount)},
		{Label: "qps", Value: orDash(form.QPS)},
		{Label: "tps", Value: orDash(form.TPS)},
		{Label: "connections", Value: orDash(form.Connections)},
		{Label: "growth, %", Value: orDash(form.GrowthRate)},
		{Label: "high availability", Value: strconv.FormatBool(form.HA)},
		{Label: "disaster recovery", Value: strconv.FormatBool(form.DR)},
		{Label: "read/write split", Value: strconv.FormatBool(form.RWSplit)},
	}
}

func caseFields(form planning.CaseFields) []termui.Field {
	return []termui.Field{
		{Label: "data size, GB", Value: orDash(form.DataSize)},
		{Label: "qps", Value: orDash(form.QPS)},
		{Label: "architecture", Value: orDash(form.ArchitectureType)},
		{Label: "nodes", Value: orDash(form.NodeCount)},
	}
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
