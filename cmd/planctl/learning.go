package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/termui"
)

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show training set statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.coordinator.Statistics(cmd.Context())
			if err != nil {
				return err
			}

			c.println(termui.Fields("Training set", statisticsFields(stats)))
			return nil
		},
	}
}

func statisticsFields(stats planning.Statistics) []termui.Field {
	fields := []termui.Field{
		{Label: "cases", Value: strconv.Itoa(stats.TotalCases)},
		{Label: "trained", Value: strconv.Itoa(stats.TrainedCases)},
		{Label: "data size, GB", Value: rangeText(stats.DataSizeRange)},
		{Label: "qps", Value: rangeText(stats.QPSRange)},
	}

	names := make([]string, 0, len(stats.ArchitectureDistribution))
	for name := range stats.ArchitectureDistribution {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fields = append(fields, termui.Field{Label: name, Value: strconv.Itoa(stats.ArchitectureDistribution[name])})
	}
	return fields
}

func rangeText(r planning.Range) string {
	return fmt.Sprintf("%g .. %g (avg %g)", r.Min, r.Max, r.Avg)
}

func (c *cli) trainCmd() *cobra.Command {
	var epochs int

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Retrain the prediction model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.coordinator.Train(cmd.Context(), c.state, epochs)
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("training failed: %s", result.Message)
			}

			c.println(termui.Success(result.Message))
			return nil
		},
	}

	cmd.Flags().IntVar(&epochs, "epochs", planning.DefaultEpochs, "training epochs")
	return cmd
}

func (c *cli) caseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Manage training cases",
	}

	var fields planning.CaseFields
	submit := &cobra.Command{
		Use:     "submit",
		Short:   "Add a real deployment to the training set",
		Example: `  planctl case submit --data-size 800 --qps 12000 --architecture distributed --nodes 6`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			receipt, err := c.coordinator.SubmitCase(cmd.Context(), c.state, fields)
			if err != nil {
				return err
			}
			if !receipt.Success {
				return fmt.Errorf("case rejected: %s", receipt.Message)
			}

			c.println(termui.Success(fmt.Sprintf("case %s added, %d cases in total", receipt.CaseID, receipt.Statistics.TotalCases)))
			return nil
		},
	}

	flags := submit.Flags()
	flags.StringVar(&fields.DataSize, "data-size", "", "total data size, GB")
	flags.StringVar(&fields.QPS, "qps", "", "queries per second")
	flags.StringVar(&fields.ArchitectureType, "architecture", "", "deployed architecture type")
	flags.StringVar(&fields.NodeCount, "nodes", "", "number of nodes")
	flags.StringVar(&fields.Feedback, "feedback", "", "free-form notes")

	cmd.AddCommand(submit)
	return cmd
}

func (c *cli) feedbackCmd() *cobra.Command {
	var fields planning.FeedbackFields

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send feedback about the prediction quality",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := c.coordinator.SubmitFeedback(cmd.Context(), c.state, fields)
			if err != nil {
				return err
			}
			if !ack.Success {
				return fmt.Errorf("feedback rejected: %s", ack.Message)
			}

			c.println(termui.Success(ack.Message))
			return nil
		},
	}

	cmd.Flags().IntVar(&fields.Rating, "rating", planning.DefaultRating, "rating from 1 to 5")
	cmd.Flags().StringVar(&fields.Comment, "comment", "", "feedback text")
	return cmd
}
