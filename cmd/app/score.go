package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"healthybychoice/internal/quiz"
)

// NewScoreCommand scores a set of answers offline, e.g.
//
//	healthybychoice score --answer diet=whole --answer sleep=7-plus
func NewScoreCommand() *cobra.Command {
	var answers []string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the microbiome score for a set of answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := quiz.ParseAnswers(answers)
			if err != nil {
				return err
			}
			score := quiz.ComputeScore(parsed)
			fmt.Fprintf(cmd.OutOrStdout(), "score: %d/100\nlabel: %s\n", score, quiz.Label(score))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "question=option, repeatable")
	return cmd
}
