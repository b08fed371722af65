package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabsift/internal/study"
)

var (
	listStudies   bool
	listRuns      bool
	listStudyName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List studies or the runs of a study",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listStudies == listRuns { // either both true or both false
			return fmt.Errorf("specify exactly one of --studies or --runs")
		}
		out := cmd.OutOrStdout()
		if listStudies {
			root, err := defaultStudiesDir()
			if err != nil {
				return err
			}
			names, err := study.List(root)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "(no studies)")
				return nil
			}
			for _, n := range names {
				fmt.Fprintf(out, "- %s\n", n)
			}
			return nil
		}
		if listStudyName == "" {
			return fmt.Errorf("--study is required when using --runs")
		}
		dir, err := resolveStudyDir(listStudyName)
		if err != nil {
			return err
		}
		s, err := study.Load(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Study %s (%s)\n", s.Name, s.RootDir())
		runs := s.SortedRuns()
		if len(runs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(out, "- %s %s %s: threshold %.2f, (%d, %d) -> (%d, %d)",
				r.At.Format("2006-01-02 15:04"), shortID(r.ID), r.Source, r.Threshold,
				r.RowsBefore, r.ColumnsBefore, r.RowsAfter, r.ColumnsAfter)
			if len(r.Dropped) > 0 {
				fmt.Fprintf(out, ", dropped %s", strings.Join(r.Dropped, ", "))
			}
			if r.RequiredField != "" {
				fmt.Fprintf(out, ", %d rows missing %s", r.RowsRemoved, r.RequiredField)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listStudies, "studies", false, "list studies")
	listCmd.Flags().BoolVar(&listRuns, "runs", false, "list runs in a study")
	listCmd.Flags().StringVarP(&listStudyName, "study", "s", "", "study name for --runs")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
