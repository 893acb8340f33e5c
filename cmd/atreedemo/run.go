package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load the scenario, run each event through the tree, and print matches",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(scenarioPath())
	if err != nil {
		return err
	}

	tree, err := buildTree(sc)
	if err != nil {
		return err
	}

	for _, ev := range sc.Events {
		eb, err := buildEvent(tree, sc, ev)
		if err != nil {
			return err
		}
		matches, err := tree.Search(eb)
		if err != nil {
			return err
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })
		fmt.Printf("%s: %v\n", ev.Name, matches)
	}

	return nil
}
