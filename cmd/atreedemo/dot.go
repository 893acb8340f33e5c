package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dotCmd = &cobra.Command{
	Use:   "dot",
	Short: "Load the scenario and print the Graphviz DOT export of the resulting DAG",
	RunE:  runDot,
}

func runDot(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(scenarioPath())
	if err != nil {
		return err
	}

	tree, err := buildTree(sc)
	if err != nil {
		return err
	}

	fmt.Print(tree.ToGraphviz())
	return nil
}
