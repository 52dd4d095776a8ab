// Package main is the entry point for pgedge-dataclean.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-dataclean/internal/cli"

	// Register datasets
	_ "github.com/pgEdge/pgedge-dataclean/internal/datasets/fooddelivery"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
