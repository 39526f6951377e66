package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/kailas-cloud/murmur/internal/version"
)

func main() {
	ctx := context.Background()

	rootCmd := NewRootCmd(version.String())
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}
