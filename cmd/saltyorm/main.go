package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

var (
	// Version 编译的时候设置
	Version = "dev"
)

func main() {
	if err := newRootCommand(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
