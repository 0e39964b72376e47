package main

import (
	"fmt"
	"os"

	"imgclassd/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "imgclassd:", err)
		os.Exit(1)
	}
}
