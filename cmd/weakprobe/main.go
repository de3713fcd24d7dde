// Command weakprobe runs weakevent scenarios from YAML, JSON or TOML files
// and prints what each step did.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "weakprobe:", err)
		os.Exit(1)
	}
}
