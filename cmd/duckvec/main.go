// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Command duckvec encodes values into vectors of the reference engine and
// prints how the codec decodes and lays them out.
package main

import (
	"log"
	"os"

	"github.com/duckvec/duckvec/tool"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "duckvec [command] (flags)",
	Short: "duckvec vector codec introspection tool",
	Long: `
Examples:

  duckvec encode INTEGER 42 null -7
  duckvec layout 'VARCHAR' '"hello"' '"a string that is not inlined"'
  duckvec type parse 'MAP(VARCHAR, INTEGER[])' 'DECIMAL(18,3)'
`,
	SilenceUsage: true,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	t := tool.New()
	rootCmd.AddCommand(t.Commands...)

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
