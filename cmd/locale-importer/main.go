// Package main imports locale CSV exports into the web database.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/gettogethercomm/gettogether/internal/platform/config"
	localeimporter "github.com/gettogethercomm/gettogether/internal/tools/importer/locale"
)

func main() {
	cfg, err := localeimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := localeimporter.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
