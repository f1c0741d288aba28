/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"os"

	"github.com/cristianoliveira/bufferbell/cmd"
	"github.com/cristianoliveira/bufferbell/internal/colors"
	"github.com/cristianoliveira/bufferbell/internal/config"
	"github.com/cristianoliveira/bufferbell/internal/logging"
)

func main() {
	config.Load()
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("logging disabled: " + err.Error())
	}
	colors.StructuredInfo("startup", "main", "started", nil, nil)

	err := cmd.Execute()
	closeApp()
	_ = logging.ShutdownGlobal()
	if err != nil {
		colors.Error(err.Error())
		colors.StructuredError("startup", "main", "failed", err, nil)
		os.Exit(1)
	}
	colors.StructuredInfo("startup", "main", "completed", nil, nil)
}
