// Command promptctl is a terminal client for the prompthub API.
package main

import (
	"os"

	"github.com/prompthub/prompthub/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
