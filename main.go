package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cerfical/resolve/internal/config"
	"github.com/cerfical/resolve/internal/log"
	"github.com/cerfical/resolve/internal/resolver"
	"github.com/cerfical/resolve/internal/rewrite"
)

// Overridden at build time via -ldflags
var version = "dev"

func main() {
	config := config.Load(os.Args)
	if config.Version {
		fmt.Printf("resolve %v\n", version)
		return
	}

	logger := log.New(log.WithLevel(config.Log.Level))

	var res resolver.Resolver = resolver.NewSystem()
	if config.DNSServer != "" {
		logger.Debug("Using a DNS server", log.Fields{"server": config.DNSServer})
		res = resolver.NewDNS(config.DNSServer)
	}

	rewriter := rewrite.New(
		rewrite.WithResolver(res),
		rewrite.WithLogger(logger),
		rewrite.WithComment(config.Comment),
		rewrite.WithBackup(config.Backup),
		rewrite.WithRecursive(config.Recursive),
	)

	ctx := context.Background()
	for _, input := range config.Inputs {
		logger.Info("Resolving references", log.Fields{"path": input})
		if err := rewriter.Process(ctx, input); err != nil {
			// The first failing input stops the run
			logger.Fatal("Processing failed", err)
		}
	}
}
