package main

import (
	"flag"
	"log"

	"github.com/lattice-web/lattice/node"
	"github.com/lattice-web/lattice/shell"
)

func nodeMain(args []string) {
	config := parseNodeConfig(args)
	err := node.Run(config)
	if err != nil {
		log.Fatal(err)
	}
}

func parseNodeConfig(args []string) (config node.Config) {
	var mode string
	flags := flag.NewFlagSet("node", flag.ExitOnError)
	flags.StringVar(&mode,
		"mode",
		"local",
		"Operation mode: local (loopback only) or network (gateway).",
	)
	flags.StringVar(&config.ListenAddress,
		"listen",
		defaultListenAddress(),
		"Gateway listen address (defaults to $LATTICE_LISTEN when set).",
	)
	flags.StringVar(&config.StoreRoot,
		"store",
		"",
		"State store directory. Empty in local mode keeps state in memory.",
	)
	flags.StringVar(&config.Compression,
		"compression",
		"zstd",
		"State record compression algorithm (zstd or gzip).",
	)
	flags.IntVar(&config.MaxRetry,
		"max-retry",
		5,
		"How many times to retry transient state store failures.",
	)
	_ = flags.Parse(args)
	config.Mode = node.OperationMode(mode)
	return config
}

func defaultListenAddress() string {
	if address, set := shell.NewEnvironment().LookupEnv("LATTICE_LISTEN"); set {
		return address
	}
	return "127.0.0.1:7645"
}
