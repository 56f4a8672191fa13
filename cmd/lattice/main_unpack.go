package main

import (
	"flag"
	"log"
	"os"

	"github.com/lattice-web/lattice/container"
)

type UnpackConfig struct {
	In          string
	Destination string
}

func unpackMain(args []string) {
	config := parseUnpackConfig(args)
	state, err := os.ReadFile(config.In)
	if err != nil {
		log.Fatal(err)
	}
	app, err := container.Parse(state)
	if err != nil {
		log.Fatal(err)
	}
	err = app.Unpack(config.Destination)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Unpacked web content to \"%s\".", config.Destination)
}

func parseUnpackConfig(args []string) (config UnpackConfig) {
	flags := flag.NewFlagSet("unpack", flag.ExitOnError)
	flags.StringVar(&config.In,
		"in",
		"webapp.state",
		"Envelope file to extract.",
	)
	flags.StringVar(&config.Destination,
		"dest",
		".",
		"Destination directory for extracted entries.",
	)
	_ = flags.Parse(args)
	return config
}
