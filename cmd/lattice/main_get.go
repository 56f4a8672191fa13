package main

import (
	"flag"
	"log"
	"os"

	"github.com/lattice-web/lattice/container"
)

type GetConfig struct {
	In   string
	Path string
}

func getMain(args []string) {
	config := parseGetConfig(args)
	state, err := os.ReadFile(config.In)
	if err != nil {
		log.Fatal(err)
	}
	app, err := container.Parse(state)
	if err != nil {
		log.Fatal(err)
	}
	content, err := app.GetFile(config.Path)
	if err != nil {
		log.Fatal(err)
	}
	_, err = os.Stdout.Write(content)
	if err != nil {
		log.Fatal(err)
	}
}

func parseGetConfig(args []string) (config GetConfig) {
	flags := flag.NewFlagSet("get", flag.ExitOnError)
	flags.StringVar(&config.In,
		"in",
		"webapp.state",
		"Envelope file to read.",
	)
	_ = flags.Parse(args)
	if flags.NArg() != 1 {
		log.Fatal("get requires exactly one entry path argument")
	}
	config.Path = flags.Arg(0)
	return config
}
