package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	if isSubCommand("node") {
		nodeMain(os.Args[2:])
	} else if isSubCommand("pack") {
		packMain(os.Args[2:])
	} else if isSubCommand("unpack") {
		unpackMain(os.Args[2:])
	} else if isSubCommand("get") {
		getMain(os.Args[2:])
	} else if isSubCommand("version") {
		versionMain()
	} else {
		usage()
	}
}

func isSubCommand(name string) bool {
	return len(os.Args) > 1 && os.Args[1] == name
}

func usage() {
	fmt.Println("Usage: lattice <subcommand> [flags]")
	fmt.Println()
	fmt.Println("  node     Run a node serving contract web applications.")
	fmt.Println("  pack     Build a webapp container envelope from a directory or archive.")
	fmt.Println("  unpack   Extract every entry of an envelope to a directory.")
	fmt.Println("  get      Extract a single entry of an envelope to stdout.")
	fmt.Println("  version  Print the software version.")
	os.Exit(2)
}

func versionMain() {
	fmt.Printf("lattice [%s]\n", ldflagsSoftwareVersion)
}

var ldflagsSoftwareVersion = "debug"
