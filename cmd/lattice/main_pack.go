package main

import (
	"crypto/md5"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/mholt/archiver"

	"github.com/lattice-web/lattice/container"
	"github.com/lattice-web/lattice/contracts"
	"github.com/lattice-web/lattice/core"
	"github.com/lattice-web/lattice/shell"
	"github.com/lattice-web/lattice/store"
)

type PackConfig struct {
	Source       string
	MetadataPath string
	Metadata     string
	Name         string
	Out          string
	PublishID    string
	StoreRoot    string
	Compression  string
	ShowProgress bool
}

func packMain(args []string) {
	config := parsePackConfig(args)
	NewPackApp(config).Run()
}

func parsePackConfig(args []string) (config PackConfig) {
	flags := flag.NewFlagSet("pack", flag.ExitOnError)
	flags.StringVar(&config.Source,
		"source",
		".",
		"Web asset source: a directory, or an existing archive file (tar.gz, zip, ...).",
	)
	flags.StringVar(&config.MetadataPath,
		"metadata",
		"",
		"Path to a file holding the contract metadata bytes.",
	)
	flags.StringVar(&config.Metadata,
		"meta",
		"",
		"Inline contract metadata (ignored when -metadata is set).",
	)
	flags.StringVar(&config.Name,
		"name",
		"webapp",
		"Package name recorded in the manifest log.",
	)
	flags.StringVar(&config.Out,
		"out",
		"webapp.state",
		"Destination file for the packed envelope.",
	)
	flags.StringVar(&config.PublishID,
		"publish",
		"",
		"When set, also publish the envelope under this contract id.",
	)
	flags.StringVar(&config.StoreRoot,
		"store",
		"",
		"State store directory for -publish.",
	)
	flags.StringVar(&config.Compression,
		"compression",
		"zstd",
		"State record compression algorithm for -publish.",
	)
	flags.BoolVar(&config.ShowProgress,
		"progress",
		false,
		"Show per-file archiving progress.",
	)
	_ = flags.Parse(args)
	return config
}

type PackApp struct {
	config   PackConfig
	disk     *shell.DiskFileSystem
	builder  *container.Builder
	packager *core.DirectoryPackageBuilder
	manifest contracts.Manifest
}

func NewPackApp(config PackConfig) *PackApp {
	return &PackApp{config: config, disk: shell.NewDiskFileSystem(".")}
}

func (this *PackApp) Run() {
	source := this.resolveSource()

	log.Println("Building the web archive...")
	this.buildArchiveAndManifestContents(source)

	log.Println("Manifest:", this.dumpManifest())

	app, err := container.FromData(this.loadMetadata(), this.builder)
	if err != nil {
		log.Fatal(err)
	}
	state, err := app.Pack()
	if err != nil {
		log.Fatal(err)
	}

	err = this.disk.WriteFile(this.config.Out, state)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Packed %d bytes into \"%s\".", len(state), this.config.Out)

	this.publish(state)
}

// resolveSource expands an archive-file source into a temp directory so the
// packager always walks a directory tree.
func (this *PackApp) resolveSource() string {
	info, err := os.Stat(this.config.Source)
	if err != nil {
		log.Fatal(err)
	}
	if info.IsDir() {
		return this.config.Source
	}
	expanded, err := os.MkdirTemp("", "lattice-pack-")
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Expanding \"%s\" before packing.", this.config.Source)
	err = archiver.Unarchive(this.config.Source, expanded)
	if err != nil {
		log.Fatal(err)
	}
	return expanded
}

func (this *PackApp) buildArchiveAndManifestContents(source string) {
	this.builder = container.NewBuilder()
	this.packager = core.NewDirectoryPackageBuilder(
		shell.NewDiskFileSystem(source),
		this.builder,
		md5.New(),
		this.config.ShowProgress,
	)
	err := this.packager.Build()
	if err != nil {
		log.Fatal(err)
	}
	this.manifest = contracts.Manifest{
		Name:     this.config.Name,
		Version:  ldflagsSoftwareVersion,
		Created:  time.Now().UTC(),
		Contents: this.packager.Contents(),
	}
}

func (this *PackApp) loadMetadata() []byte {
	if this.config.MetadataPath != "" {
		metadata, err := this.disk.ReadFile(this.config.MetadataPath)
		if err != nil {
			log.Fatal(err)
		}
		return metadata
	}
	return []byte(this.config.Metadata)
}

func (this *PackApp) publish(state []byte) {
	if this.config.PublishID == "" {
		return
	}
	if this.config.StoreRoot == "" {
		log.Fatal("-publish requires -store")
	}
	states, err := store.NewDiskStateStore(this.config.StoreRoot, this.config.Compression)
	if err != nil {
		log.Fatal(err)
	}
	err = states.Put(this.config.PublishID, state)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Published contract state as \"%s\".", this.config.PublishID)
}

func (this *PackApp) dumpManifest() string {
	raw, err := json.MarshalIndent(this.manifest, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	return "\n" + string(raw)
}
