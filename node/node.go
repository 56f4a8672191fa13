// Package node wires the serving path together: state store, retry
// decorator, gateway handler, HTTP server. The container codec does the
// heavy lifting; everything here is placement.
package node

import (
	"log"
	"net/http"
	"time"

	"github.com/lattice-web/lattice/contracts"
	"github.com/lattice-web/lattice/core"
	"github.com/lattice-web/lattice/gateway"
	"github.com/lattice-web/lattice/store"
)

func Run(config Config) error {
	err := config.Validate()
	if err != nil {
		return err
	}
	states, err := buildStateStore(config)
	if err != nil {
		return err
	}
	handler := gateway.NewHandler(core.NewRetryStore(states, config.MaxRetry, time.Sleep))
	log.Printf("Starting lattice node in %s mode on %s", config.Mode, config.ListenAddress)
	server := &http.Server{Addr: config.ListenAddress, Handler: handler}
	return server.ListenAndServe()
}

func buildStateStore(config Config) (contracts.StateStore, error) {
	if config.StoreRoot == "" {
		return store.NewMemoryStateStore(), nil
	}
	return store.NewDiskStateStore(config.StoreRoot, config.Compression)
}
