package node

import (
	"fmt"
	"net"
)

type OperationMode string

const (
	// Local serves only loopback clients and may run entirely in memory.
	Local OperationMode = "local"
	// Network exposes the gateway API to the peer-to-peer network.
	Network OperationMode = "network"
)

type Config struct {
	Mode          OperationMode
	ListenAddress string
	StoreRoot     string
	Compression   string
	MaxRetry      int
}

func (this Config) Validate() error {
	if this.Mode != Local && this.Mode != Network {
		return fmt.Errorf("unknown operation mode: %q", this.Mode)
	}
	host, _, err := net.SplitHostPort(this.ListenAddress)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", this.ListenAddress, err)
	}
	if this.Mode == Local && !isLoopback(host) {
		return fmt.Errorf("local mode requires a loopback listen address, got %q", this.ListenAddress)
	}
	if this.Mode == Network && this.StoreRoot == "" {
		return fmt.Errorf("network mode requires a state store directory")
	}
	if this.MaxRetry < 0 {
		return fmt.Errorf("max retry must not be negative: %d", this.MaxRetry)
	}
	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" || host == "" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
