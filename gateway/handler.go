// Package gateway exposes contract web applications over HTTP. A request
// for /contract/{id}/{path} fetches the contract's state from the store,
// parses the container envelope, and serves the named entry straight out
// of the compressed archive; nothing is materialized to disk.
package gateway

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/lattice-web/lattice/container"
	"github.com/lattice-web/lattice/contracts"
)

const indexPage = "index.html"

type Handler struct {
	store contracts.StateStore
}

func NewHandler(store contracts.StateStore) *Handler {
	return &Handler{store: store}
}

func (this *Handler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		http.Error(response, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	contractID, entryPath, ok := splitContractPath(request.URL.Path)
	if !ok {
		http.NotFound(response, request)
		return
	}
	if entryPath == "" {
		entryPath = indexPage
	}

	state, err := this.store.Get(contractID)
	if errors.Is(err, contracts.ErrStateNotFound) {
		http.NotFound(response, request)
		return
	}
	if err != nil {
		log.Printf("[WARN] state fetch failed for %q: %s", contractID, err)
		http.Error(response, "state store failure", http.StatusInternalServerError)
		return
	}

	app, err := container.Parse(state)
	if err != nil {
		log.Printf("[WARN] malformed state for contract %q: %s", contractID, err)
		http.Error(response, "malformed contract state", http.StatusBadGateway)
		return
	}

	content, err := app.GetFile(entryPath)
	var notFound *container.NotFoundError
	if errors.As(err, &notFound) {
		http.Error(response, notFound.Error(), http.StatusNotFound)
		return
	}
	var malformed *container.ParseError
	if errors.As(err, &malformed) {
		log.Printf("[WARN] corrupt web archive for contract %q: %s", contractID, err)
		http.Error(response, "malformed contract state", http.StatusBadGateway)
		return
	}
	if err != nil {
		http.Error(response, err.Error(), http.StatusInternalServerError)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(entryPath))
	if contentType != "" {
		response.Header().Set("Content-Type", contentType)
	}
	_, _ = response.Write(content)
}

// splitContractPath decomposes /contract/{id}/{path...}; the entry path may
// be empty (trailing slash or bare id), in which case the index is served.
func splitContractPath(requestPath string) (contractID, entryPath string, ok bool) {
	trimmed := strings.TrimPrefix(requestPath, "/contract/")
	if trimmed == requestPath || trimmed == "" {
		return "", "", false
	}
	contractID, entryPath, _ = strings.Cut(trimmed, "/")
	return contractID, entryPath, true
}
