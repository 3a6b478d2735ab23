// Package repofs materializes and scans repository working trees. The actual
// download transport (git protocol, auth) lives behind the Fetcher interface.
package repofs

import (
	"context"
	"fmt"
	"os"
)

// Fetcher resolves a repository locator into a readable local directory.
type Fetcher interface {
	// Fetch returns the root path of the materialized repository and a
	// cleanup func releasing any resources it holds.
	Fetch(ctx context.Context, locator string) (root string, cleanup func(), err error)
}

// DirFetcher serves locators that are already local directories, e.g. trees
// placed there by an external cloning service.
type DirFetcher struct{}

func NewDirFetcher() *DirFetcher {
	return &DirFetcher{}
}

func (f *DirFetcher) Fetch(ctx context.Context, locator string) (string, func(), error) {
	info, err := os.Stat(locator)
	if err != nil {
		return "", nil, fmt.Errorf("repository path %s: %w", locator, err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("repository path %s is not a directory", locator)
	}
	return locator, func() {}, nil
}
