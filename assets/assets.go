// Package assets provides access to embedded data files such as the game type catalog.
package assets

import "embed"

//go:embed data/*.json
var embedFS embed.FS

// ReadFile returns the content of a specific file from the embedded assets by its name.
func ReadFile(name string) ([]byte, error) {
	return embedFS.ReadFile(name)
}
