// Package resource serves named binary assets such as fonts.
//
// Assets are registered in a process-wide table. The Go Mono typeface is
// registered under [DefaultFont] at init.
package resource

import (
	"sync"

	"golang.org/x/image/font/gofont/gomono"
)

// DefaultFont is the name of the built-in monospace label font.
const DefaultFont = "GoMono.ttf"

// Loader looks up assets by name.
type Loader interface {
	Get(name string) ([]byte, bool)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string) ([]byte, bool)

// Get implements Loader.
func (f LoaderFunc) Get(name string) ([]byte, bool) { return f(name) }

var (
	mu     sync.RWMutex
	assets = map[string][]byte{}
)

func init() {
	Register(DefaultFont, gomono.TTF)
}

// Register adds or replaces an asset.
func Register(name string, data []byte) {
	mu.Lock()
	assets[name] = data
	mu.Unlock()
}

// Get returns the asset registered under name.
func Get(name string) ([]byte, bool) {
	mu.RLock()
	defer mu.RUnlock()
	data, ok := assets[name]
	return data, ok
}

// Default is the Loader backed by the registry.
var Default Loader = LoaderFunc(Get)
