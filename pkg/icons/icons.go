// Package icons resolves entry icon names to something the presentation
// layer can load. Resolution falls through a fixed chain and never fails:
// themed icon lookup, then the name as a literal file path, then a blank
// placeholder of the requested size.
package icons

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/qubemenu/qubemenu/internal/utils"
)

// Icon is a resolved icon reference. When Placeholder is set Path is empty
// and the renderer draws a blank square of Size pixels.
type Icon struct {
	Name        string
	Path        string
	Size        int
	Placeholder bool
}

// DefaultSize matches the large-toolbar size the menu renders entries at.
const DefaultSize = 24

var iconExtensions = []string{".png", ".svg", ".xpm"}

// Resolve maps an icon name to a themed icon file, a literal path, or a
// placeholder, in that order.
func Resolve(name string, size int) Icon {
	if size <= 0 {
		size = DefaultSize
	}
	if name == "" {
		return Icon{Size: size, Placeholder: true}
	}

	if path, ok := lookupThemed(name, size); ok {
		return Icon{Name: name, Path: path, Size: size}
	}

	if filepath.IsAbs(name) && utils.IsRegularFile(name) {
		return Icon{Name: name, Path: name, Size: size}
	}

	log.Debugf("Icon %q not found, using placeholder", name)
	return Icon{Name: name, Size: size, Placeholder: true}
}

// lookupThemed searches the XDG icon dirs for name. The hicolor size bucket
// is preferred, then scalable, then flat files in the icon dir itself.
func lookupThemed(name string, size int) (string, bool) {
	sizeDir := fmt.Sprintf("%dx%d", size, size)

	for _, dir := range utils.IconThemeDirs() {
		candidates := []string{
			filepath.Join(dir, "hicolor", sizeDir, "apps", name),
			filepath.Join(dir, "hicolor", "scalable", "apps", name),
			filepath.Join(dir, name),
		}
		for _, base := range candidates {
			for _, ext := range iconExtensions {
				if utils.IsRegularFile(base + ext) {
					return base + ext, true
				}
			}
		}
	}
	return "", false
}
