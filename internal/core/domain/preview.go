package domain

import (
	"path/filepath"
	"strings"
)

// AssetFormat identifies a 3D file format.
type AssetFormat string

// Supported asset formats.
const (
	// FormatGLB is binary glTF 2.0, the canonical PBR format.
	FormatGLB AssetFormat = "glb"

	// FormatFBX is Autodesk FBX, the legacy conversion target.
	FormatFBX AssetFormat = "fbx"
)

// IsValid returns true if the format is recognised.
func (f AssetFormat) IsValid() bool {
	return f == FormatGLB || f == FormatFBX
}

// IsLegacy reports whether the format uses legacy (non-PBR) materials.
func (f AssetFormat) IsLegacy() bool {
	return f == FormatFBX
}

// String returns the string representation.
func (f AssetFormat) String() string {
	return string(f)
}

// FormatFromName infers the format from a file extension.
func FormatFromName(name string) (AssetFormat, bool) {
	f := AssetFormat(strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")))
	return f, f.IsValid()
}

// PreviewHandle owns a displayable copy of an asset.
// The item that created it is the only party allowed to release it;
// viewers displaying it merely borrow it.
type PreviewHandle struct {
	// ID uniquely identifies the handle.
	ID string

	// Name is the display file name.
	Name string

	// Format is the asset format of the content.
	Format AssetFormat

	// Path locates the materialised content.
	Path string
}

// IsZero reports whether the handle is unset.
func (h PreviewHandle) IsZero() bool {
	return h.ID == ""
}
