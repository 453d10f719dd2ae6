// Package normalisers chains scene normalisers and builds them by name.
//
// The geometry subpackage fits a scene to a canonical size around the
// origin. The material subpackage remaps legacy materials for visual
// parity with PBR previews and is only applied on the FBX preview path.
package normalisers
