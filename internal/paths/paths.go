// Package paths maps filesystem paths between the two services' docker
// container roots and their locations on the shared host.
//
// Mylar sees its library under /comics/, Kapowarr under /comics-1/; both are
// bind mounts of host directories. All functions are pure and permissive:
// a path that does not carry the expected prefix passes through unchanged,
// because partial information is still actionable to an operator later.
package paths

import (
	"path"
	"strings"
)

// Container roots as mounted inside each service.
const (
	SourceContainerRoot = "/comics/"
	TargetContainerRoot = "/comics-1/"
)

// TargetToHost translates a Kapowarr container path to its host location.
func TargetToHost(containerPath, targetRoot string) string {
	if rest, ok := strings.CutPrefix(containerPath, TargetContainerRoot); ok {
		return path.Join(targetRoot, rest)
	}
	return containerPath
}

// SourceToHost translates a Mylar container path to its host location.
func SourceToHost(containerPath, sourceRoot string) string {
	if rest, ok := strings.CutPrefix(containerPath, SourceContainerRoot); ok {
		return path.Join(sourceRoot, rest)
	}
	return containerPath
}

// HostToTarget rewrites a host path under the Mylar root to the equivalent
// path under the Kapowarr root. Paths already under the Kapowarr root, and
// paths under neither root, are returned unchanged.
func HostToTarget(hostPath, sourceRoot, targetRoot string) string {
	if rest, ok := cutRoot(hostPath, sourceRoot); ok {
		return path.Join(targetRoot, rest)
	}
	return hostPath
}

// HostToTargetContainer rewrites a host path under either host root to a
// Kapowarr container path, as expected by the library import endpoint.
// Mylar-rooted paths map by relative layout, which is how the import flow
// addresses files Kapowarr will discover after they land under its root.
func HostToTargetContainer(hostPath, sourceRoot, targetRoot string) string {
	if rest, ok := cutRoot(hostPath, targetRoot); ok {
		return path.Join(strings.TrimSuffix(TargetContainerRoot, "/"), rest)
	}
	if rest, ok := cutRoot(hostPath, sourceRoot); ok {
		return path.Join(strings.TrimSuffix(TargetContainerRoot, "/"), rest)
	}
	return hostPath
}

// cutRoot strips a directory root from p, requiring a path-segment boundary
// so that "/data/comics" does not claim "/data/comics-archive/x".
func cutRoot(p, root string) (string, bool) {
	root = strings.TrimSuffix(root, "/")
	if p == root {
		return "", true
	}
	if rest, ok := strings.CutPrefix(p, root+"/"); ok {
		return rest, true
	}
	return "", false
}

// Hierarchy is the publisher/series/volume layout Kapowarr derives folder
// names from.
type Hierarchy struct {
	Publisher string
	Series    string
	Volume    string
}

// VolumeHierarchy splits a Kapowarr container path into its publisher, series
// and volume segments. Fewer than three segments yields a partial hierarchy.
func VolumeHierarchy(containerPath string) Hierarchy {
	p := containerPath
	if rest, ok := strings.CutPrefix(p, TargetContainerRoot); ok {
		p = rest
	}

	var h Hierarchy
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) >= 1 && parts[0] != "" {
		h.Publisher = parts[0]
	}
	if len(parts) >= 2 {
		h.Series = parts[1]
	}
	if len(parts) >= 3 {
		h.Volume = parts[2]
	}
	return h
}

// Join renders the hierarchy under a host root. An empty hierarchy resolves
// to the root itself.
func (h Hierarchy) Join(root string) string {
	out := root
	if h.Publisher != "" {
		out = path.Join(out, h.Publisher)
		if h.Series != "" {
			out = path.Join(out, h.Series)
			if h.Volume != "" {
				out = path.Join(out, h.Volume)
			}
		}
	}
	return out
}
