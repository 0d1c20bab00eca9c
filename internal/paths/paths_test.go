package paths

import (
	"testing"
)

func TestTargetToHost(t *testing.T) {
	t.Run("maps container paths to the host root", func(t *testing.T) {
		got := TargetToHost("/comics-1/Image/Saga/v2012", "/mnt/kapowarr")
		if got != "/mnt/kapowarr/Image/Saga/v2012" {
			t.Errorf("unexpected host path %q", got)
		}
	})

	t.Run("passes unrelated paths through", func(t *testing.T) {
		got := TargetToHost("/downloads/Saga 001.cbz", "/mnt/kapowarr")
		if got != "/downloads/Saga 001.cbz" {
			t.Errorf("expected pass-through, got %q", got)
		}
	})
}

func TestSourceToHost(t *testing.T) {
	got := SourceToHost("/comics/Image/Saga/Saga 001.cbz", "/mnt/mylar")
	if got != "/mnt/mylar/Image/Saga/Saga 001.cbz" {
		t.Errorf("unexpected host path %q", got)
	}
}

func TestHostToTarget(t *testing.T) {
	t.Run("rewrites source-rooted paths", func(t *testing.T) {
		got := HostToTarget("/mnt/mylar/Image/Saga", "/mnt/mylar", "/mnt/kapowarr")
		if got != "/mnt/kapowarr/Image/Saga" {
			t.Errorf("unexpected path %q", got)
		}
	})

	t.Run("requires a path-segment boundary", func(t *testing.T) {
		got := HostToTarget("/mnt/mylar-archive/Image", "/mnt/mylar", "/mnt/kapowarr")
		if got != "/mnt/mylar-archive/Image" {
			t.Errorf("expected pass-through for sibling directory, got %q", got)
		}
	})

	t.Run("handles trailing slashes on roots", func(t *testing.T) {
		got := HostToTarget("/mnt/mylar/Image", "/mnt/mylar/", "/mnt/kapowarr/")
		if got != "/mnt/kapowarr/Image" {
			t.Errorf("unexpected path %q", got)
		}
	})
}

func TestHostToTargetContainer(t *testing.T) {
	t.Run("maps target-rooted paths", func(t *testing.T) {
		got := HostToTargetContainer("/mnt/kapowarr/Image/Saga/Saga 001.cbz", "/mnt/mylar", "/mnt/kapowarr")
		if got != "/comics-1/Image/Saga/Saga 001.cbz" {
			t.Errorf("unexpected container path %q", got)
		}
	})

	t.Run("maps source-rooted paths by relative layout", func(t *testing.T) {
		got := HostToTargetContainer("/mnt/mylar/Image/Saga/Saga 001.cbz", "/mnt/mylar", "/mnt/kapowarr")
		if got != "/comics-1/Image/Saga/Saga 001.cbz" {
			t.Errorf("unexpected container path %q", got)
		}
	})

	t.Run("passes unrooted paths through", func(t *testing.T) {
		got := HostToTargetContainer("/elsewhere/Saga 001.cbz", "/mnt/mylar", "/mnt/kapowarr")
		if got != "/elsewhere/Saga 001.cbz" {
			t.Errorf("expected pass-through, got %q", got)
		}
	})
}

func TestVolumeHierarchy(t *testing.T) {
	t.Run("splits a full container path", func(t *testing.T) {
		h := VolumeHierarchy("/comics-1/Image/Saga/v2012")
		if h.Publisher != "Image" || h.Series != "Saga" || h.Volume != "v2012" {
			t.Errorf("unexpected hierarchy %+v", h)
		}
	})

	t.Run("yields a partial hierarchy for short paths", func(t *testing.T) {
		h := VolumeHierarchy("/comics-1/Image")
		if h.Publisher != "Image" || h.Series != "" || h.Volume != "" {
			t.Errorf("unexpected hierarchy %+v", h)
		}
	})

	t.Run("handles the bare root", func(t *testing.T) {
		h := VolumeHierarchy("/comics-1/")
		if h.Publisher != "" {
			t.Errorf("expected empty hierarchy, got %+v", h)
		}
	})
}

func TestHierarchyJoin(t *testing.T) {
	cases := []struct {
		name string
		h    Hierarchy
		want string
	}{
		{"full hierarchy", Hierarchy{"Image", "Saga", "v2012"}, "/mnt/kapowarr/Image/Saga/v2012"},
		{"publisher only", Hierarchy{Publisher: "Image"}, "/mnt/kapowarr/Image"},
		{"empty hierarchy", Hierarchy{}, "/mnt/kapowarr"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.h.Join("/mnt/kapowarr"); got != tc.want {
				t.Errorf("Join = %q, want %q", got, tc.want)
			}
		})
	}
}
