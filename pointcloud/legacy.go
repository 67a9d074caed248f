package pointcloud

import (
	"github.com/banshee-data/tensorcloud/internal/logging"
	"github.com/banshee-data/tensorcloud/tensor"
)

// LegacyPointCloud is the plain host-side per-point representation used at
// the boundary with older pipelines: parallel vector lists, one entry per
// point, with colors and normals optional.
type LegacyPointCloud struct {
	Points  [][3]float64
	Colors  [][3]float64
	Normals [][3]float64
}

// HasPoints reports whether the legacy cloud carries any points.
func (l *LegacyPointCloud) HasPoints() bool { return len(l.Points) > 0 }

// HasColors reports whether the legacy cloud carries per-point colors.
func (l *LegacyPointCloud) HasColors() bool { return len(l.Colors) > 0 }

// HasNormals reports whether the legacy cloud carries per-point normals.
func (l *LegacyPointCloud) HasNormals() bool { return len(l.Normals) > 0 }

// FromLegacy converts a host-side legacy cloud into a tensor-backed one with
// the given dtype and device. An empty source is accepted with a warning and
// yields an empty cloud; colors and normals are copied only when present.
func FromLegacy(legacy *LegacyPointCloud, dtype tensor.DType, device tensor.Device) *PointCloud {
	pc := New(device)
	if legacy.HasPoints() {
		pc.attrs[AttrPoints] = tensor.FromRows(legacy.Points, dtype, device)
	} else {
		logging.L().Warn("creating from an empty legacy point cloud")
	}
	if legacy.HasColors() {
		pc.attrs[AttrColors] = tensor.FromRows(legacy.Colors, dtype, device)
	}
	if legacy.HasNormals() {
		pc.attrs[AttrNormals] = tensor.FromRows(legacy.Normals, dtype, device)
	}
	return pc
}

// ToLegacy converts the cloud back into host-side vector lists. Absent
// attributes yield nil lists, not empty placeholders.
func (pc *PointCloud) ToLegacy() *LegacyPointCloud {
	return &LegacyPointCloud{
		Points:  rowsOf(pc.Points()),
		Colors:  rowsOf(pc.Colors()),
		Normals: rowsOf(pc.Normals()),
	}
}

func rowsOf(t *tensor.Tensor) [][3]float64 {
	if t == nil {
		return nil
	}
	n := t.Dim(0)
	rows := make([][3]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = [3]float64{t.At2(i, 0), t.At2(i, 1), t.At2(i, 2)}
	}
	return rows
}
