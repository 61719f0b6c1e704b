package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type BlockStore interface {
	IsSolid(x, y, z int) bool
}

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// CharacterAABB is the box of a character standing at pos (feet centre).
func CharacterAABB(pos mgl64.Vec3, width, height float64) AABB {
	half := width / 2
	return AABB{
		Min: mgl64.Vec3{pos.X() - half, pos.Y(), pos.Z() - half},
		Max: mgl64.Vec3{pos.X() + half, pos.Y() + height, pos.Z() + half},
	}
}

func (b AABB) Translate(d mgl64.Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func (b AABB) Intersects(o AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if b.Min[axis] >= o.Max[axis] || b.Max[axis] <= o.Min[axis] {
			return false
		}
	}
	return true
}

// PlaneMover is the simplest Mover: free movement above an infinite floor.
type PlaneMover struct {
	FloorY float64
}

func (m PlaneMover) Move(from, displacement mgl64.Vec3) (mgl64.Vec3, bool) {
	to := from.Add(displacement)
	if to.Y() <= m.FloorY {
		to[1] = m.FloorY
		return to, true
	}
	return to, false
}

// VoxelMover moves a character box through a grid of unit blocks, resolving
// one axis at a time (Y, then X, then Z) so it slides along walls and lands on
// floors.
type VoxelMover struct {
	Blocks BlockStore
	Width  float64
	Height float64
}

func NewVoxelMover(blocks BlockStore) *VoxelMover {
	return &VoxelMover{
		Blocks: blocks,
		Width:  CharacterWidth,
		Height: CharacterHeight,
	}
}

func (m *VoxelMover) Move(from, displacement mgl64.Vec3) (mgl64.Vec3, bool) {
	if m.Blocks == nil {
		return from.Add(displacement), false
	}
	pos := from
	for _, axis := range [3]int{1, 0, 2} {
		pos[axis] += m.sweepAxis(pos, axis, displacement[axis])
	}
	return pos, m.grounded(pos)
}

// Collides reports whether a box overlaps any solid block.
func (m *VoxelMover) Collides(box AABB) bool {
	if m.Blocks == nil {
		return false
	}
	lo, hi := cellRange(box)
	for y := lo[1]; y <= hi[1]; y++ {
		for x := lo[0]; x <= hi[0]; x++ {
			for z := lo[2]; z <= hi[2]; z++ {
				if !m.Blocks.IsSolid(x, y, z) {
					continue
				}
				cell := AABB{
					Min: mgl64.Vec3{float64(x), float64(y), float64(z)},
					Max: mgl64.Vec3{float64(x + 1), float64(y + 1), float64(z + 1)},
				}
				if box.Intersects(cell) {
					return true
				}
			}
		}
	}
	return false
}

func (m *VoxelMover) grounded(pos mgl64.Vec3) bool {
	probe := CharacterAABB(pos, m.Width, m.Height).Translate(mgl64.Vec3{0, -GroundProbeDistance, 0})
	return m.Collides(probe)
}

// sweepAxis returns how far along axis the box at pos can travel toward
// delta before touching a block.
func (m *VoxelMover) sweepAxis(pos mgl64.Vec3, axis int, delta float64) float64 {
	if nearlyZero(delta) {
		return delta
	}

	box := CharacterAABB(pos, m.Width, m.Height)
	lo, hi := cellRange(box)
	allowed := delta

	var start, end int
	if delta > 0 {
		start = int(math.Floor(box.Max[axis]))
		end = int(math.Floor(box.Max[axis] + delta))
	} else {
		start = int(math.Floor(box.Min[axis] + delta))
		end = int(math.Floor(box.Min[axis] - CollisionAxisTolerance))
	}

	for c := start; c <= end; c++ {
		cellLo, cellHi := lo, hi
		cellLo[axis], cellHi[axis] = c, c
		if !m.anySolid(cellLo, cellHi) {
			continue
		}
		if delta > 0 {
			allowed = math.Min(allowed, float64(c)-box.Max[axis])
		} else {
			allowed = math.Max(allowed, float64(c+1)-box.Min[axis])
		}
	}
	return allowed
}

func (m *VoxelMover) anySolid(lo, hi [3]int) bool {
	for y := lo[1]; y <= hi[1]; y++ {
		for x := lo[0]; x <= hi[0]; x++ {
			for z := lo[2]; z <= hi[2]; z++ {
				if m.Blocks.IsSolid(x, y, z) {
					return true
				}
			}
		}
	}
	return false
}

func cellRange(box AABB) (lo, hi [3]int) {
	for axis := 0; axis < 3; axis++ {
		lo[axis] = int(math.Floor(box.Min[axis] + CollisionAxisTolerance))
		hi[axis] = int(math.Floor(box.Max[axis] - CollisionAxisTolerance))
	}
	return lo, hi
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}
