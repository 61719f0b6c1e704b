package world

import (
	"fmt"
	"sync"
)

// BlockPos is one unit cell of the arena grid.
type BlockPos struct {
	X int
	Y int
	Z int
}

// Box is an inclusive range of cells.
type Box struct {
	Min BlockPos
	Max BlockPos
}

// Arena is a sparse grid of solid unit blocks that the voxel mover collides
// against. It is safe for concurrent reads while players step in parallel.
type Arena struct {
	mu    sync.RWMutex
	solid map[BlockPos]struct{}
}

func NewArena() *Arena {
	return &Arena{solid: make(map[BlockPos]struct{})}
}

// NewFloorArena builds a square floor slab one block thick whose top surface
// is at floorY+1, spanning [-halfSize, halfSize] on X and Z. With walls set,
// a two block high rim encloses it.
func NewFloorArena(floorY, halfSize int, walls bool) (*Arena, error) {
	if halfSize <= 0 {
		return nil, fmt.Errorf("arena half size must be positive, got %d", halfSize)
	}
	a := NewArena()
	a.Fill(Box{
		Min: BlockPos{X: -halfSize, Y: floorY, Z: -halfSize},
		Max: BlockPos{X: halfSize, Y: floorY, Z: halfSize},
	})
	if walls {
		for _, rim := range []Box{
			{Min: BlockPos{-halfSize, floorY + 1, -halfSize}, Max: BlockPos{halfSize, floorY + 2, -halfSize}},
			{Min: BlockPos{-halfSize, floorY + 1, halfSize}, Max: BlockPos{halfSize, floorY + 2, halfSize}},
			{Min: BlockPos{-halfSize, floorY + 1, -halfSize}, Max: BlockPos{-halfSize, floorY + 2, halfSize}},
			{Min: BlockPos{halfSize, floorY + 1, -halfSize}, Max: BlockPos{halfSize, floorY + 2, halfSize}},
		} {
			a.Fill(rim)
		}
	}
	return a, nil
}

func (a *Arena) IsSolid(x, y, z int) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.solid[BlockPos{X: x, Y: y, Z: z}]
	return ok
}

func (a *Arena) SetSolid(pos BlockPos, solid bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if solid {
		a.solid[pos] = struct{}{}
		return
	}
	delete(a.solid, pos)
}

// Fill marks every cell in box solid. Min and Max may be given in any order.
func (a *Arena) Fill(box Box) {
	lo, hi := box.Min, box.Max
	lo.X, hi.X = minMax(lo.X, hi.X)
	lo.Y, hi.Y = minMax(lo.Y, hi.Y)
	lo.Z, hi.Z = minMax(lo.Z, hi.Z)

	a.mu.Lock()
	defer a.mu.Unlock()
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			for z := lo.Z; z <= hi.Z; z++ {
				a.solid[BlockPos{X: x, Y: y, Z: z}] = struct{}{}
			}
		}
	}
}

func (a *Arena) SolidCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.solid)
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
