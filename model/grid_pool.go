package model

import "sync"

// GridPool recycles step buffers so steady-state stepping does not allocate.
// A nil *GridPool is safe to use: Get allocates fresh grids and Put discards.
type GridPool struct {
	pool sync.Pool
}

func NewGridPool() *GridPool {
	return &GridPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Grid{}
			},
		},
	}
}

// Get retrieves a cleared grid from the pool, resetting its dimensions.
func (p *GridPool) Get(width, height int) *Grid {
	var g *Grid
	if p == nil {
		g = &Grid{}
	} else {
		g = p.pool.Get().(*Grid)
	}
	g.Reset(width, height)
	return g
}

// Put returns a grid to the pool, clearing its state. Nothing may keep a
// reference to g afterwards; publish a Clone instead.
func (p *GridPool) Put(g *Grid) {
	if p == nil || g == nil {
		return
	}
	g.Clear()
	p.pool.Put(g)
}
