package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/core/ecs"
	"github.com/l1jgo/shapesim/internal/data"
	"github.com/l1jgo/shapesim/internal/world"
)

// Factories are the running shape factories, in save-id order.
type Factories struct {
	list   []*world.Factory
	byName map[string]*world.Factory
}

// NewFactories builds one factory per definition, assigns the save ids, and
// fills the configured pools.
func NewFactories(table *data.FactoryTable, arena *ecs.EntityPool, log *zap.Logger) (*Factories, error) {
	defs := table.All()
	fs := &Factories{
		list:   make([]*world.Factory, 0, len(defs)),
		byName: make(map[string]*world.Factory, len(defs)),
	}
	for i, d := range defs {
		prefabs := make([]world.Prefab, len(d.Prefabs))
		for j, p := range d.Prefabs {
			prefabs[j] = world.Prefab{Name: p.Name, ColorSlots: p.ColorSlots}
		}
		f := world.NewFactory(d.Name, prefabs, d.Materials, d.Recycle, arena, log)
		f.SetID(i)
		for j, p := range d.Prefabs {
			if p.Prewarm <= 0 {
				continue
			}
			if err := f.Prewarm(int32(j), p.Prewarm); err != nil {
				return nil, fmt.Errorf("prewarm %s/%s: %w", d.Name, p.Name, err)
			}
		}
		fs.list = append(fs.list, f)
		fs.byName[d.Name] = f
	}
	return fs, nil
}

// List returns the factories indexed by save id.
func (fs *Factories) List() []*world.Factory { return fs.list }

// ByName returns the factories keyed by name, as level definitions refer to them.
func (fs *Factories) ByName() map[string]*world.Factory { return fs.byName }
