// Package level holds the loaded level: its spawn zones, population limit,
// and the part of the save blob they own.
package level

import (
	"fmt"

	"github.com/l1jgo/shapesim/internal/storage"
	"github.com/l1jgo/shapesim/internal/world"
)

// Level is one loaded level. Objects update and persist in order.
type Level struct {
	Index           int
	Name            string
	PopulationLimit int

	spawnZone Zone
	objects   []Object
}

// New assembles a level. spawnZone handles manual spawns and is usually one
// of objects.
func New(index int, name string, limit int, spawnZone Zone, objects []Object) *Level {
	return &Level{
		Index:           index,
		Name:            name,
		PopulationLimit: limit,
		spawnZone:       spawnZone,
		objects:         objects,
	}
}

func (l *Level) SpawnZone() Zone { return l.spawnZone }

func (l *Level) Objects() []Object { return l.objects }

// SpawnShapes spawns one configured shape from the level's spawn zone.
func (l *Level) SpawnShapes(ctx *world.Context) error {
	return l.spawnZone.SpawnShapes(ctx)
}

func (l *Level) GameUpdate(ctx *world.Context) error {
	for _, o := range l.objects {
		if err := o.GameUpdate(ctx); err != nil {
			return fmt.Errorf("level object %s: %w", o.Name(), err)
		}
	}
	return nil
}

func (l *Level) Save(w *storage.Writer) {
	w.WriteInt(int32(len(l.objects)))
	for _, o := range l.objects {
		o.Save(w)
	}
}

// Load restores the first savedCount objects. A save naming more objects
// than the level has is rejected.
func (l *Level) Load(r *storage.Reader) error {
	saved := int(r.ReadInt())
	if err := r.Err(); err != nil {
		return err
	}
	if saved < 0 || saved > len(l.objects) {
		return fmt.Errorf("level %d: save holds %d objects, level has %d", l.Index, saved, len(l.objects))
	}
	for i := 0; i < saved; i++ {
		if err := l.objects[i].Load(r); err != nil {
			return fmt.Errorf("level object %s: %w", l.objects[i].Name(), err)
		}
	}
	return nil
}
