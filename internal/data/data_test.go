package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFactoryTable(t *testing.T) {
	p := writeFile(t, t.TempDir(), "factories.yaml", `
factories:
  - name: shapes
    recycle: true
    prefabs:
      - {name: cube, color_slots: 1, prewarm: 4}
      - {name: composite, color_slots: 3}
    materials: [standard, shiny, matte]
  - name: rare
    prefabs: [{name: capsule}]
    materials: [standard]
`)
	tbl, err := LoadFactoryTable(p)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Count())

	i, ok := tbl.Index("rare")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	shapes := tbl.All()[0]
	assert.True(t, shapes.Recycle)
	assert.Equal(t, 4, shapes.Prefabs[0].Prewarm)
	assert.Equal(t, 3, shapes.Prefabs[1].ColorSlots)
	assert.False(t, tbl.All()[1].Recycle)
}

func TestFactoryTableRejectsDuplicates(t *testing.T) {
	def := FactoryDef{Name: "a", Prefabs: []PrefabDef{{Name: "p"}}, Materials: []string{"m"}}
	_, err := NewFactoryTable([]FactoryDef{def, def})
	assert.Error(t, err)

	_, err = NewFactoryTable([]FactoryDef{{Name: "empty"}})
	assert.Error(t, err)
}

func TestLoadLevelDef(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "level_2.yaml", `
name: Orbits
population_limit: 50
spawn_zone: main
objects:
  - name: main
    kind: composite
    sequential: true
    spawn_speed: 2
    children:
      - name: left
        kind: sphere
        position: {x: -5, y: 0, z: 0}
        config:
          factories: [shapes]
          movement_direction: outward
          speed: {min: 1, max: 2}
          satellite:
            amount: {min: 0, max: 2}
      - name: right
        kind: cube
        surface_only: true
        scale: {x: 2, y: 2, z: 2}
  - name: ring
    kind: scripted
    script: ring_point
`)
	def, err := LoadLevelDef(LevelPath(dir, 2))
	require.NoError(t, err)

	assert.Equal(t, "Orbits", def.Name)
	assert.Equal(t, 50, def.PopulationLimit)
	require.Len(t, def.Objects, 2)
	root := def.Objects[0]
	assert.True(t, root.Sequential)
	require.Len(t, root.Children, 2)
	assert.Equal(t, float32(-5), root.Children[0].Position.X)
	assert.Equal(t, "outward", root.Children[0].Config.MovementDirection)
	assert.Equal(t, 2, root.Children[0].Config.Satellite.Amount.Max)
	assert.Nil(t, root.Children[0].Scale)
	require.NotNil(t, root.Children[1].Scale)
	assert.Equal(t, "ring_point", def.Objects[1].Script)
}

func TestLoadLevelDefValidation(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing spawn zone": "spawn_zone: nope\nobjects: [{name: a, kind: sphere}]\n",
		"unknown kind":       "spawn_zone: a\nobjects: [{name: a, kind: torus}]\n",
		"script missing":     "spawn_zone: a\nobjects: [{name: a, kind: scripted}]\n",
		"empty composite":    "spawn_zone: a\nobjects: [{name: a, kind: composite}]\n",
		"bad direction":      "spawn_zone: a\nobjects: [{name: a, kind: cube, config: {movement_direction: sideways}}]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, dir, "level.yaml", body)
			_, err := LoadLevelDef(p)
			assert.Error(t, err)
		})
	}

	_, err := LoadLevelDef(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestShippedData(t *testing.T) {
	table, err := LoadFactoryTable("../../data/yaml/factories.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())

	for i := 1; i <= 2; i++ {
		def, err := LoadLevelDef(LevelPath("../../data/yaml/levels", i))
		require.NoError(t, err, "level %d", i)
		for _, o := range def.Objects {
			for _, name := range o.Config.Factories {
				_, ok := table.Index(name)
				assert.True(t, ok, "level %d zone %s names factory %s", i, o.Name, name)
			}
		}
	}
}
