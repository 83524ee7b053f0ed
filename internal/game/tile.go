package game

// TileType is the integer tile id sent in the map grid
type TileType int

const (
	TileGrass TileType = iota + 1
	TileTree
	TileRock
	TileWater
	TileWall
	TileDoor
	TileFloor
	TileGround
	TileBush
	TileRoad
)

var tileNames = [...]string{
	TileGrass:  "grass",
	TileTree:   "tree",
	TileRock:   "rock",
	TileWater:  "water",
	TileWall:   "wall",
	TileDoor:   "door",
	TileFloor:  "floor",
	TileGround: "ground",
	TileBush:   "bush",
	TileRoad:   "road",
}

// Valid reports whether t is a known tile id
func (t TileType) Valid() bool {
	return t >= TileGrass && t <= TileRoad
}

func (t TileType) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return tileNames[t]
}

// tileDecor names the background and (optional) foreground images of a tile type
type tileDecor struct {
	background string
	foreground string
}

var tileDecors = map[TileType]tileDecor{
	TileGrass:  {background: "terrain/grass"},
	TileTree:   {background: "terrain/grass", foreground: "objects/tree"},
	TileRock:   {background: "terrain/ground", foreground: "objects/rock"},
	TileWater:  {background: "terrain/water"},
	TileWall:   {background: "terrain/wall"},
	TileDoor:   {background: "terrain/floor", foreground: "objects/door"},
	TileFloor:  {background: "terrain/floor"},
	TileGround: {background: "terrain/ground"},
	TileBush:   {background: "terrain/grass", foreground: "objects/bush"},
	TileRoad:   {background: "terrain/road"},
}

// Tile is one map cell's decoration. Either sprite may be nil.
type Tile struct {
	Type       TileType
	Background Sprite
	Foreground Sprite
}

func newTile(scene Scene, t TileType) Tile {
	tile := Tile{Type: t}
	decor, ok := tileDecors[t]
	if !ok {
		return tile
	}
	if decor.background != "" {
		tile.Background = scene.NewSprite(LayerBackground, decor.background)
	}
	if decor.foreground != "" {
		tile.Foreground = scene.NewSprite(LayerForeground, decor.foreground)
	}
	return tile
}

// SetPosition moves both layers of the tile
func (t *Tile) SetPosition(x, y float64) {
	if t.Background != nil {
		t.Background.SetPosition(x, y)
	}
	if t.Foreground != nil {
		t.Foreground.SetPosition(x, y)
	}
}

// Occupied reports whether the foreground marker is currently hidden by an actor
func (t *Tile) Occupied() bool {
	return t.Foreground != nil && !t.Foreground.Visible()
}

func (t *Tile) release(scene Scene) {
	if t.Background != nil {
		scene.Remove(t.Background)
	}
	if t.Foreground != nil {
		scene.Remove(t.Foreground)
	}
}
