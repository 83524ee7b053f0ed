package game

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"daemon-hunt/internal/game/interp"
	"daemon-hunt/internal/game/pool"
	"daemon-hunt/internal/logger"
	"daemon-hunt/internal/protocol"
)

// Options configures a World
type Options struct {
	Username        string  // local player name; matches a creature of kind "player"
	Scale           float64 // sprite scale, default 2
	PositionDivisor float64 // smoothing divisor for moves, default 5
	RotationSpeed   float64 // smoothing divisor for the exhaustion cue, default 5
	EnergyRate      float64 // battle energy per second, default 6
	BloodPoolSize   int     // prefilled blood effects, default 10
	BloodPoolLimit  int     // growth bound for the blood pool, default BloodPoolSize
}

// DefaultOptions returns the stock client settings
func DefaultOptions() Options {
	return Options{
		Scale:           2,
		PositionDivisor: interp.DefaultDivisor,
		RotationSpeed:   interp.DefaultDivisor,
		EnergyRate:      DefaultEnergyRate,
		BloodPoolSize:   10,
	}
}

// World is the client's mirror of the server-authoritative game state.
// It applies server messages and local input, and advances presentation
// state once per tick. It is not safe for concurrent use: the scheduler
// goroutine owns it and publishes Snapshots for everyone else.
type World struct {
	opts  Options
	scene Scene
	queue *protocol.Queue

	width  int
	height int
	layout Layout
	tiles  []Tile
	ready  bool

	actors  map[protocol.ID]*Actor
	player  *Actor
	stamina float64
	time    int64

	anim   *interp.Animator[protocol.ID]
	blood  *pool.Pool[*BloodEffect]
	battle *BattlePreparation

	bloodMade int
	dirty     bool
}

// NewWorld creates an empty world. Outbound requests produced by local input
// are pushed onto queue.
func NewWorld(opts Options, scene Scene, queue *protocol.Queue) *World {
	def := DefaultOptions()
	if opts.Scale <= 0 {
		opts.Scale = def.Scale
	}
	if opts.PositionDivisor < 1 {
		opts.PositionDivisor = def.PositionDivisor
	}
	if opts.RotationSpeed < 1 {
		opts.RotationSpeed = def.RotationSpeed
	}
	if opts.BloodPoolSize <= 0 {
		opts.BloodPoolSize = def.BloodPoolSize
	}
	if opts.BloodPoolLimit < opts.BloodPoolSize {
		opts.BloodPoolLimit = opts.BloodPoolSize
	}

	w := &World{
		opts:   opts,
		scene:  scene,
		queue:  queue,
		layout: Layout{Scale: opts.Scale},
		actors: make(map[protocol.ID]*Actor),
		anim:   interp.New[protocol.ID](opts.PositionDivisor),
		battle: NewBattlePreparation(opts.EnergyRate),
		dirty:  true,
	}
	w.blood = pool.New(w.newBlood, opts.BloodPoolSize, pool.WithLimit(opts.BloodPoolLimit))
	return w
}

func (w *World) newBlood() *BloodEffect {
	e := newBloodEffect(w.scene, w.bloodMade)
	w.bloodMade++
	return e
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

// Dispatch applies one decoded server message. It reports false for message
// kinds the world does not handle, which are ignored.
func (w *World) Dispatch(msg protocol.Message) bool {
	switch m := msg.(type) {
	case protocol.GameInitialized:
		w.HandleGameInitialized(m)
	case protocol.PlayerConnected:
		w.HandlePlayerConnected(m)
	case protocol.Update:
		w.HandleUpdate(m)
	case protocol.Move:
		w.HandleMove(m)
	case protocol.Attack:
		w.HandleAttack(m)
	case protocol.PrepareToBattle:
		w.HandlePrepareToBattle(m)
	default:
		return false
	}
	return true
}

// HandleGameInitialized builds the tile grid and the initial creatures.
// A repeated initialization replaces the previous world. A grid whose tile
// count does not match its dimensions is ignored.
func (w *World) HandleGameInitialized(m protocol.GameInitialized) {
	if err := m.Validate(); err != nil {
		logger.Log.WithError(err).Warn("ignoring invalid game initialization")
		return
	}
	if w.ready {
		logger.Log.Warn("game re-initialized, discarding previous world")
		w.reset()
	}

	w.width = m.Map.Width
	w.height = m.Map.Height
	w.layout.Height = m.Map.Height
	w.tiles = make([]Tile, 0, w.width*w.height)

	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			t := TileType(m.Map.Tiles[y*w.width+x])
			if !t.Valid() {
				logger.Log.WithFields(logrus.Fields{"x": x, "y": y, "tile": int(t)}).Warn("unknown tile type")
			}
			tile := newTile(w.scene, t)
			tile.SetPosition(w.layout.Pixels(x, y))
			w.tiles = append(w.tiles, tile)
		}
	}
	w.ready = true

	for _, c := range m.Creatures {
		w.addCreature(c)
	}
	w.dirty = true

	logger.Log.WithFields(logrus.Fields{
		"width":     w.width,
		"height":    w.height,
		"creatures": len(w.actors),
	}).Info("world initialized")
}

// HandlePlayerConnected adds the creature unless it is already known
func (w *World) HandlePlayerConnected(m protocol.PlayerConnected) {
	if _, ok := w.actors[m.Player.ID]; ok {
		return
	}
	w.addCreature(m.Player)
	w.dirty = true
}

// HandleMove applies a move outcome. Failed moves only update transient flags.
func (w *World) HandleMove(m protocol.Move) {
	actor, ok := w.actors[m.Actor.ID]
	if !ok {
		return
	}
	w.reconcile(actor, m.Actor)

	if !m.Success || m.Actor.Position == nil {
		return
	}

	dst := *m.Actor.Position
	prev := m.PreviousPosition
	if prev == nil {
		prev = &protocol.Position{X: actor.X, Y: actor.Y}
	}
	w.placeOnTile(&dst, prev)

	px, py := w.layout.Pixels(dst.X, dst.Y)
	w.anim.MoveTo(actor.ID, actor.sprite, px, py)
	actor.X, actor.Y = dst.X, dst.Y

	if actor == w.player && m.Actor.Stamina != nil {
		w.stamina = *m.Actor.Stamina
	}
	w.dirty = true
}

// HandleAttack applies an attack outcome: a blood splash on the defender and,
// if the defender died, its removal.
func (w *World) HandleAttack(m protocol.Attack) {
	attacker, ok := w.actors[m.Actor.ID]
	if !ok {
		return
	}
	w.reconcile(attacker, m.Actor)

	if !m.Success {
		return
	}
	defender, ok := w.actors[m.Defender.ID]
	if !ok {
		return
	}

	_, fx := w.blood.Retrieve()
	fx.Start(defender.sprite.Position())

	if !m.DefenderAlive {
		w.removeActor(defender)
	}
	w.dirty = true
}

// HandlePrepareToBattle updates the actor's battle status indicator
func (w *World) HandlePrepareToBattle(m protocol.PrepareToBattle) {
	actor, ok := w.actors[m.Actor.ID]
	if !ok {
		return
	}
	actor.PrepareToBattle(m.Subtype, m.Energy)
	w.dirty = true
}

// HandleUpdate applies a per-tick envelope: clock, embedded actions in order,
// then per-player reconciliation.
func (w *World) HandleUpdate(m protocol.Update) {
	w.time = m.Time

	for _, action := range m.Actions {
		if !action.Kind().IsAction() {
			continue
		}
		w.Dispatch(action)
	}

	for _, state := range m.Players {
		actor, ok := w.actors[state.ID]
		if !ok {
			continue
		}
		w.reconcile(actor, state)
		if actor == w.player && state.Stamina != nil {
			w.stamina = *state.Stamina
		}
	}
	w.dirty = true
}

// reconcile applies authoritative transient flags. Absent fields and values
// equal to the local ones change nothing.
func (w *World) reconcile(actor *Actor, state protocol.ActorState) {
	if state.Exhausted != nil && *state.Exhausted != actor.Exhausted {
		angle := float64(restedRotation)
		if *state.Exhausted {
			angle = exhaustedRotation
		}
		w.anim.RotateTo(actor.ID, actor.sprite, angle, w.opts.RotationSpeed)
		actor.Exhausted = *state.Exhausted
	}

	if actor.PreparedToBattle && state.PreparedToBattle != nil && !*state.PreparedToBattle {
		actor.ClearBattleStatus()
	}
}

func (w *World) addCreature(c protocol.Creature) {
	actor := newActor(w.scene, c)
	actor.sprite.SetPosition(w.layout.Pixels(actor.X, actor.Y))
	w.actors[actor.ID] = actor

	pos := c.Position
	w.placeOnTile(&pos, nil)

	if c.Kind == "player" && c.Name != "" && c.Name == w.opts.Username {
		w.player = actor
	}
}

func (w *World) removeActor(actor *Actor) {
	actor.Hide()
	w.anim.Cancel(actor.ID)
	delete(w.actors, actor.ID)
	w.placeOnTile(nil, &protocol.Position{X: actor.X, Y: actor.Y})
	actor.release()

	if actor == w.player {
		w.player = nil
		logger.Log.WithField("id", actor.ID).Info("local player defeated")
	}
}

// placeOnTile hides the destination tile's foreground marker and shows the
// origin's. Either side may be nil.
func (w *World) placeOnTile(dst, origin *protocol.Position) {
	if origin != nil {
		if t := w.tileAt(origin.X, origin.Y); t != nil && t.Foreground != nil {
			t.Foreground.SetVisible(true)
		}
	}
	if dst != nil {
		if t := w.tileAt(dst.X, dst.Y); t != nil && t.Foreground != nil {
			t.Foreground.SetVisible(false)
		}
	}
}

func (w *World) tileAt(x, y int) *Tile {
	if x < 0 || y < 0 || x >= w.width || y >= w.height || len(w.tiles) != w.width*w.height {
		return nil
	}
	return &w.tiles[y*w.width+x]
}

func (w *World) reset() {
	for i := range w.tiles {
		w.tiles[i].release(w.scene)
	}
	for id, actor := range w.actors {
		w.anim.Cancel(id)
		actor.release()
	}
	w.tiles = nil
	w.actors = make(map[protocol.ID]*Actor)
	w.player = nil
	w.ready = false
}

// =============================================================================
// TICK
// =============================================================================

// Advance moves presentation state forward by dt seconds: battle energy,
// interpolations and effects. Finished effects go back to the pool.
func (w *World) Advance(dt float64) {
	w.battle.Advance(dt)

	inFlight := w.anim.Step()

	active := 0
	w.blood.EachActive(func(h pool.Handle, fx *BloodEffect) {
		if !fx.Update(dt) {
			w.blood.Release(h)
			w.dirty = true
			return
		}
		active++
	})

	if inFlight > 0 || active > 0 || w.battle.Active() {
		w.dirty = true
	}
}

// NeedsRedraw reports whether anything visible changed since MarkDrawn
func (w *World) NeedsRedraw() bool {
	return w.dirty
}

// MarkDrawn clears the redraw flag after a render
func (w *World) MarkDrawn() {
	w.dirty = false
}

// =============================================================================
// LOCAL INPUT
// =============================================================================

// HandleInput applies a local input event. Moves and released preparations
// become outbound requests.
func (w *World) HandleInput(ev InputEvent) {
	switch ev.Kind {
	case InputMove:
		w.queue.Push(protocol.NewMove(ev.Direction))
	case InputPrepareStart:
		w.battle.Begin(ev.Battle)
	case InputPrepareRelease:
		if req, ok := w.battle.Release(); ok {
			w.queue.Push(req)
		}
	default:
		return
	}
	w.dirty = true
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Actor returns the actor with id
func (w *World) Actor(id protocol.ID) (*Actor, bool) {
	a, ok := w.actors[id]
	return a, ok
}

// ActorCount returns the number of known actors
func (w *World) ActorCount() int {
	return len(w.actors)
}

// Player returns the local player, or nil if unknown or defeated
func (w *World) Player() *Actor {
	return w.player
}

// Tile returns the tile at (x, y)
func (w *World) Tile(x, y int) (Tile, bool) {
	t := w.tileAt(x, y)
	if t == nil {
		return Tile{}, false
	}
	return *t, true
}

// Tiles returns the row-major tile grid
func (w *World) Tiles() []Tile {
	return w.tiles
}

// Size returns the map dimensions in tiles
func (w *World) Size() (width, height int) {
	return w.width, w.height
}

// Time returns the last authoritative server clock
func (w *World) Time() int64 { return w.time }

// Stamina returns the local player's last server-reported stamina
func (w *World) Stamina() float64 { return w.stamina }

// Battle returns the local player's battle preparation
func (w *World) Battle() *BattlePreparation { return w.battle }

// Animator returns the interpolations driving actor sprites
func (w *World) Animator() *interp.Animator[protocol.ID] { return w.anim }

// EffectPool returns the blood effect pool's size, active count and evictions
func (w *World) EffectPool() (size, active int, evictions uint64) {
	return w.blood.Len(), w.blood.ActiveCount(), w.blood.Evictions()
}

// EachEffect calls fn for every playing blood effect
func (w *World) EachEffect(fn func(*BloodEffect)) {
	w.blood.EachActive(func(_ pool.Handle, fx *BloodEffect) { fn(fx) })
}

// StatusLine is the HUD text: clock, stamina, optional battle charge, position.
// It is empty until the local player is known.
func (w *World) StatusLine() string {
	if w.player == nil {
		return ""
	}

	charge := ""
	if w.battle.Active() {
		tag := "D"
		if w.battle.Kind() == protocol.BattleAttack {
			tag = "A"
		}
		charge = fmt.Sprintf(" %s: %.1f", tag, w.battle.Energy())
	}

	return fmt.Sprintf("T: %d E: %s%s Pos: %d, %d",
		w.time,
		strconv.FormatFloat(w.stamina, 'f', -1, 64),
		charge,
		w.player.X, w.player.Y,
	)
}
