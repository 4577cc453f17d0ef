package ecs

import (
	"github.com/phanxgames/serenade"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for scene activation changes.
var SceneEventType = events.NewEventType[serenade.SceneEvent]()

// BurstEvent reports one celebration burst.
type BurstEvent struct {
	Kind      serenade.BurstKind
	Particles int
}

// BurstEventType is the Donburi event type for celebration bursts.
var BurstEventType = events.NewEventType[BurstEvent]()

// DonburiSink is an OverlaySink publishing to a Donburi world. Events are
// queued until the world processes them.
type DonburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a sink publishing to world.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world}
}

// Activate implements serenade.OverlaySink.
func (s *DonburiSink) Activate(id serenade.SceneID) {
	SceneEventType.Publish(s.world, serenade.SceneEvent{Scene: id, Active: true})
}

// Deactivate implements serenade.OverlaySink.
func (s *DonburiSink) Deactivate(id serenade.SceneID) {
	SceneEventType.Publish(s.world, serenade.SceneEvent{Scene: id, Active: false})
}

// BindCelebration publishes every burst c spawns to world. An existing
// OnBurst hook keeps running.
func BindCelebration(world donburi.World, c *serenade.Celebration) {
	prev := c.OnBurst
	c.OnBurst = func(kind serenade.BurstKind, b *serenade.Batch) {
		if prev != nil {
			prev(kind, b)
		}
		BurstEventType.Publish(world, BurstEvent{Kind: kind, Particles: b.Len()})
	}
}

// SceneData is the singleton component holding the presentation state seen
// through events.
type SceneData struct {
	Active      serenade.SceneID
	Activations int
	Bursts      int
}

// Scene is the component type of the singleton scene entity.
var Scene = donburi.NewComponentType[SceneData]()

// NewSceneTracker creates the singleton scene entity and subscribes it to
// scene and burst events. It returns the entity.
func NewSceneTracker(world donburi.World) donburi.Entity {
	e := world.Create(Scene)
	SceneEventType.Subscribe(world, func(w donburi.World, evt serenade.SceneEvent) {
		entry, ok := Scene.First(w)
		if !ok {
			return
		}
		d := Scene.Get(entry)
		switch {
		case evt.Active:
			d.Active = evt.Scene
			d.Activations++
		case d.Active == evt.Scene:
			d.Active = serenade.SceneNone
		}
	})
	BurstEventType.Subscribe(world, func(w donburi.World, _ BurstEvent) {
		if entry, ok := Scene.First(w); ok {
			Scene.Get(entry).Bursts++
		}
	})
	return e
}

// ActiveScene returns the scene tracked by the singleton, or SceneNone when
// no tracker exists.
func ActiveScene(world donburi.World) serenade.SceneID {
	entry, ok := Scene.First(world)
	if !ok {
		return serenade.SceneNone
	}
	return Scene.Get(entry).Active
}
