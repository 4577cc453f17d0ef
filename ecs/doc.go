// Package ecs bridges serenade scene and celebration events into a
// [Donburi] world.
//
// [NewDonburiSink] is an OverlaySink that publishes every scene activation
// change as a [serenade.SceneEvent]. [BindCelebration] publishes each burst
// the celebration spawns. [NewSceneTracker] keeps a singleton component with
// the active scene up to date, so ECS systems can query it instead of
// subscribing.
//
// Usage:
//
//	world := donburi.NewWorld()
//	ctx.Overlay = serenade.MultiSink{overlays, ecs.NewDonburiSink(world)}
//	ecs.NewSceneTracker(world)
//	// each frame:
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
