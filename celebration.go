package serenade

import "github.com/tanema/gween/ease"

// CelebrationState is the stage of a Celebration.
type CelebrationState uint8

const (
	CelebrationIdle CelebrationState = iota
	CelebrationArmed
	CelebrationRunning
	CelebrationDone
)

var celebrationStateNames = [...]string{"idle", "armed", "running", "done"}

func (s CelebrationState) String() string {
	if int(s) < len(celebrationStateNames) {
		return celebrationStateNames[s]
	}
	return "unknown"
}

// Spawner is the part of the loop a Celebration schedules work on.
type Spawner interface {
	Register(b *Batch)
	After(delay float64, fn func())
	Animate(a Animator)
}

// BurstKind labels a celebration burst.
type BurstKind uint8

const (
	BurstConfetti BurstKind = iota
	BurstFirework
)

func (k BurstKind) String() string {
	if k == BurstFirework {
		return "firework"
	}
	return "confetti"
}

// Celebration schedules the confetti and firework sequence on a Spawner.
// Bursts are fire-and-forget: each registers a transient batch that leaves
// the loop on its own once exhausted.
type Celebration struct {
	spawner Spawner
	state   CelebrationState
	pending int
	// gen invalidates callbacks scheduled before the last Cancel.
	gen uint64

	Confetti         BurstConfig
	ConfettiBursts   int
	ConfettiInterval float64 // seconds
	Firework         BurstConfig
	FireworkBursts   int
	FireworkInterval float64 // seconds

	// OnBurst, when set, observes every spawned burst batch.
	OnBurst func(kind BurstKind, b *Batch)
	// OnStateChange, when set, observes every state change.
	OnStateChange func(from, to CelebrationState)
}

// NewCelebration creates an idle celebration with the default sequence: 5
// confetti bursts 200 ms apart, then 10 fireworks 500 ms apart.
func NewCelebration(s Spawner) *Celebration {
	return &Celebration{
		spawner:          s,
		Confetti:         DefaultConfetti,
		ConfettiBursts:   5,
		ConfettiInterval: 0.2,
		Firework:         DefaultFirework,
		FireworkBursts:   10,
		FireworkInterval: 0.5,
	}
}

// State returns the current state.
func (c *Celebration) State() CelebrationState { return c.state }

// Pending returns the number of bursts scheduled but not yet spawned.
func (c *Celebration) Pending() int { return c.pending }

func (c *Celebration) setState(s CelebrationState) {
	if s == c.state {
		return
	}
	from := c.state
	c.state = s
	if c.OnStateChange != nil {
		c.OnStateChange(from, s)
	}
}

// Arm marks the celebration ready. Only an idle or finished celebration can
// be armed.
func (c *Celebration) Arm() {
	if c.state == CelebrationIdle || c.state == CelebrationDone {
		c.setState(CelebrationArmed)
	}
}

// Trigger schedules one celebration episode. Triggering while running layers
// another episode on top of the current one.
func (c *Celebration) Trigger() {
	if c.state == CelebrationIdle || c.state == CelebrationDone {
		c.setState(CelebrationArmed)
	}
	c.setState(CelebrationRunning)

	confettiEnd := 0.0
	for i := 0; i < c.ConfettiBursts; i++ {
		delay := float64(i) * c.ConfettiInterval
		confettiEnd = delay
		c.schedule(delay, func() { c.spawnConfetti() })
	}
	if c.ConfettiBursts > 0 {
		confettiEnd += c.ConfettiInterval
	}
	for i := 0; i < c.FireworkBursts; i++ {
		delay := confettiEnd + float64(i)*c.FireworkInterval
		c.schedule(delay, func() { c.spawnFirework() })
	}
	if c.pending == 0 {
		c.setState(CelebrationDone)
	}
	logf("celebration: scheduled %d confetti and %d firework bursts", c.ConfettiBursts, c.FireworkBursts)
}

// Cancel forgets every burst not yet spawned. A running celebration
// finishes at once; callbacks already handed to the spawner become no-ops.
func (c *Celebration) Cancel() {
	c.gen++
	c.pending = 0
	if c.state == CelebrationRunning {
		c.setState(CelebrationDone)
	}
}

func (c *Celebration) schedule(delay float64, spawn func()) {
	c.pending++
	gen := c.gen
	c.spawner.After(delay, func() {
		if gen != c.gen {
			return
		}
		c.pending--
		if c.pending == 0 {
			c.setState(CelebrationDone)
		}
		spawn()
	})
}

func (c *Celebration) spawnConfetti() {
	c.burst(BurstConfetti, NewConfettiBatch(c.Confetti))
}

func (c *Celebration) spawnFirework() {
	c.burst(BurstFirework, NewFireworkBatch(RandomFireworkOrigin(), c.Firework))
}

func (c *Celebration) burst(kind BurstKind, b *Batch) {
	c.spawner.Register(b)
	if c.OnBurst != nil {
		c.OnBurst(kind, b)
	}
}

// Ring box opening timings.
const (
	boxOpenDuration  = 1.0
	ringLiftDelay    = 0.5
	ringLiftHeight   = 1.0
	boxOpenPitch     = -0.7853981633974483 // -π/4
	ringLiftDuration = 1.0
)

// OpenRingBox tips the box lid back, lifts the ring out of it and throws one
// confetti burst. It is a no-op until the ring box was revealed.
func (c *Celebration) OpenRingBox(rb *RingBox) bool {
	if rb == nil || !rb.Revealed() {
		return false
	}
	c.spawner.Animate(TweenRotationX(rb.Box, boxOpenPitch, boxOpenDuration, 0, ease.OutQuad))
	c.spawner.Animate(TweenValue(&rb.Ring.Position.Y, ringLiftHeight, ringLiftDuration, ringLiftDelay, ease.OutQuad))
	c.spawnConfetti()
	return true
}
