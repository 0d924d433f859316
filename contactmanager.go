package feather2d

import (
	"math"

	"github.com/akmonengine/feather2d/epa2d"
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/gjk2d"
	"github.com/akmonengine/feather2d/manifold"
)

// contactEdge links a Body to one of its persistent contacts, letting the
// island builder and the destruction path walk a body's contacts without
// scanning the whole manager. Grounded on ByteArena-box2d's B2ContactEdge
// (DynamicsB2ContactEdge.go), rewritten from an intrusive doubly-linked
// list node to a plain slice entry since feather2d keeps contacts in a map,
// not a linked list (spec.md §9's handle-arena note).
type contactEdge struct {
	other   *Body
	contact *ContactConstraint
}

// ContactConstraint is the persistent per-fixture-pair collision record: the
// latest manifold plus the warm-start impulse accumulators the solver reads
// and writes every step. New relative to the teacher (whose XPBD solver in
// constraint/contact.go recomputes everything from scratch each substep, so
// it carries no cross-step state); grounded structurally on
// ByteArena-box2d's B2Contact/B2ContactConstraint pairing, adapted to carry
// a manifold.Manifold instead of Box2D's b2Manifold.
type ContactConstraint struct {
	FixtureA, FixtureB *Fixture

	Manifold manifold.Manifold

	// normalImpulse/tangentImpulse are warm-start accumulators, one entry
	// per manifold point, carried across steps when ManifoldPoint.ID
	// matches (spec.md §4.5).
	normalImpulse  []float64
	tangentImpulse []float64

	touching     bool
	wasTouching  bool
	filterFlag   bool
	isSensor     bool
	friction     float64
	restitution  float64
}

// Fixtures returns the two fixtures this contact connects, in A/B order.
func (c *ContactConstraint) Fixtures() (*Fixture, *Fixture) { return c.FixtureA, c.FixtureB }

// Touching reports whether the last collision pass produced a manifold with
// at least one point.
func (c *ContactConstraint) Touching() bool { return c.touching }

// ContactManager owns the persistent fixture-pair contact set: it runs
// narrow-phase collision for every broad-phase pair, creates/destroys
// ContactConstraints as pairs start/stop overlapping, and inherits
// warm-start impulses across steps by matching manifold point ids.
// Grounded on ByteArena-box2d's B2ContactManager.Collide()/FindNewContacts()
// loop, rewritten from an intrusive linked list keyed by proxy id to a Go
// map keyed by fixture handle pair (spec.md §9's handle-arena design note).
type ContactManager struct {
	contacts map[pairKey]*ContactConstraint
	events   *Events
}

func newContactManager(events *Events) *ContactManager {
	return &ContactManager{
		contacts: make(map[pairKey]*ContactConstraint),
		events:   events,
	}
}

// Update reconciles the persistent contact set against the current
// broad-phase pair list: pairs no longer reported are destroyed, new pairs
// get a fresh ContactConstraint, and every surviving contact has its
// manifold recomputed by narrow phase. Grounded on Collide()'s body of work,
// generalized from fixture-pairs via proxy ids to fixture-handle pairs.
func (mgr *ContactManager) Update(pairs []fixturePair) {
	seen := make(map[pairKey]bool, len(pairs))

	for _, p := range pairs {
		fa, fb := p.a, p.b
		if fa.Handle > fb.Handle {
			fa, fb = fb, fa
		}
		key := makePairKey(fa, fb)
		seen[key] = true

		if !fa.Filter.ShouldCollide(fb.Filter) {
			continue
		}
		if fa.body == fb.body {
			continue
		}
		if fa.body.Type != BodyDynamic && fb.body.Type != BodyDynamic {
			continue
		}
		if fa.body.IsAsleep() && fb.body.IsAsleep() {
			continue
		}

		c, exists := mgr.contacts[key]
		if !exists {
			c = &ContactConstraint{
				FixtureA: fa,
				FixtureB: fb,
				isSensor: fa.IsSensor || fb.IsSensor,
			}
			mgr.contacts[key] = c
			mgr.linkEdges(c)
		}

		mgr.collide(c)
	}

	for key, c := range mgr.contacts {
		if seen[key] {
			continue
		}
		mgr.destroy(key, c)
	}
}

// collide runs narrow-phase GJK/EPA/manifold generation for a single
// contact, inheriting warm-start impulses by matching manifold.PointID
// values between the previous and freshly generated manifold (spec.md
// §4.5). Grounded on B2ContactUpdate's Evaluate()+warm-start-matching body,
// rewritten to the gjk2d/epa2d/manifold leaf packages instead of Box2D's
// per-shape-pair collide functions.
func (mgr *ContactManager) collide(c *ContactConstraint) {
	c.wasTouching = c.touching

	mgr.events.emit(ContactEvent{EventType: EventCollisionPreManifold, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})

	supportA := fixtureSupport(c.FixtureA)
	supportB := fixtureSupport(c.FixtureB)

	var simplex gjk2d.Simplex
	var newManifold manifold.Manifold
	if gjk2d.Intersect(supportA, supportB, &simplex) {
		result, err := epa2d.EPA(supportA, supportB, &simplex)
		if err == nil && result.Depth > 0 {
			tA, tB := c.FixtureA.body.T, c.FixtureB.body.T
			featureA := c.FixtureA.Shape.FarthestFeature(result.Normal, tA)
			featureB := c.FixtureB.Shape.FarthestFeature(result.Normal.Mul(-1), tB)
			newManifold = manifold.Generate(featureA, featureB, result.Normal, result.Depth)
		}
	}

	mgr.events.emit(ContactEvent{EventType: EventCollisionPostManifold, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})

	oldManifold := c.Manifold
	oldNormalImp := c.normalImpulse
	oldTangentImp := c.tangentImpulse

	c.Manifold = newManifold
	c.touching = len(newManifold.Points) > 0
	c.friction = combineFriction(c.FixtureA.Friction, c.FixtureB.Friction)
	c.restitution = combineRestitution(c.FixtureA.Restitution, c.FixtureB.Restitution)

	c.normalImpulse = make([]float64, len(newManifold.Points))
	c.tangentImpulse = make([]float64, len(newManifold.Points))
	for i, p := range newManifold.Points {
		for j, old := range oldManifold.Points {
			if old.ID == p.ID {
				c.normalImpulse[i] = oldNormalImp[j]
				c.tangentImpulse[i] = oldTangentImp[j]
				break
			}
		}
	}

	if c.touching && !c.FixtureA.IsSensor && !c.FixtureB.IsSensor {
		// Only sleeping bodies are woken: Awake also resets the sleep timer,
		// which would otherwise keep a resting body from ever sleeping.
		if c.FixtureA.body.IsAsleep() {
			c.FixtureA.body.Awake()
		}
		if c.FixtureB.body.IsAsleep() {
			c.FixtureB.body.Awake()
		}
	}

	mgr.emitTransition(c)
}

// emitTransition dispatches the begin/persist/end (or sensor
// enter/stay/exit) event for a contact whose touching state may have just
// changed. Sensor-sensor pairs fire enter/exit only, never a stay
// equivalent, per spec.md §9's resolved Open Question; a sensor-vs-solid
// pair still gets TriggerStay every step it remains touching.
func (mgr *ContactManager) emitTransition(c *ContactConstraint) {
	bothSensors := c.FixtureA.IsSensor && c.FixtureB.IsSensor

	switch {
	case c.touching && !c.wasTouching:
		if c.isSensor {
			mgr.events.emit(ContactEvent{EventType: EventTriggerEnter, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})
		} else {
			mgr.events.emit(ContactEvent{EventType: EventContactBegin, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})
		}
	case c.touching && c.wasTouching:
		if c.isSensor {
			if !bothSensors {
				mgr.events.emit(ContactEvent{EventType: EventTriggerStay, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})
			}
		} else {
			mgr.events.emit(ContactEvent{EventType: EventContactPersist, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})
		}
	case !c.touching && c.wasTouching:
		mgr.emitEnd(c)
	}
}

func (mgr *ContactManager) emitEnd(c *ContactConstraint) {
	if c.isSensor {
		mgr.events.emit(ContactEvent{EventType: EventTriggerExit, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})
	} else {
		mgr.events.emit(ContactEvent{EventType: EventContactEnd, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})
	}
}

func fixtureSupport(f *Fixture) gjk2d.Support {
	t := f.body.T
	return func(direction geom.Vec2) geom.Vec2 {
		return t.ToWorld(f.Shape.Support(t.ToLocalVector(direction)))
	}
}

func combineFriction(a, b float64) float64 {
	return math.Sqrt(a * b)
}

func combineRestitution(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func (mgr *ContactManager) linkEdges(c *ContactConstraint) {
	edgeA := &contactEdge{other: c.FixtureB.body, contact: c}
	edgeB := &contactEdge{other: c.FixtureA.body, contact: c}
	c.FixtureA.body.contactEdges = append(c.FixtureA.body.contactEdges, edgeA)
	c.FixtureB.body.contactEdges = append(c.FixtureB.body.contactEdges, edgeB)
}

func (mgr *ContactManager) unlinkEdges(c *ContactConstraint) {
	c.FixtureA.body.contactEdges = removeContactEdge(c.FixtureA.body.contactEdges, c)
	c.FixtureB.body.contactEdges = removeContactEdge(c.FixtureB.body.contactEdges, c)
}

func removeContactEdge(edges []*contactEdge, c *ContactConstraint) []*contactEdge {
	for i, e := range edges {
		if e.contact == c {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

func (mgr *ContactManager) destroy(key pairKey, c *ContactConstraint) {
	if c.touching {
		mgr.emitEnd(c)
	}
	mgr.unlinkEdges(c)
	delete(mgr.contacts, key)
}

// fixturePair is the broad-phase output translated from body-pair to
// fixture-pair granularity (a body may carry several fixtures, each of
// which is independently testable).
type fixturePair struct {
	a, b *Fixture
}
