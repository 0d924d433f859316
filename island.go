package feather2d

// island is a connected component of the body graph reachable through
// active contacts or joints, the unit the solver iterates over. New
// relative to the teacher (whose single World.Bodies slice has no islands —
// feasible only because XPBD has no warm-starting; sequential impulses need
// islands to scope iteration and to decide sleep as a group). Grounded on
// ByteArena-box2d's DynamicsB2Island.go/B2World.Solve's body-stack DFS,
// reworked from a preallocated capacity-bounded array to a plain slice
// built per step.
type island struct {
	bodies    []*Body
	contacts  []*ContactConstraint
	joints    []Joint
}

// buildIslands partitions every awake dynamic body into islands via DFS
// over contactEdges/jointEdges, matching B2World.Solve's body-stack
// traversal. Static bodies are never added to an island themselves (they
// would wrongly bridge two unrelated islands together) but do terminate a
// DFS branch, exactly as Box2D's "if body is static, don't propagate"
// check does.
func buildIslands(bodies []*Body) []island {
	for _, b := range bodies {
		b.state &^= stateOnIsland
	}

	var islands []island
	stack := make([]*Body, 0, len(bodies))

	for _, seed := range bodies {
		if seed.Type != BodyDynamic {
			continue
		}
		if seed.state&stateOnIsland != 0 {
			continue
		}
		if seed.IsAsleep() || !seed.IsActive() {
			continue
		}

		isl := island{}
		stack = stack[:0]
		stack = append(stack, seed)
		seed.state |= stateOnIsland

		seenContacts := make(map[*ContactConstraint]bool)
		seenJoints := make(map[Joint]bool)

		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			isl.bodies = append(isl.bodies, b)

			for _, edge := range b.contactEdges {
				if !edge.contact.touching || edge.contact.isSensor {
					continue
				}
				if !seenContacts[edge.contact] {
					seenContacts[edge.contact] = true
					isl.contacts = append(isl.contacts, edge.contact)
				}
				// Static bodies terminate the DFS branch: they never
				// bridge two islands together, and since they have no
				// velocity to solve for they don't need to be pushed.
				other := edge.other
				if other.Type != BodyDynamic || other.state&stateOnIsland != 0 {
					continue
				}
				other.state |= stateOnIsland
				if other.IsAsleep() {
					other.Awake()
				}
				stack = append(stack, other)
			}

			for _, edge := range b.jointEdges {
				if !seenJoints[edge.joint] {
					seenJoints[edge.joint] = true
					isl.joints = append(isl.joints, edge.joint)
				}
				other := edge.other
				if other.Type != BodyDynamic || other.state&stateOnIsland != 0 {
					continue
				}
				other.state |= stateOnIsland
				if other.IsAsleep() {
					other.Awake()
				}
				stack = append(stack, other)
			}
		}

		islands = append(islands, isl)
	}

	return islands
}
