// Package blueprint models the introspectable structure of a Blueprint asset:
// its event and function graphs, graph nodes and pins, generated-class
// properties with their default values, construction-script components and
// class functions.
//
// # Overview
//
// The model is plain data so it can be decoded from snapshot files (TOML or
// JSON) and constructed literally in tests:
//
//	bp := &blueprint.Blueprint{
//	    Path: "/Game/BP_Hero.BP_Hero_C",
//	    EventGraphs: []*blueprint.Graph{{
//	        Name: "EventGraph",
//	        Nodes: []*blueprint.Node{{
//	            ID:     "n1",
//	            Kind:   blueprint.NodeCallFunction,
//	            Title:  "Fire Weapon",
//	            Target: "/Game/Weapons/Rifle.Rifle_C:Fire",
//	        }},
//	    }},
//	}
//
// Nil graphs, nil nodes and null object references are legal and are skipped
// by consumers.
//
// # Property Traversal
//
// A [Property] carries a container-kind tag ([Scalar], [Array], [Set], [Map],
// [Struct]). [Property.HasStrongRefs] and [Property.ObjectRefs] dispatch once
// per kind; the struct kind descends a single level into its own fields using
// the same dispatch, so a struct nested inside a struct field is not visited.
// Weak (soft/lazy) element types never yield references.
package blueprint
