// SPDX-License-Identifier: MIT

package builder

//-----------------------------------------------------------------------------
// Builder Method Name Constants
//   used to prefix errors with the constructor name for context.
//-----------------------------------------------------------------------------

const (
	// MethodCycle is the canonical name for the Cycle constructor.
	MethodCycle = "Cycle"
	// MethodPath is the canonical name for the Path constructor.
	MethodPath = "Path"
	// MethodStar is the canonical name for the Star constructor.
	MethodStar = "Star"
	// MethodComplete is the canonical name for the Complete constructor.
	MethodComplete = "Complete"
	// MethodModular is the canonical name for the modular configuration model.
	MethodModular = "ModularNetwork"
	// MethodDegreeSequence is the canonical name for the heterogeneity step.
	MethodDegreeSequence = "DegreeSequence"
	// MethodMatchStubs is the canonical name for the stub matching step.
	MethodMatchStubs = "MatchStubs"
)

//-----------------------------------------------------------------------------
// Minimums and defaults
//-----------------------------------------------------------------------------

const (
	// MinCycleNodes is the smallest ring without loops or multi-edges.
	MinCycleNodes = 3
	// MinPathNodes is the smallest path with at least one edge.
	MinPathNodes = 2
	// MinStarNodes is hub plus one leaf.
	MinStarNodes = 2
	// MinCompleteNodes is K_1.
	MinCompleteNodes = 1

	// MinModuleSize and MinModuleCount bound ModularParams.
	MinModuleSize  = 1
	MinModuleCount = 1
	// MinMeanDegree is the smallest mean degree a degree sequence accepts.
	MinMeanDegree = 1

	// MinProbability and MaxProbability bound the intra-module probability p.
	MinProbability = 0.0
	MaxProbability = 1.0

	// CenterVertexID labels the hub of Star.
	CenterVertexID = "Center"

	// degreeMoveFactor scales the default move budget: factor·n·meanDegree.
	degreeMoveFactor = 1000
)
