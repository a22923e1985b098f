package search

import "github.com/poiesic/bracee/core"

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate steps and results.
type SearchMonitor interface {
	Start(query string)
	AfterInterpretation(interp *core.Interpretation)
	AfterFacetRetrieval(facet core.Facet, candidates []core.Candidate)
	FacetDegraded(facet core.Facet, err error)
	AfterFusion(results []core.FusedResult)
	AfterRerank(results []core.FinalResult)
	RerankSkipped(reason string)
	Finish(results []core.FinalResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                       {}
func (n *noopMonitor) AfterInterpretation(_ *core.Interpretation)           {}
func (n *noopMonitor) AfterFacetRetrieval(_ core.Facet, _ []core.Candidate) {}
func (n *noopMonitor) FacetDegraded(_ core.Facet, _ error)                  {}
func (n *noopMonitor) AfterFusion(_ []core.FusedResult)                     {}
func (n *noopMonitor) AfterRerank(_ []core.FinalResult)                     {}
func (n *noopMonitor) RerankSkipped(_ string)                               {}
func (n *noopMonitor) Finish(_ []core.FinalResult)                          {}
