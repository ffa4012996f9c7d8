package protocol

import (
	"fmt"

	"github.com/luxfi/ocioraba/pkg/field"
	"github.com/luxfi/ocioraba/pkg/node"
	"github.com/luxfi/ocioraba/pkg/party"
)

// Outcome is one node's final state, captured for cross-node comparison.
type Outcome struct {
	ID       party.ID
	Complete bool
	Final    *field.Elem // nil means either incomplete or decided bottom
}

// Analysis summarizes a completed (or partially completed) cluster run.
type Analysis struct {
	Outcomes        []Outcome
	CompletedCount  int
	NonBottomCount  int
	Agreed          bool       // true if at least one non-bottom outcome exists and all of them share one value
	AgreedValue     *field.Elem
}

// Analyze captures every node's outcome and checks testable property 6,
// orchestrator agreement: among nodes that completed with a non-bottom
// final value, all such values must be equal. A run with no non-bottom
// outcome at all is reported with Agreed false.
func Analyze(nodes []*node.Node) Analysis {
	outcomes := make([]Outcome, 0, len(nodes))
	var agreedValue *field.Elem
	agreed := true

	for _, nd := range nodes {
		val, complete := nd.Result()
		o := Outcome{ID: nd.ID(), Complete: complete, Final: val}
		outcomes = append(outcomes, o)
	}

	var completed, nonBottom int
	for _, o := range outcomes {
		if o.Complete {
			completed++
		}
		if o.Complete && o.Final != nil {
			nonBottom++
			if agreedValue == nil {
				agreedValue = o.Final
			} else if !agreedValue.Equal(*o.Final) {
				agreed = false
			}
		}
	}
	if nonBottom == 0 {
		agreed = false
	}

	return Analysis{
		Outcomes:       outcomes,
		CompletedCount: completed,
		NonBottomCount: nonBottom,
		Agreed:         agreed,
		AgreedValue:    agreedValue,
	}
}

// RequireAgreement returns an error describing the first disagreement found,
// or nil if every non-bottom outcome among nodes agrees.
func RequireAgreement(nodes []*node.Node) error {
	a := Analyze(nodes)
	if a.NonBottomCount == 0 {
		return nil
	}
	for _, o := range a.Outcomes {
		if o.Complete && o.Final != nil && !o.Final.Equal(*a.AgreedValue) {
			return fmt.Errorf("protocol: node %s disagrees: got %s, cluster agreed on %s", o.ID, o.Final, a.AgreedValue)
		}
	}
	return nil
}
