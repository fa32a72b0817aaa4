package dragdrop

import (
	"github.com/locvowork/orgmaker/internal/chart"
	"github.com/locvowork/orgmaker/internal/domain"
)

// Chart is the part of the chart store a drop needs.
type Chart interface {
	Snapshot() *chart.Tree
	AddPersonNode(parentID string, emp domain.Employee) chart.Result
	Reparent(nodeID, newParentID string) chart.Result
}

// Drop applies payload onto targetID. Drops onto anything but an existing
// org node are ignored. A pool employee becomes a new person node; a chart
// node is reparented, with the cycle guard applied to org nodes.
func Drop(c Chart, p Payload, targetID string) (chart.Result, error) {
	if err := p.Validate(); err != nil {
		return chart.Result{}, err
	}
	if !c.Snapshot().IsOrg(targetID) {
		return chart.Result{}, nil
	}

	switch p.Kind {
	case KindPoolEmployee:
		return c.AddPersonNode(targetID, *p.Employee), nil
	default:
		if p.NodeID == targetID {
			return chart.Result{}, nil
		}
		return c.Reparent(p.NodeID, targetID), nil
	}
}
