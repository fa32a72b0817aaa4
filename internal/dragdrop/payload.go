// Package dragdrop maps drag gestures onto chart mutations.
package dragdrop

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/locvowork/orgmaker/internal/domain"
)

// Kind tags what is being dragged.
type Kind string

const (
	KindPoolEmployee Kind = "pool-emp"
	KindOrg          Kind = "org"
	KindPerson       Kind = "person"
)

// ErrInvalidPayload is returned for payloads that cannot be dropped.
var ErrInvalidPayload = errors.New("invalid drag payload")

// Payload is what a drag carries: a node reference for chart nodes or the
// serialized employee record for pool entries.
type Payload struct {
	Kind     Kind             `json:"nodeType"`
	NodeID   string           `json:"nodeId,omitempty"`
	Employee *domain.Employee `json:"empData,omitempty"`
}

// FromEmployee starts a drag from the employee pool.
func FromEmployee(e domain.Employee) Payload {
	return Payload{Kind: KindPoolEmployee, Employee: &e}
}

// FromNode starts a drag from a chart node.
func FromNode(n domain.ChartNode) Payload {
	kind := KindOrg
	if n.Type == domain.NodeTypePerson {
		kind = KindPerson
	}
	return Payload{Kind: kind, NodeID: n.ID}
}

// Validate checks that the payload carries what its kind needs.
func (p Payload) Validate() error {
	switch p.Kind {
	case KindPoolEmployee:
		if p.Employee == nil {
			return fmt.Errorf("%w: %s without employee", ErrInvalidPayload, p.Kind)
		}
	case KindOrg, KindPerson:
		if p.NodeID == "" {
			return fmt.Errorf("%w: %s without node id", ErrInvalidPayload, p.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPayload, p.Kind)
	}
	return nil
}

// Encode serializes the payload.
func (p Payload) Encode() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(p)
}

// Decode parses and validates a serialized payload.
func Decode(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := p.Validate(); err != nil {
		return Payload{}, err
	}
	return p, nil
}
