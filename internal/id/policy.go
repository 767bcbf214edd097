package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Kind names an identifier policy.
type Kind string

const (
	KindSequence Kind = "sequence"
	KindUUID     Kind = "uuid"
	KindOpaque   Kind = "opaque"
)

// SequenceBaseline is the value the sequence counter starts from; the first
// assigned id is SequenceBaseline+1.
const SequenceBaseline = 100

var kinds = []Kind{KindSequence, KindUUID}

// Policy generates fresh IDs and parses IDs from their textual form.
// Implementations are not safe for concurrent use; stores serialize calls.
type Policy interface {
	Kind() Kind
	Next() (ID, error)
	Parse(raw string) (ID, error)
}

// ParseKind validates a configured policy name.
func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown id policy %q: must be one of sequence, uuid", s)
}

// New returns a fresh policy of the given kind.
func New(k Kind) (Policy, error) {
	switch k {
	case KindSequence:
		return NewSequence(SequenceBaseline), nil
	case KindUUID:
		return UUID{}, nil
	case KindOpaque:
		return Opaque{}, nil
	default:
		return nil, fmt.Errorf("unknown id policy %q", k)
	}
}

// Sequence hands out increasing integers. It never goes backwards, so ids of
// removed records are never handed out again.
type Sequence struct {
	last int64
}

func NewSequence(baseline int64) *Sequence {
	return &Sequence{last: baseline}
}

func (s *Sequence) Kind() Kind { return KindSequence }

func (s *Sequence) Next() (ID, error) {
	s.last++
	return FromInt(s.last), nil
}

// Last returns the most recently issued value (the baseline if none).
func (s *Sequence) Last() int64 {
	return s.last
}

func (s *Sequence) Parse(raw string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return ID{}, fmt.Errorf("id must be a positive integer")
	}
	return FromInt(n), nil
}

// UUID hands out random version 4 UUIDs.
type UUID struct{}

func (UUID) Kind() Kind { return KindUUID }

func (UUID) Next() (ID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return ID{}, fmt.Errorf("generating id: %w", err)
	}
	return FromString(u.String()), nil
}

func (UUID) Parse(raw string) (ID, error) {
	u, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || u.Version() != 4 {
		return ID{}, fmt.Errorf("id must be a UUID")
	}
	return FromString(u.String()), nil
}

// Opaque accepts any non-empty id and never generates one. Clients of a
// remote server use it because the server owns id assignment.
type Opaque struct{}

func (Opaque) Kind() Kind { return KindOpaque }

func (Opaque) Next() (ID, error) {
	return ID{}, fmt.Errorf("ids are assigned by the server")
}

func (Opaque) Parse(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ID{}, fmt.Errorf("id is required")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return FromInt(n), nil
	}
	return FromString(raw), nil
}
