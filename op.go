package clipstack

import (
	"fmt"
	"strings"
)

// Op is the set operation used to combine a clip shape with the clip
// accumulated beneath it.
type Op uint8

const (
	// OpReplace discards the previous clip and uses the new shape alone.
	OpReplace Op = iota

	// OpIntersect keeps pixels inside both the previous clip and the shape.
	OpIntersect

	// OpUnion keeps pixels inside either the previous clip or the shape.
	OpUnion

	// OpDifference keeps pixels of the previous clip that are outside the shape.
	OpDifference

	// OpReverseDifference keeps pixels of the shape that are outside the
	// previous clip.
	OpReverseDifference

	// OpXOR keeps pixels inside exactly one of the previous clip and the shape.
	OpXOR

	// OpCount is the number of defined operations.
	OpCount = int(OpXOR) + 1
)

var opNames = [OpCount]string{
	OpReplace:           "replace",
	OpIntersect:         "intersect",
	OpUnion:             "union",
	OpDifference:        "difference",
	OpReverseDifference: "reverse-difference",
	OpXOR:               "xor",
}

// String returns the lower-case operation name.
func (op Op) String() string {
	if int(op) < OpCount {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// ParseOp converts an operation name back to an Op. Matching is case
// insensitive and accepts "reverse_difference" and "revdiff" as aliases.
func ParseOp(s string) (Op, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "reverse_difference", "revdiff":
		return OpReverseDifference, nil
	case "diff":
		return OpDifference, nil
	}
	for i, n := range opNames {
		if n == name {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("clipstack: unknown op %q", s)
}
