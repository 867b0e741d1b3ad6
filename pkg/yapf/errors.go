package yapf

import "github.com/pkg/errors"

var (
	// the open set ran empty without reaching the destination
	ErrNoPath = errors.New("no path found")
	// the node or tile budget ran out, or every branch exceeded the cost ceiling
	ErrBudgetExceeded = errors.New("search budget exceeded")
	// the vehicle's order does not lead anywhere
	ErrMalformedDestination = errors.New("order has no reachable destination")
	// the vehicle is not on a trackdir of its tile
	ErrInvalidOrigin = errors.New("vehicle is not on a valid trackdir")
)
