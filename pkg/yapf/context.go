package yapf

import "github.com/natevvv/yapf-routing/pkg/world"

// SimContext is the read-only simulation state a search runs in
type SimContext struct {
	Tick    uint64
	Company world.Owner // company whose vehicles are routed
}
