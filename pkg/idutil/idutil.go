package idutil

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// NextID returns a time-ordered unique int64. The ledger transaction log uses
// these as primary keys so rows sort by creation time.
func NextID() int64 {
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
	})

	return node.Generate().Int64()
}
