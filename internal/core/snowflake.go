package core

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// DefaultMachineID seeds the process-wide snowflake generator. The machine
// id is fixed at startup; IDs are unique within a response and monotonic,
// but not comparable across responses.
const DefaultMachineID = 42

var idAllocator *snowflake.Node

func init() {
	var err error
	idAllocator, err = snowflake.NewNode(DefaultMachineID)
	if err != nil {
		log.Panicf("failed to seed the snowflake generator: %v", err)
	}
}

// NextID issues the next 63-bit node ID. Safe under concurrent callers;
// digest runs multi-tenant under the RPC worker pool.
func NextID() int64 {
	return idAllocator.Generate().Int64()
}

// NewUUID returns a fresh v4 UUID for a node.
func NewUUID() string {
	return uuid.NewString()
}
