package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	nodeBits = 10
	maxNode  = 1<<nodeBits - 1

	// 2026-01-01T00:00:00Z
	snowflakeEpochMillis = 1767225600000
)

var setEpoch sync.Once

// Snowflake generates int64 IDs that are unique per node and roughly ordered by time.
type Snowflake struct {
	node *snowflake.Node
}

func randomNodeID() (int64, error) {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint16(buf[:])) & maxNode, nil
}

// NewSnowflake builds a generator for nodeID; a negative or out-of-range
// nodeID picks a random node, which is fine for a single replica.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNode {
		id, err := randomNodeID()
		if err != nil {
			return nil, err
		}
		nodeID = id
	}

	setEpoch.Do(func() {
		snowflake.Epoch = snowflakeEpochMillis
	})

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
