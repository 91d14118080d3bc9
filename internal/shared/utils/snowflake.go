package utils

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// 布局：41 位毫秒时间 | 10 位节点 | 12 位序列，时间从 2024-01-01 UTC 起算。
const (
	idEpoch  int64 = 1704067200000
	nodeBits       = 10
	seqBits        = 12

	maxNodeID = 1<<nodeBits - 1
	maxSeq    = 1<<seqBits - 1
)

// IDGen 城市 id 生成器，同一节点内单调递增。
type IDGen struct {
	mu   sync.Mutex
	node int64
	last int64
	seq  int64
	now  func() time.Time
}

func NewIDGen(node int64) (*IDGen, error) {
	if node < 0 || node > maxNodeID {
		return nil, fmt.Errorf("id node out of range [0,%d]: %d", maxNodeID, node)
	}
	return &IDGen{node: node, now: time.Now}, nil
}

func (g *IDGen) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := max(g.now().UnixMilli(), g.last) // 时钟回拨时沿用上一毫秒
	if ms == g.last {
		g.seq = (g.seq + 1) & maxSeq
		if g.seq == 0 {
			for ms <= g.last {
				ms = g.now().UnixMilli()
			}
		}
	} else {
		g.seq = 0
	}
	g.last = ms
	return (ms-idEpoch)<<(nodeBits+seqBits) | g.node<<seqBits | g.seq
}

// SplitID 拆出生成时间、节点号和序列号，排查日志时用。
func SplitID(id int64) (at time.Time, node, seq int64) {
	at = time.UnixMilli(id>>(nodeBits+seqBits) + idEpoch).UTC()
	node = id >> seqBits & maxNodeID
	seq = id & maxSeq
	return
}

var defaultGen atomic.Pointer[IDGen]

func init() {
	g, _ := NewIDGen(1)
	defaultGen.Store(g)
}

// SetNode 替换进程级生成器的节点号，多实例部署时每个实例必须不同。
func SetNode(node int64) error {
	g, err := NewIDGen(node)
	if err != nil {
		return err
	}
	defaultGen.Store(g)
	return nil
}

func NextID() int64 {
	return defaultGen.Load().Next()
}
