package utils

import (
	"testing"
	"time"
)

func TestIDGen_单调递增且节点号生效(t *testing.T) {
	g, err := NewIDGen(7)
	if err != nil {
		t.Fatalf("NewIDGen err=%v", err)
	}
	prev := g.Next()
	for i := 0; i < 5000; i++ {
		id := g.Next()
		if id <= prev {
			t.Fatalf("期望严格递增, prev=%d id=%d", prev, id)
		}
		if _, node, _ := SplitID(id); node != 7 {
			t.Fatalf("期望节点号 7, got=%d", node)
		}
		prev = id
	}
}

func TestIDGen_时钟回拨不回退(t *testing.T) {
	g, _ := NewIDGen(1)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cur := base
	g.now = func() time.Time { return cur }

	a := g.Next()
	cur = base.Add(-time.Second)
	b := g.Next()
	if b <= a {
		t.Fatalf("期望回拨后仍递增, a=%d b=%d", a, b)
	}
	if at, _, seq := SplitID(b); !at.Equal(base) || seq != 1 {
		t.Fatalf("期望沿用上一毫秒并递增序列, at=%v seq=%d", at, seq)
	}
}

func TestNewIDGen_节点号越界(t *testing.T) {
	if _, err := NewIDGen(maxNodeID + 1); err == nil {
		t.Fatalf("期望节点号越界报错")
	}
	if err := SetNode(-1); err == nil {
		t.Fatalf("期望负节点号报错")
	}
}
