package testsuite

import (
	"testing"

	"github.com/vkolb/ccmetrics/internal/adder"
	"github.com/vkolb/ccmetrics/internal/skiplist"
)

func TestAdderConformance(t *testing.T) {
	RunAdderConformance(t, "StripedAdder", func() Adder { return adder.New() })
}

func TestOrderedMapConformance(t *testing.T) {
	RunOrderedMapConformance(t, "SkipList", func() OrderedMap[int, int] {
		return skiplist.New[int, int]()
	})
	RunOrderedMapConformance(t, "MutexReference", func() OrderedMap[int, int] {
		return NewMutexOrderedMap[int, int]()
	})
}
