// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "testing"

func TestPoolSizesForCapacity(t *testing.T) {
	sizes := poolSizesForCapacity(10)
	if len(sizes) != len(perSetRatios) {
		t.Fatalf("poolSizesForCapacity: len(sizes) = %d, want %d", len(sizes), len(perSetRatios))
	}
	for _, s := range sizes {
		want := perSetRatios[s.Type] * 10
		if s.Count != want {
			t.Fatalf("poolSizesForCapacity: Count for %v = %d, want %d", s.Type, s.Count, want)
		}
	}
}

func TestPoolSizesForCapacityNeverZero(t *testing.T) {
	for _, s := range poolSizesForCapacity(0) {
		if s.Count == 0 {
			t.Fatalf("poolSizesForCapacity(0): Count for %v = 0, want >= 1", s.Type)
		}
	}
}

func TestDescriptorSetPoolGrowthPolicy(t *testing.T) {
	// Mirrors the decision in descriptorSetPool.allocate: when the
	// largest headroom seen across the failing pools is below the
	// current capacity (any headroom from 0 to capacity-1), P doubles;
	// when it reached the capacity, a fresh pool of the same size is
	// created.
	grow := func(capacity, maxHeadroom uint32) uint32 {
		if maxHeadroom < capacity {
			capacity *= 2
		}
		return capacity
	}
	if got := grow(defaultPoolCapacity, defaultPoolCapacity-1); got != defaultPoolCapacity*2 {
		t.Fatalf("grow(fragmented) = %d, want %d", got, defaultPoolCapacity*2)
	}
	if got := grow(defaultPoolCapacity, defaultPoolCapacity); got != defaultPoolCapacity {
		t.Fatalf("grow(headroom == capacity) = %d, want unchanged %d", got, defaultPoolCapacity)
	}
}
