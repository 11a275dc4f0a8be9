// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "testing"

func TestMipLevelCount(t *testing.T) {
	for _, c := range []struct{ w, h, want uint32 }{
		{1, 1, 1},
		{2, 2, 2},
		{4, 4, 3},
		{256, 256, 9},
		{256, 1, 9},
		{1, 256, 9},
		{300, 200, 9},
	} {
		if got := mipLevelCount(c.w, c.h); got != c.want {
			t.Fatalf("mipLevelCount(%d, %d) = %d, want %d", c.w, c.h, got, c.want)
		}
	}
}
