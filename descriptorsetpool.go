// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "github.com/kestrelgpu/coral/vk"

// defaultPoolCapacity is the initial per-pool set capacity P from §4.8,
// used when a DescriptorSetPoolConfig leaves InitialCapacity unset.
const defaultPoolCapacity = 1000

// DescriptorSetPoolConfig configures a Context's internal
// descriptorSetPool. It has no exported constructor of its own — a
// Context builds one from ContextConfig — but exists so the initial
// capacity P can be tuned without touching the growth policy itself.
type DescriptorSetPoolConfig struct {
	// InitialCapacity is the starting per-pool set budget P. Zero
	// means defaultPoolCapacity.
	InitialCapacity uint32
}

// perSetRatios gives the default per-descriptor-type budget per set,
// used to size a backing pool's DescriptorPoolSize list (min 1 each).
var perSetRatios = map[vk.DescriptorType]uint32{
	vk.DescriptorSampler:              3,
	vk.DescriptorSampledImage:         3,
	vk.DescriptorCombinedImageSampler: 3,
	vk.DescriptorUniformBuffer:        2,
	vk.DescriptorStorageBuffer:        1,
}

// backingPool is one allocated vk.DescriptorPool tracked by the
// DescriptorSetPool, with its configured capacity and current size
// (number of sets allocated from it).
type backingPool struct {
	handle   vk.DescriptorPool
	capacity uint32
	size     uint32
}

// descriptorSetPool implements §4.8's growth/eviction policy: a list
// of backing pools walked most-recently-created-first, growing by
// either a fresh same-size pool or a doubled-capacity pool depending
// on how fragmented the most recent OUT_OF_POOL_MEMORY/FRAGMENTED_POOL
// failure looked.
type descriptorSetPool struct {
	device   *vk.Device
	capacity uint32
	pools    []*backingPool
	owner    map[vk.DescriptorSet]*backingPool
}

func newDescriptorSetPool(device *vk.Device, cfg DescriptorSetPoolConfig) *descriptorSetPool {
	capacity := cfg.InitialCapacity
	if capacity == 0 {
		capacity = defaultPoolCapacity
	}
	p := &descriptorSetPool{
		device:   device,
		capacity: capacity,
		owner:    make(map[vk.DescriptorSet]*backingPool),
	}
	return p
}

func poolSizesForCapacity(capacity uint32) []vk.DescriptorPoolSize {
	sizes := make([]vk.DescriptorPoolSize, 0, len(perSetRatios))
	for t, ratio := range perSetRatios {
		n := ratio * capacity
		if n == 0 {
			n = 1
		}
		sizes = append(sizes, vk.DescriptorPoolSize{Type: t, Count: n})
	}
	return sizes
}

func (p *descriptorSetPool) addPool(capacity uint32) (*backingPool, error) {
	handle, err := p.device.CreateDescriptorPool(capacity, poolSizesForCapacity(capacity))
	if err != nil {
		return nil, err
	}
	bp := &backingPool{handle: handle, capacity: capacity}
	p.pools = append(p.pools, bp)
	return bp, nil
}

// allocate allocates a descriptor set matching layout, growing the
// pool set per §4.8 if every existing backing pool is exhausted or
// fragmented.
func (p *descriptorSetPool) allocate(layout vk.DescriptorSetLayout) (vk.DescriptorSet, error) {
	if len(p.pools) == 0 {
		if _, err := p.addPool(p.capacity); err != nil {
			return vk.DescriptorSet{}, err
		}
	}

	var maxHeadroom uint32
	for i := len(p.pools) - 1; i >= 0; i-- {
		bp := p.pools[i]
		set, err := p.device.AllocateDescriptorSet(bp.handle, layout)
		if err == nil {
			bp.size++
			p.owner[set] = bp
			return set, nil
		}
		if !vk.IsOutOfPoolMemory(err) {
			return vk.DescriptorSet{}, err
		}
		if headroom := bp.capacity - bp.size; headroom > maxHeadroom {
			maxHeadroom = headroom
		}
	}

	// §4.8: if the worst headroom seen across existing pools already
	// reached the current capacity, a fresh same-size pool is enough;
	// otherwise the failure looked like fragmentation, so double P.
	if maxHeadroom < p.capacity {
		p.capacity *= 2
	}

	bp, err := p.addPool(p.capacity)
	if err != nil {
		return vk.DescriptorSet{}, err
	}
	set, err := p.device.AllocateDescriptorSet(bp.handle, layout)
	if err != nil {
		return vk.DescriptorSet{}, err
	}
	bp.size++
	p.owner[set] = bp
	return set, nil
}

// free returns a descriptor set's memory to the backing pool it was
// allocated from and forgets the tracking entry.
func (p *descriptorSetPool) free(set vk.DescriptorSet) error {
	bp, ok := p.owner[set]
	if !ok {
		return ErrInternal
	}
	if err := p.device.FreeDescriptorSet(bp.handle, set); err != nil {
		return err
	}
	bp.size--
	delete(p.owner, set)
	return nil
}

func (p *descriptorSetPool) close() {
	for _, bp := range p.pools {
		p.device.DestroyDescriptorPool(bp.handle)
	}
	p.pools = nil
	p.owner = nil
}
