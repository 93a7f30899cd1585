package renderer

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuBufferAllocator creates device buffers and fills them through the queue on Unlock.
type wgpuBufferAllocator struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue
}

// NewWGPUBufferAllocator creates a BufferAllocator backed by a WebGPU device.
// Each Unlock writes the staging slice to the device buffer with a single queue write.
//
// Parameters:
//   - device: the device that owns the buffers
//   - queue: the queue used for uploads
//
// Returns:
//   - BufferAllocator: the allocator
func NewWGPUBufferAllocator(device *wgpu.Device, queue *wgpu.Queue) BufferAllocator {
	return &wgpuBufferAllocator{
		mu:     &sync.Mutex{},
		device: device,
		queue:  queue,
	}
}

func (a *wgpuBufferAllocator) Allocate(label string, kind BufferKind, size uint64, usage BufferUsage) (HardwareBuffer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Queue writes must be a multiple of 4 bytes.
	padded := (size + 3) &^ 3
	buf, err := a.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             padded,
		Usage:            kind.WGPUUsage(),
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %s: %w", label, err)
	}

	return &stagedBuffer{
		label: label,
		kind:  kind,
		usage: usage,
		data:  make([]byte, padded),
		commit: func(data []byte) error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.queue.WriteBuffer(buf, 0, data)
			return nil
		},
		release: buf.Release,
	}, nil
}

// WGPUDevice bundles a headless WebGPU device with its queue.
type WGPUDevice struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
}

// NewWGPUDevice requests an adapter and device without a presentation surface.
//
// Parameters:
//   - label: the device label
//   - forceFallbackAdapter: true to request a software adapter
//
// Returns:
//   - *WGPUDevice: the device bundle
//   - error: error if no adapter or device is available
func NewWGPUDevice(label string, forceFallbackAdapter bool) (*WGPUDevice, error) {
	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: label,
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	return &WGPUDevice{
		Instance: instance,
		Adapter:  adapter,
		Device:   device,
		Queue:    device.GetQueue(),
	}, nil
}

// Allocator returns a BufferAllocator for the device.
//
// Returns:
//   - BufferAllocator: the allocator
func (d *WGPUDevice) Allocator() BufferAllocator {
	return NewWGPUBufferAllocator(d.Device, d.Queue)
}

// Release frees the device, adapter and instance.
func (d *WGPUDevice) Release() {
	if d.Queue != nil {
		d.Queue.Release()
	}
	if d.Device != nil {
		d.Device.Release()
	}
	if d.Adapter != nil {
		d.Adapter.Release()
	}
	if d.Instance != nil {
		d.Instance.Release()
	}
}
