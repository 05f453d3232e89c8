// Package sysmon samples host CPU and memory utilization into rolling
// windows of byte-scaled values, ready to feed the chipscreen graph
// primitives.
package sysmon

import (
	"fmt"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Sampler keeps rolling windows of CPU and memory utilization. Values
// are scaled from percent into [0, max] so a window can be handed to a
// graph primitive as sample bytes without further conversion.
//
// Sampler is safe for concurrent use.
type Sampler struct {
	mu     sync.Mutex
	window int
	max    byte
	cpu    []byte
	mem    []byte
}

// New returns a Sampler holding up to window samples per series, scaled
// into [0, max].
func New(window int, max byte) *Sampler {
	if window <= 0 {
		window = 1
	}
	return &Sampler{window: window, max: max}
}

// Sample polls utilization once and appends to both windows. CPU usage
// is the busy share of the interval since the previous call.
func (s *Sampler) Sample() error {
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return fmt.Errorf("sysmon: cpu: %w", err)
	}
	var cpuPct float64
	if len(pcts) > 0 {
		cpuPct = pcts[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("sysmon: memory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cpu = push(s.cpu, scale(cpuPct, s.max), s.window)
	s.mem = push(s.mem, scale(vm.UsedPercent, s.max), s.window)
	return nil
}

// CPU returns a copy of the CPU window, oldest sample first.
func (s *Sampler) CPU() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.cpu...)
}

// Memory returns a copy of the memory window, oldest sample first.
func (s *Sampler) Memory() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.mem...)
}

// scale maps a percentage to [0, max], clamping out-of-range input.
func scale(pct float64, max byte) byte {
	if pct <= 0 {
		return 0
	}
	if pct >= 100 {
		return max
	}
	return byte(pct*float64(max)/100 + 0.5)
}

// push appends v, dropping the oldest samples once the window is full.
func push(w []byte, v byte, window int) []byte {
	w = append(w, v)
	if len(w) > window {
		w = w[len(w)-window:]
	}
	return w
}
