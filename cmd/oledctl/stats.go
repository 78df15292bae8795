// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	pscpu "github.com/shirou/gopsutil/v3/cpu"
	pshost "github.com/shirou/gopsutil/v3/host"
	psmem "github.com/shirou/gopsutil/v3/mem"
)

type stats struct {
	Host   string
	CPU    float64
	Mem    float64
	Uptime time.Duration
}

func readStats() (stats, error) {
	var s stats
	info, err := pshost.Info()
	if err != nil {
		return s, err
	}
	s.Host = info.Hostname
	s.Uptime = time.Duration(info.Uptime) * time.Second
	// 0 compares with the previous call.
	cpu, err := pscpu.Percent(0, false)
	if err != nil {
		return s, err
	}
	if len(cpu) != 0 {
		s.CPU = cpu[0]
	}
	vm, err := psmem.VirtualMemory()
	if err != nil {
		return s, err
	}
	s.Mem = vm.UsedPercent
	return s, nil
}

func (s *stats) lines() []string {
	return []string{
		s.Host,
		fmt.Sprintf("CPU %3.0f%%", s.CPU),
		fmt.Sprintf("MEM %3.0f%%", s.Mem),
		"UP " + formatUptime(s.Uptime),
	}
}

// formatUptime returns a compact duration like "3d04h" or "12m".
func formatUptime(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60
	switch {
	case days != 0:
		return fmt.Sprintf("%dd%02dh", days, hours)
	case hours != 0:
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
