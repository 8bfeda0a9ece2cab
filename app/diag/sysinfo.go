package diag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/go-pkgz/lgr"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"

	"github.com/umputun/netdiag/app/web/enums"
)

// Summary is a short description of the host the app runs on
type Summary struct {
	Hostname   string      `json:"hostname"`
	Platform   string      `json:"platform"`
	Kernel     string      `json:"kernel"`
	Uptime     string      `json:"uptime"`
	Load       [3]float64  `json:"load"`
	MemTotal   string      `json:"mem_total"`
	MemUsed    string      `json:"mem_used"`
	MemPercent float64     `json:"mem_percent"`
	Interfaces []Interface `json:"interfaces"`
}

// Interface is a network interface with its addresses and traffic counters
type Interface struct {
	Name  string   `json:"name"`
	Addrs []string `json:"addrs"`
	Up    bool     `json:"up"`
	Sent  string   `json:"sent"`
	Recv  string   `json:"recv"`
}

// Summary collects host details in process. Parts that can't be read are left empty.
func (s *Service) Summary(ctx context.Context) Summary {
	res := Summary{}
	if hi, err := host.InfoWithContext(ctx); err == nil {
		res.Hostname = hi.Hostname
		res.Platform = strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion)
		res.Kernel = hi.KernelVersion
		res.Uptime = (time.Duration(hi.Uptime) * time.Second).String() // #nosec G115 - uptime fits
	} else {
		log.Printf("[DEBUG] can't get host info, %v", err)
	}

	if la, err := load.AvgWithContext(ctx); err == nil {
		res.Load = [3]float64{la.Load1, la.Load5, la.Load15}
	} else {
		log.Printf("[DEBUG] can't get load average, %v", err)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		res.MemTotal, res.MemUsed, res.MemPercent = humanize.IBytes(vm.Total), humanize.IBytes(vm.Used), vm.UsedPercent
	} else {
		log.Printf("[DEBUG] can't get memory stats, %v", err)
	}

	counters := map[string]psnet.IOCountersStat{}
	if cs, err := psnet.IOCountersWithContext(ctx, true); err == nil {
		for _, c := range cs {
			counters[c.Name] = c
		}
	}
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		log.Printf("[DEBUG] can't list interfaces, %v", err)
		return res
	}
	for _, ifc := range ifaces {
		item := Interface{Name: ifc.Name}
		for _, a := range ifc.Addrs {
			item.Addrs = append(item.Addrs, a.Addr)
		}
		for _, f := range ifc.Flags {
			if f == "up" {
				item.Up = true
			}
		}
		if c, ok := counters[ifc.Name]; ok {
			item.Sent, item.Recv = humanize.IBytes(c.BytesSent), humanize.IBytes(c.BytesRecv)
		}
		res.Interfaces = append(res.Interfaces, item)
	}
	return res
}

// SystemInfo renders Summary as a report
func (s *Service) SystemInfo(ctx context.Context) Report {
	started := time.Now()
	sum := s.Summary(ctx)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hostname: %s\nPlatform: %s\nKernel: %s\nUptime: %s\n", sum.Hostname, sum.Platform, sum.Kernel, sum.Uptime)
	fmt.Fprintf(&sb, "Load: %.2f %.2f %.2f\n", sum.Load[0], sum.Load[1], sum.Load[2])
	fmt.Fprintf(&sb, "Memory: %s of %s (%.1f%%)\n", sum.MemUsed, sum.MemTotal, sum.MemPercent)
	for _, ifc := range sum.Interfaces {
		state := "down"
		if ifc.Up {
			state = "up"
		}
		fmt.Fprintf(&sb, "%s [%s] %s", ifc.Name, state, strings.Join(ifc.Addrs, ", "))
		if ifc.Sent != "" {
			fmt.Fprintf(&sb, " tx %s rx %s", ifc.Sent, ifc.Recv)
		}
		sb.WriteString("\n")
	}

	return Report{Kind: KindSysInfo, Command: "sysinfo", Output: sb.String(), Status: enums.RunStatusSuccess,
		StartedAt: started, FinishedAt: time.Now()}
}
