package definitions

import (
	"sort"
	"strings"
)

const (
	BootloaderVehicle = "bootloader"
	PeriphVehicle     = "AP_Periph"
)

// VehicleBinaries maps vehicle names to the stem of the artifacts waf produces.
var VehicleBinaries = map[string]string{
	"rover":           "ardurover",
	"copter":          "arducopter",
	"plane":           "arduplane",
	"sub":             "ardusub",
	"heli":            "arducopter-heli",
	"blimp":           "blimp",
	"antennatracker":  "antennatracker",
	PeriphVehicle:     "AP_Periph",
	BootloaderVehicle: "AP_Bootloader",
	"iofirmware":      "iofirmware_highpolh",
}

// boards we have no -bl.dat for
var bootloaderBlacklist = []string{
	"CubeOrange-SimOnHardWare",
	"CubeOrangePlus-SimOnHardWare",
	"fmuv2",
	"fmuv3-bdshot",
	"iomcu",
	"iomcu_f103_8MHz",
	"luminousbee4",
	"skyviper-v2450",
	"skyviper-f412-rev1",
	"skyviper-journey",
	"Pixhawk1-1M-bdshot",
	"SITL_arm_linux_gnueabihf",
}

var linuxBoards = []string{
	"navigator",
	"erleboard",
	"navio",
	"navio2",
	"edge",
	"zynq",
	"ocpoc_zynq",
	"bbbmini",
	"blue",
	"pocket",
	"pxf",
	"bebop",
	"vnav",
	"disco",
	"erlebrain2",
	"bhat",
	"dark",
	"pxfmini",
	"aero",
	"rst_zynq",
	"obal",
	"SITL_x86_64_linux_gnu",
}

var esp32Boards = []string{
	"esp32buzz",
	"esp32empty",
	"esp32tomte76",
	"esp32icarous",
	"esp32diy",
}

// BootloaderBlacklist returns the set of boards no bootloader is built for.
// Linux and ESP32 boards are always included.
func BootloaderBlacklist() map[string]bool {
	set := make(map[string]bool, len(bootloaderBlacklist)+len(linuxBoards)+len(esp32Boards))
	for _, group := range [][]string{bootloaderBlacklist, linuxBoards, esp32Boards} {
		for _, b := range group {
			set[b] = true
		}
	}
	return set
}

// Vehicles returns every known vehicle name sorted case-insensitively.
func Vehicles() []string {
	out := make([]string, 0, len(VehicleBinaries))
	for v := range VehicleBinaries {
		out = append(out, v)
	}
	SortFold(out)
	return out
}

// SortFold sorts names case-insensitively, falling back to a byte order
// so names differing only in case keep a stable order.
func SortFold(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}
