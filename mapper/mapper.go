// Package mapper implements the address space of the mips32 system.
//
// A Mapper holds an ordered list of regions, each backed by one device.
// Every access is resolved to the first region covering the address, where
// the most recently mapped region is searched first. This allows a device
// to be overlaid on top of another, for example an I/O device over RAM.
package mapper

import (
	"iter"
	"log"
	"slices"

	"github.com/ezrec/mips32/device"
)

// Region is a contiguous, inclusive range of the address space backed by a
// device.
type Region struct {
	Device device.Device // Backing device.
	Start  uint32        // First address in the region.
	End    uint32        // Last address in the region.
	Remap  bool          // If set, the device sees addresses relative to Start.
}

// Contains returns true if address lies within the region.
func (region *Region) Contains(address uint32) bool {
	return region.Start <= address && address <= region.End
}

// Translate converts a global address to the device address.
func (region *Region) Translate(address uint32) uint32 {
	if region.Remap {
		return address - region.Start
	}
	return address
}

// Mapper routes global addresses to devices.
type Mapper struct {
	Verbose bool // Set to enable verbose logging.

	regions []*Region // Search order, most recent first.
}

var _ device.Device = (*Mapper)(nil)

// NewMapper creates an empty address space.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map places a device over [start, end], ahead of all existing regions.
func (mp *Mapper) Map(dev device.Device, start, end uint32, remap bool) (region *Region) {
	region = &Region{
		Device: dev,
		Start:  start,
		End:    end,
		Remap:  remap,
	}

	if mp.Verbose {
		log.Printf("mapper: map 0x%08x-0x%08x remap:%v", start, end, remap)
	}

	mp.regions = slices.Insert(mp.regions, 0, region)

	return
}

// Unmap removes a region previously returned by Map.
func (mp *Mapper) Unmap(region *Region) (err error) {
	index := slices.Index(mp.regions, region)
	if index < 0 {
		err = ErrRegionUnknown
		return
	}

	if mp.Verbose {
		log.Printf("mapper: unmap 0x%08x-0x%08x", region.Start, region.End)
	}

	mp.regions = slices.Delete(mp.regions, index, index+1)

	return
}

// Regions returns an iterator over the regions in search order.
func (mp *Mapper) Regions() iter.Seq[*Region] {
	return slices.Values(mp.regions)
}

// Find returns the region that owns address.
func (mp *Mapper) Find(address uint32) (region *Region, err error) {
	for _, region = range mp.regions {
		if region.Contains(address) {
			return
		}
	}

	region = nil
	err = ErrUnmappedAddress
	return
}

// resolve finds the device and device address for a global address.
func (mp *Mapper) resolve(address uint32) (dev device.Device, local uint32, err error) {
	region, err := mp.Find(address)
	if err != nil {
		return
	}

	if region.Device == nil {
		err = ErrRegionInvalid
		return
	}

	dev = region.Device
	local = region.Translate(address)
	return
}

// wrap attaches the global address to a failed access.
func wrap(address uint32, err error) error {
	if err == nil {
		return nil
	}
	return &ErrAddress{Address: address, Err: err}
}

func (mp *Mapper) GetByte(address uint32) (value [1]byte, err error) {
	dev, local, err := mp.resolve(address)
	if err == nil {
		value, err = dev.GetByte(local)
	}
	err = wrap(address, err)
	return
}

func (mp *Mapper) GetHalfWord(address uint32) (value [2]byte, err error) {
	dev, local, err := mp.resolve(address)
	if err == nil {
		value, err = dev.GetHalfWord(local)
	}
	err = wrap(address, err)
	return
}

func (mp *Mapper) GetWord(address uint32) (value [4]byte, err error) {
	dev, local, err := mp.resolve(address)
	if err == nil {
		value, err = dev.GetWord(local)
	}
	err = wrap(address, err)
	return
}

func (mp *Mapper) SetByte(address uint32, value [1]byte) (err error) {
	dev, local, err := mp.resolve(address)
	if err == nil {
		err = dev.SetByte(local, value)
	}
	return wrap(address, err)
}

func (mp *Mapper) SetHalfWord(address uint32, value [2]byte) (err error) {
	dev, local, err := mp.resolve(address)
	if err == nil {
		err = dev.SetHalfWord(local, value)
	}
	return wrap(address, err)
}

func (mp *Mapper) SetWord(address uint32, value [4]byte) (err error) {
	dev, local, err := mp.resolve(address)
	if err == nil {
		err = dev.SetWord(local, value)
	}
	return wrap(address, err)
}
