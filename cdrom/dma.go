package cdrom

// DMAChannel is the boundary to the host's DMA engine: this core exposes
// only the single channel its own hardware drives.
//
// SetRequest tells the DMA engine whether the data FIFO currently has
// bytes available for it to pull.
type DMAChannel interface {
	SetRequest(active bool)
}

// nullDMAChannel is used when a Controller is constructed without an
// explicit DMA channel, so Store/DMARead never need a nil check.
type nullDMAChannel struct{}

func (nullDMAChannel) SetRequest(active bool) {}

// DMARead drains up to len(dst) bytes from the data FIFO for a DMA burst
// transfer, the bulk counterpart to reading register offset 2 one byte at
// a time.
func (c *Controller) DMARead(dst []byte) int {
	n := c.data.PopRange(dst)
	c.updateDataRequest()
	return n
}
