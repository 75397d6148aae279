package cdrom

// Load and Store implement the 4-byte memory-mapped register window:
// offset 0-3 each multiplexed by the 2-bit index latched through offset
// 0. Volume writes land in volumePending (M') and only take effect on the
// committing write (offset 3, index 3, bit 5 set), matching the real
// hardware's staged-then-applied volume matrix.
//
// Load reads a byte back from the given offset/index combination.
func (c *Controller) Load(size AccessSize, offset uint32) uint8 {
	switch offset {
	case 0:
		return uint8(c.statusByte())
	case 1:
		if c.response.IsEmpty() {
			return 0xff
		}
		return c.response.Pop()
	case 2:
		if c.data.IsEmpty() {
			return 0
		}
		v := c.data.Pop()
		c.updateDataRequest()
		return v
	case 3:
		switch c.index {
		case 0, 2:
			return c.irq.enableRegister()
		default:
			return c.irq.flagRegister()
		}
	default:
		panicFmt("cdrom: load from out-of-range register offset %d", offset)
		return 0
	}
}

// Store implements every register write. Interrupt delivery runs through
// the InterruptLine boundary rather than a return value.
func (c *Controller) Store(offset uint32, size AccessSize, val uint8) {
	switch offset {
	case 0:
		c.index = val & 0x3
	case 1:
		switch c.index {
		case 0:
			c.writeCommand(val)
		case 3:
			c.volumePending.CDRightToSPURight = val
		default:
			// Sound-map data-out/coding-info registers: out of scope
			// (no sound-map support).
		}
	case 2:
		switch c.index {
		case 0:
			c.pushParam(val)
		case 1:
			c.irq.setEnable(val)
		case 2:
			c.volumePending.CDLeftToSPULeft = val
		case 3:
			c.volumePending.CDRightToSPULeft = val
		}
	case 3:
		switch c.index {
		case 0:
			c.writeRequest(RequestRegister(val))
		case 1:
			c.irq.acknowledge(val)
			c.onIRQClear()
			if val&0x40 != 0 {
				c.params.Clear()
			}
		case 2:
			c.volumePending.CDLeftToSPURight = val
		case 3:
			c.adpcmMuted = val&0x01 != 0
			if val&0x20 != 0 {
				c.volume = c.volumePending
			}
		}
	default:
		panicFmt("cdrom: store to out-of-range register offset %d", offset)
	}
}

// pushParam appends a byte to the parameter FIFO, discarding the oldest
// queued byte on overflow rather than the new one.
func (c *Controller) pushParam(val uint8) {
	if c.params.IsFull() {
		c.logf("parameter FIFO overflow, discarding oldest byte")
		c.params.RemoveOldest()
	}
	c.params.Push(val)
}

// writeRequest implements the BFRD/SMEN request register: setting BFRD
// loads the data FIFO from the currently staged sector payload, clearing
// it flushes the data FIFO.
func (c *Controller) writeRequest(r RequestRegister) {
	if r.SMEN() {
		c.logf("sound-map enable requested but unsupported, ignoring")
	}
	if r.BFRD() {
		c.loadRawSectorIntoDataFIFO(c.sectorBuf[:])
	} else {
		c.data.Clear()
		c.updateDataRequest()
	}
}
