package cdrom

// processSector dispatches a freshly read raw sector to either the data
// path (header/subheader parse, XA filter gating, sector-buffer staging)
// or the CD-DA path (straight PCM through the volume matrix).
func (c *Controller) processSector(raw []byte) {
	if c.driveState == DrivePlayingCDDA || c.mode.CDDAModeActive(raw) {
		c.processCDDASector(raw)
		return
	}
	c.processDataSector(raw)
}

// CDDAModeActive reports whether Setmode's CDDA bit is set and the
// sector's sync pattern doesn't look like a data sector at all (an audio
// track has no sync pattern/header, it's raw 16-bit PCM). processSector
// also routes every sector to CD-DA while the drive is playing audio.
func (m Mode) CDDAModeActive(raw []byte) bool {
	return m.has(ModeCDDA) && !HasValidSync(raw)
}

// processDataSector copies the sector's header and subheader into
// lastSectorHeader/lastSectorSubheader (read back by GetlocL/GetlocP
// regardless of what happens next), then decides whether the sector is
// handed off to the CD-XA real-time audio path or left staged in the
// sector buffer for the host to pull with BFRD. While XA-ADPCM is enabled,
// mode 2 audio+realtime sectors are never delivered to the host; everything
// else is, with an INT1 telling the host it's ready.
func (c *Controller) processDataSector(raw []byte) {
	if !HasValidSync(raw) {
		c.logf("sector at lba %d missing sync pattern, treating as corrupt", c.currentLBA)
		c.sendAsyncErrorResponse(SecondaryError, 0x10)
		return
	}

	c.sectorBufValid = true

	c.lastSectorHeader = SectorHeader{
		Minute:     BCDToDecimal(raw[12]),
		Second:     BCDToDecimal(raw[13]),
		Frame:      BCDToDecimal(raw[14]),
		SectorMode: raw[15],
	}
	c.lastSectorSubheader = SectorSubheader{
		File:    raw[16],
		Channel: raw[17],
		Submode: Submode(raw[18]),
		Coding:  CodingInfo(raw[19]),
	}
	header := c.lastSectorHeader
	sub := c.lastSectorSubheader

	passToHost := true
	if c.mode.XAEnable() && header.SectorMode == 2 {
		if sub.Submode.Audio() && sub.Submode.Realtime() {
			c.processXASector(raw, sub)
			c.sectorBufValid = false
			passToHost = false
		}
		if sub.Submode.EOF() {
			c.logf("end of CD-XA file at lba %d", c.currentLBA)
		}
	}

	if passToHost {
		c.pushAsyncResponse(IRQDataReady, []byte{uint8(c.secondaryStatus)})
	}
}

// loadRawSectorIntoDataFIFO copies the staged sector buffer into the data
// FIFO: the full 2340-byte payload (everything past the 12-byte sync) in
// raw-sector mode, or just the 2048-byte Form 1 user-data span (past sync,
// header and subheader) otherwise. Called from writeRequest when the host
// sets BFRD, never automatically on sector read.
func (c *Controller) loadRawSectorIntoDataFIFO(raw []byte) {
	if !c.sectorBufValid {
		c.logf("BFRD set with no staged sector, ignoring")
		return
	}
	c.data.Clear()
	if c.mode.ReadRawSector() {
		c.data.PushRange(raw[12:RawSectorSize])
	} else {
		c.data.PushRange(raw[24:2072])
	}
	c.updateDataRequest()
}

// processXASector decodes a CD-XA real-time audio sector, gated by the
// Setfilter file/channel match, then resamples and feeds the result to the
// AudioSink. Decoding always happens, even while muted, so the decoder's
// predictor history stays in sync with what the host would hear if it
// unmuted mid-stream. The volume matrix is applied after interpolation, to
// the resampler's 44100Hz output, not to the native-rate decoded samples.
func (c *Controller) processXASector(raw []byte, sub SectorSubheader) {
	if c.filterEnabled && (sub.File != c.filterFile || sub.Channel != c.filterChannel) {
		return
	}

	payload := raw[24 : RawSectorSize-4]
	samples := c.xaState.DecodeSector(payload, sub.Coding)

	stereo := sub.Coding.Stereo()
	halfRate := sub.Coding.HalfSampleRate()

	if c.muted || c.adpcmMuted {
		return
	}

	if stereo {
		for i := 0; i+1 < len(samples); i += 2 {
			c.pushXAFrame(samples[i], samples[i+1], halfRate)
		}
	} else {
		for _, s := range samples {
			c.pushXAFrame(s, s, halfRate)
		}
	}
}

// pushXAFrame feeds one native-rate stereo frame into the resampler,
// applies the volume matrix to whatever 44100Hz output it produced, and
// hands the result to the audio sink. A half-rate (18900Hz) sound group is
// fed twice per sample, duplicating samples before the zig-zag resampler
// runs.
func (c *Controller) pushXAFrame(left, right int16, halfRate bool) {
	repeats := 1
	if halfRate {
		repeats = 2
	}
	for i := 0; i < repeats; i++ {
		c.xaResampler.PushStereoSample(left, right)
	}
	out := c.xaResampler.Drain()
	if len(out) == 0 {
		return
	}
	c.audio.EnsureCDAudioSpace(len(out) / 2)
	for i := 0; i+1 < len(out); i += 2 {
		l, r := c.volume.Apply(out[i], out[i+1])
		c.audio.AddCDAudioSample(l, r)
	}
}

// processCDDASector feeds a raw CD-DA audio sector's 2352 bytes of 16-bit
// stereo PCM straight through the volume matrix to the audio sink, one of
// the 588 sample pairs at a time. CD-DA is already delivered at a fixed
// 44100Hz-derived rate, so no resampling runs on this path. No INT1 is
// raised here even with mode.report_audio set; CDDA sectors are never
// handed to the host through the data FIFO.
func (c *Controller) processCDDASector(raw []byte) {
	c.sectorBufValid = false
	if c.muted {
		return
	}
	numSamples := len(raw) / 4
	c.audio.EnsureCDAudioSpace(numSamples)
	for i := 0; i+3 < len(raw); i += 4 {
		l := int16(uint16(raw[i]) | uint16(raw[i+1])<<8)
		r := int16(uint16(raw[i+2]) | uint16(raw[i+3])<<8)
		ol, or := c.volume.Apply(l, r)
		c.audio.AddCDAudioSample(ol, or)
	}
}
