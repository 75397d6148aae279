package cdrom

import (
	"errors"
	"fmt"
	"io"
)

// RawSectorSize is the size in bytes of one raw CD sector as stored in a
// BIN image: 12-byte sync pattern, 4-byte header, then 2336 bytes of
// mode-2 payload (which itself may carry an 8-byte subheader and a
// trailing EDC/ECC block depending on the sector's form).
const RawSectorSize = 2352

// TrackInfo describes one track of a disc's table of contents, the
// minimum a GetTN/GetTD/Play[track] implementation needs.
type TrackInfo struct {
	Number     uint8
	StartLBA   LBA
	IsAudio    bool
}

// Image is the boundary to the host's disc-image backend: this core
// parses no CUE/BIN/CHD format itself, it only reads raw sectors and
// track metadata through this interface.
type Image interface {
	// ReadSector reads one RawSectorSize-byte sector at the given LBA into
	// dst, which must have length >= RawSectorSize.
	ReadSector(lba LBA, dst []byte) error
	// TrackCount returns the number of tracks on the disc (>= 1).
	TrackCount() int
	// Track returns metadata for the given 1-based track number.
	Track(number uint8) (TrackInfo, bool)
	// TrackForLBA returns the track containing the given LBA.
	TrackForLBA(lba LBA) TrackInfo
	// LBACount returns the total number of addressable sectors.
	LBACount() LBA
	// FileName returns the path or identifier the image was opened from,
	// used by save-state to reopen the same media on restore.
	FileName() string
}

// BinImage is a reference Image backed by a single flat .bin file holding
// one or more tracks back-to-back at RawSectorSize-byte sector boundaries.
// Region auto-detection from a license string, which some BIN images
// carry, is deliberately not modeled here: this core reports whatever
// region the host configures it for rather than sniffing the disc.
type BinImage struct {
	r        io.ReadSeeker
	fileName string
	tracks   []TrackInfo
	lbaCount LBA
}

// OpenBinImage wraps an already-open reader as a BinImage with the given
// track table. The caller supplies the track table because a flat .bin has
// no embedded TOC; a real backend would derive it from an accompanying
// .cue sheet, which is out of this module's scope.
func OpenBinImage(r io.ReadSeeker, fileName string, tracks []TrackInfo, lbaCount LBA) (*BinImage, error) {
	if len(tracks) == 0 {
		return nil, errors.New("cdrom: disc image has no tracks")
	}
	return &BinImage{r: r, fileName: fileName, tracks: tracks, lbaCount: lbaCount}, nil
}

func (d *BinImage) ReadSector(lba LBA, dst []byte) error {
	if len(dst) < RawSectorSize {
		return fmt.Errorf("cdrom: sector buffer too small (%d < %d)", len(dst), RawSectorSize)
	}
	if lba >= d.lbaCount {
		return fmt.Errorf("cdrom: lba %d out of range (count %d)", lba, d.lbaCount)
	}
	if _, err := d.r.Seek(int64(lba)*RawSectorSize, io.SeekStart); err != nil {
		return err
	}
	_, err := io.ReadFull(d.r, dst[:RawSectorSize])
	return err
}

func (d *BinImage) TrackCount() int { return len(d.tracks) }

func (d *BinImage) Track(number uint8) (TrackInfo, bool) {
	for _, t := range d.tracks {
		if t.Number == number {
			return t, true
		}
	}
	return TrackInfo{}, false
}

func (d *BinImage) TrackForLBA(lba LBA) TrackInfo {
	best := d.tracks[0]
	for _, t := range d.tracks {
		if t.StartLBA <= lba && t.StartLBA >= best.StartLBA {
			best = t
		}
	}
	return best
}

func (d *BinImage) LBACount() LBA { return d.lbaCount }

func (d *BinImage) FileName() string { return d.fileName }
