package traj

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// DCD files store coordinates in Angstrom inside Fortran-style records
// (payload bracketed by its byte count). Both endiannesses occur in the
// wild, so the reader detects byte order from the first record marker.

const (
	dcdMagic      = "CORD"
	dcdHeaderSize = 84
	angstromPerNm = 10.0
)

var (
	ErrNotDCD       = errors.New("traj: not a DCD trajectory")
	ErrTruncatedDCD = errors.New("traj: truncated DCD record")
)

// ReadDCD parses a CHARMM-style DCD trajectory from disk.
func ReadDCD(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	frames, err := decodeDCD(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}

func decodeDCD(r io.Reader) ([]Frame, error) {
	// The first record marker must be 84 in one of the two byte orders.
	var marker [4]byte
	if _, err := io.ReadFull(r, marker[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDCD, err)
	}
	var order binary.ByteOrder = binary.LittleEndian
	if order.Uint32(marker[:]) != dcdHeaderSize {
		order = binary.BigEndian
		if order.Uint32(marker[:]) != dcdHeaderSize {
			return nil, ErrNotDCD
		}
	}

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, ErrTruncatedDCD
	}
	if string(magic[:]) != dcdMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrNotDCD, magic)
	}

	var icntrl [20]int32
	if err := binary.Read(r, order, &icntrl); err != nil {
		return nil, ErrTruncatedDCD
	}
	if err := expectMarker(r, order, dcdHeaderSize); err != nil {
		return nil, err
	}
	// icntrl[10] flags a per-frame unit cell record (CHARMM extension).
	hasCell := icntrl[10] != 0

	// Title record: ntitle 80-byte lines.
	titleLen, err := readMarker(r, order)
	if err != nil {
		return nil, err
	}
	if _, err := io.CopyN(io.Discard, r, int64(titleLen)); err != nil {
		return nil, ErrTruncatedDCD
	}
	if err := expectMarker(r, order, titleLen); err != nil {
		return nil, err
	}

	// Atom count record.
	if err := expectMarker(r, order, 4); err != nil {
		return nil, err
	}
	var natoms int32
	if err := binary.Read(r, order, &natoms); err != nil {
		return nil, ErrTruncatedDCD
	}
	if natoms <= 0 {
		return nil, fmt.Errorf("%w: %d atoms", ErrNotDCD, natoms)
	}
	if err := expectMarker(r, order, 4); err != nil {
		return nil, err
	}

	var frames []Frame
	coords := make([]float32, natoms)
	for {
		var frame Frame

		if hasCell {
			m, err := readMarker(r, order)
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, err
			}
			if m != 48 {
				return nil, fmt.Errorf("%w: unit cell record of %d bytes", ErrNotDCD, m)
			}
			// XTL layout: (a, gamma, b, beta, alpha, c), lengths in Angstrom.
			var cell [6]float64
			if err := binary.Read(r, order, &cell); err != nil {
				return nil, ErrTruncatedDCD
			}
			if err := expectMarker(r, order, 48); err != nil {
				return nil, err
			}
			frame.Box = [3]float64{
				cell[0] / angstromPerNm,
				cell[2] / angstromPerNm,
				cell[5] / angstromPerNm,
			}
		}

		frame.Positions = make([]Vec3, natoms)
		done := false
		for axis := 0; axis < 3; axis++ {
			m, err := readMarker(r, order)
			if err != nil {
				if axis == 0 && !hasCell && errors.Is(err, io.EOF) {
					done = true
					break
				}
				return nil, err
			}
			if m != uint32(natoms)*4 {
				return nil, fmt.Errorf("%w: coordinate record of %d bytes for %d atoms", ErrNotDCD, m, natoms)
			}
			if err := binary.Read(r, order, coords); err != nil {
				return nil, ErrTruncatedDCD
			}
			if err := expectMarker(r, order, m); err != nil {
				return nil, err
			}
			for i, v := range coords {
				switch axis {
				case 0:
					frame.Positions[i].X = float64(v) / angstromPerNm
				case 1:
					frame.Positions[i].Y = float64(v) / angstromPerNm
				case 2:
					frame.Positions[i].Z = float64(v) / angstromPerNm
				}
			}
		}
		if done {
			break
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

func readMarker(r io.Reader, order binary.ByteOrder) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, io.EOF
		}
		return 0, ErrTruncatedDCD
	}
	return order.Uint32(buf[:]), nil
}

func expectMarker(r io.Reader, order binary.ByteOrder, want uint32) error {
	got, err := readMarker(r, order)
	if err != nil {
		return ErrTruncatedDCD
	}
	if got != want {
		return fmt.Errorf("%w: record marker %d, want %d", ErrNotDCD, got, want)
	}
	return nil
}

// WriteDCD writes frames as a little-endian CHARMM DCD. All frames must
// share the particle count of the first; the unit cell record is emitted
// when the first frame is periodic.
func WriteDCD(path string, frames []Frame) error {
	if len(frames) == 0 {
		return fmt.Errorf("traj: no frames to write")
	}
	natoms := len(frames[0].Positions)
	hasCell := frames[0].Periodic()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	order := binary.LittleEndian
	w := func(v any) error { return binary.Write(f, order, v) }
	rec := func(payload func() error, size uint32) error {
		if err := w(size); err != nil {
			return err
		}
		if err := payload(); err != nil {
			return err
		}
		return w(size)
	}

	var icntrl [20]int32
	icntrl[0] = int32(len(frames))
	icntrl[2] = 1
	icntrl[3] = int32(len(frames))
	if hasCell {
		icntrl[10] = 1
	}
	icntrl[19] = 24 // charmm version field; nonzero activates extensions

	err = rec(func() error {
		if _, err := f.Write([]byte(dcdMagic)); err != nil {
			return err
		}
		return w(icntrl)
	}, dcdHeaderSize)
	if err != nil {
		return err
	}

	title := make([]byte, 80)
	copy(title, []byte("written by polysim"))
	err = rec(func() error {
		if err := w(int32(1)); err != nil {
			return err
		}
		_, err := f.Write(title)
		return err
	}, 84)
	if err != nil {
		return err
	}

	if err := rec(func() error { return w(int32(natoms)) }, 4); err != nil {
		return err
	}

	coords := make([]float32, natoms)
	for fi := range frames {
		frame := &frames[fi]
		if len(frame.Positions) != natoms {
			return fmt.Errorf("traj: frame %d has %d atoms, want %d", fi, len(frame.Positions), natoms)
		}
		if hasCell {
			cell := [6]float64{
				frame.Box[0] * angstromPerNm, 90,
				frame.Box[1] * angstromPerNm, 90, 90,
				frame.Box[2] * angstromPerNm,
			}
			if err := rec(func() error { return w(cell) }, 48); err != nil {
				return err
			}
		}
		for axis := 0; axis < 3; axis++ {
			for i, p := range frame.Positions {
				var v float64
				switch axis {
				case 0:
					v = p.X
				case 1:
					v = p.Y
				case 2:
					v = p.Z
				}
				coords[i] = float32(v * angstromPerNm)
			}
			if err := rec(func() error { return w(coords) }, uint32(natoms)*4); err != nil {
				return err
			}
		}
	}
	return nil
}

// Wrap folds a position into the primary periodic image of box.
func Wrap(p Vec3, box [3]float64) Vec3 {
	wrap1 := func(x, l float64) float64 {
		if l <= 0 {
			return x
		}
		x = math.Mod(x, l)
		if x < 0 {
			x += l
		}
		return x
	}
	return Vec3{wrap1(p.X, box[0]), wrap1(p.Y, box[1]), wrap1(p.Z, box[2])}
}
