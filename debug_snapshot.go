// debug_snapshot.go - Machine state snapshot for save/load

package main

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// File layout: the magic and a version byte in the clear, then one gzip
// stream with the CPU name, the register table and the two payloads.
// Strings are length-prefixed with a byte, payloads with a uint32.
const (
	snapshotMagic   = "C8MS"
	snapshotVersion = 1
)

// MachineSnapshot is a full copy of the machine: registers, RAM and both
// display grids (logical pixels then phosphor, one byte per pixel).
type MachineSnapshot struct {
	CPUType   string
	Registers []RegisterInfo
	Memory    []byte
	Video     []byte
}

func TakeSnapshot(cpu *Chip8CPU) *MachineSnapshot {
	video := make([]byte, 2*C8_DISPLAY_PIXELS)
	for i, on := range cpu.display.pixels {
		if on {
			video[i] = 1
		}
	}
	copy(video[C8_DISPLAY_PIXELS:], cpu.display.phosphor[:])

	return &MachineSnapshot{
		CPUType:   cpu.CPUName(),
		Registers: cpu.GetRegisters(),
		Memory:    cpu.ReadMemory(0, C8_MEMORY_SIZE),
		Video:     video,
	}
}

// RestoreSnapshot puts the machine back into the captured state. Any
// pending key wait is cancelled. The registers are checked against a
// scratch machine first, so a rejected snapshot leaves cpu untouched.
func RestoreSnapshot(cpu *Chip8CPU, snap *MachineSnapshot) error {
	if snap.CPUType != cpu.CPUName() {
		return fmt.Errorf("snapshot is for %q, not %q", snap.CPUType, cpu.CPUName())
	}
	if len(snap.Memory) != C8_MEMORY_SIZE || len(snap.Video) != 2*C8_DISPLAY_PIXELS {
		return fmt.Errorf("snapshot size mismatch: memory=%d video=%d", len(snap.Memory), len(snap.Video))
	}
	scratch := NewChip8CPU(cpu.rng, cpu.display.config)
	for _, r := range snap.Registers {
		if !scratch.SetRegister(r.Name, r.Value) {
			return fmt.Errorf("snapshot register %s=0x%X rejected", r.Name, r.Value)
		}
	}
	for _, r := range snap.Registers {
		cpu.SetRegister(r.Name, r.Value)
	}
	cpu.WriteMemory(0, snap.Memory)
	for i := range cpu.display.pixels {
		cpu.display.pixels[i] = snap.Video[i] != 0
	}
	copy(cpu.display.phosphor[:], snap.Video[C8_DISPLAY_PIXELS:])
	cpu.input.CancelKeyWait()
	return nil
}

// snapshotEncoder keeps the first write error and turns later writes
// into no-ops.
type snapshotEncoder struct {
	w   io.Writer
	err error
}

func (e *snapshotEncoder) write(v any) {
	if e.err == nil {
		e.err = binary.Write(e.w, binary.LittleEndian, v)
	}
}

func (e *snapshotEncoder) str(s string) {
	e.write(uint8(len(s)))
	e.write([]byte(s))
}

func (e *snapshotEncoder) blob(b []byte) {
	e.write(uint32(len(b)))
	e.write(b)
}

// WriteSnapshot encodes snap onto w.
func WriteSnapshot(w io.Writer, snap *MachineSnapshot) error {
	if _, err := io.WriteString(w, snapshotMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{snapshotVersion}); err != nil {
		return err
	}

	gz := gzip.NewWriter(w)
	enc := &snapshotEncoder{w: gz}
	enc.str(snap.CPUType)
	enc.write(uint16(len(snap.Registers)))
	for _, r := range snap.Registers {
		enc.str(r.Name)
		enc.write(r.Value)
		enc.write(uint8(r.BitWidth))
	}
	enc.blob(snap.Memory)
	enc.blob(snap.Video)
	if enc.err != nil {
		return fmt.Errorf("encoding snapshot: %w", enc.err)
	}
	return gz.Close()
}

type snapshotDecoder struct {
	r   io.Reader
	err error
}

func (d *snapshotDecoder) read(v any) {
	if d.err == nil {
		d.err = binary.Read(d.r, binary.LittleEndian, v)
	}
}

func (d *snapshotDecoder) str() string {
	var n uint8
	d.read(&n)
	if d.err != nil {
		return ""
	}
	b := make([]byte, n)
	d.read(b)
	return string(b)
}

func (d *snapshotDecoder) blob(limit int) []byte {
	var n uint32
	d.read(&n)
	if d.err != nil {
		return nil
	}
	if int(n) > limit {
		d.err = fmt.Errorf("payload of %d bytes exceeds %d", n, limit)
		return nil
	}
	b := make([]byte, n)
	d.read(b)
	return b
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot. Sizes are only
// bounded here; RestoreSnapshot checks they match the machine.
func ReadSnapshot(r io.Reader) (*MachineSnapshot, error) {
	var header [len(snapshotMagic) + 1]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if magic := string(header[:len(snapshotMagic)]); magic != snapshotMagic {
		return nil, fmt.Errorf("invalid snapshot magic: %q", magic)
	}
	if v := header[len(snapshotMagic)]; v != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version: %d", v)
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening gzip reader: %w", err)
	}
	defer gz.Close()

	dec := &snapshotDecoder{r: gz}
	snap := &MachineSnapshot{CPUType: dec.str()}
	var count uint16
	dec.read(&count)
	for i := 0; i < int(count) && dec.err == nil; i++ {
		reg := RegisterInfo{Name: dec.str()}
		var width uint8
		dec.read(&reg.Value)
		dec.read(&width)
		reg.BitWidth = int(width)
		snap.Registers = append(snap.Registers, reg)
	}
	snap.Memory = dec.blob(C8_MEMORY_SIZE)
	snap.Video = dec.blob(2 * C8_DISPLAY_PIXELS)
	if dec.err != nil {
		if errors.Is(dec.err, io.EOF) {
			dec.err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("decoding snapshot: %w", dec.err)
	}
	return snap, nil
}

func SaveSnapshotToFile(snap *MachineSnapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := WriteSnapshot(bw, snap); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadSnapshotFromFile(path string) (*MachineSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(bufio.NewReader(f))
}
