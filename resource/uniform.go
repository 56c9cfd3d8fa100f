// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/scenegraph"
)

var (
	// ErrUnknownEntry is returned when setting an entry that was never added.
	ErrUnknownEntry = errors.New("resource: unknown uniform entry")

	// ErrDuplicateEntry is returned when adding an entry name twice.
	ErrDuplicateEntry = errors.New("resource: duplicate uniform entry")

	// ErrTypeMismatch is returned when a value does not fit the entry type.
	ErrTypeMismatch = errors.New("resource: uniform type mismatch")

	// ErrLayoutFrozen is returned when adding entries after the first write.
	ErrLayoutFrozen = errors.New("resource: uniform layout frozen")

	// ErrNilDevice is returned when sending without a device.
	ErrNilDevice = errors.New("resource: nil device")
)

// EntryType is a WGSL uniform member type.
type EntryType uint8

// Supported member types.
const (
	F32 EntryType = iota
	U32
	I32
	Vec2F32
	Vec4F32
	Mat4x4F32
)

var entryInfo = [...]struct {
	wgsl       string
	size       int
	align      int
	components int
}{
	F32:       {"f32", 4, 4, 1},
	U32:       {"u32", 4, 4, 1},
	I32:       {"i32", 4, 4, 1},
	Vec2F32:   {"vec2<f32>", 8, 8, 2},
	Vec4F32:   {"vec4<f32>", 16, 16, 4},
	Mat4x4F32: {"mat4x4<f32>", 64, 16, 16},
}

func (t EntryType) String() string {
	if int(t) < len(entryInfo) {
		return entryInfo[t].wgsl
	}
	return fmt.Sprintf("EntryType(%d)", uint8(t))
}

type uniformEntry struct {
	name   string
	typ    EntryType
	offset int
}

// UniformBuffer is a CPU copy of a WGSL uniform block.
//
// Entries are laid out in declaration order with WGSL uniform address
// space alignment. The layout is frozen by the first Set call. Setters
// mark the block modified only when the stored bytes change, and
// SendIfNeeded uploads only when the block was modified after the last
// send.
type UniformBuffer struct {
	label   string
	entries []uniformEntry
	byName  map[string]int
	data    []byte
	frozen  bool

	stamp       scenegraph.Stamp
	sendVersion scenegraph.Version
	buffer      Buffer
	sends       int
}

// NewUniformBuffer returns an empty block named label.
func NewUniformBuffer(label string) *UniformBuffer {
	return &UniformBuffer{label: label, byName: make(map[string]int)}
}

// Label returns the block name.
func (u *UniformBuffer) Label() string { return u.label }

// AddEntry appends a member.
func (u *UniformBuffer) AddEntry(name string, typ EntryType) error {
	if u.frozen {
		return fmt.Errorf("%w: %s.%s", ErrLayoutFrozen, u.label, name)
	}
	if _, ok := u.byName[name]; ok {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateEntry, u.label, name)
	}
	if int(typ) >= len(entryInfo) {
		return fmt.Errorf("%w: %s.%s has type %v", ErrTypeMismatch, u.label, name, typ)
	}
	offset := 0
	if n := len(u.entries); n > 0 {
		last := u.entries[n-1]
		offset = last.offset + entryInfo[last.typ].size
	}
	offset = alignUp(offset, entryInfo[typ].align)
	u.byName[name] = len(u.entries)
	u.entries = append(u.entries, uniformEntry{name: name, typ: typ, offset: offset})
	return nil
}

// MustAddEntries adds the given members and panics on a layout error. It
// is meant for blocks declared once at construction.
func (u *UniformBuffer) MustAddEntries(entries ...Entry) *UniformBuffer {
	for _, e := range entries {
		if err := u.AddEntry(e.Name, e.Type); err != nil {
			panic(err)
		}
	}
	return u
}

// Entry names a member for MustAddEntries.
type Entry struct {
	Name string
	Type EntryType
}

// Size returns the block size in bytes, a multiple of 16.
func (u *UniformBuffer) Size() int {
	if len(u.entries) == 0 {
		return 16
	}
	last := u.entries[len(u.entries)-1]
	return alignUp(last.offset+entryInfo[last.typ].size, 16)
}

// Offset returns the byte offset of the named member.
func (u *UniformBuffer) Offset(name string) (int, bool) {
	i, ok := u.byName[name]
	if !ok {
		return 0, false
	}
	return u.entries[i].offset, true
}

// Bytes returns the CPU copy of the block. The slice must not be modified.
func (u *UniformBuffer) Bytes() []byte {
	u.freeze()
	return u.data
}

func (u *UniformBuffer) freeze() {
	if u.frozen {
		return
	}
	u.frozen = true
	u.data = make([]byte, u.Size())
	u.stamp.Modified()
}

func (u *UniformBuffer) lookup(name string, want EntryType) (uniformEntry, error) {
	i, ok := u.byName[name]
	if !ok {
		return uniformEntry{}, fmt.Errorf("%w: %s.%s", ErrUnknownEntry, u.label, name)
	}
	e := u.entries[i]
	if e.typ != want {
		return uniformEntry{}, fmt.Errorf("%w: %s.%s is %v, not %v", ErrTypeMismatch, u.label, name, e.typ, want)
	}
	return e, nil
}

func (u *UniformBuffer) write(offset int, b []byte) {
	u.freeze()
	dst := u.data[offset : offset+len(b)]
	if bytes.Equal(dst, b) {
		return
	}
	copy(dst, b)
	u.stamp.Modified()
}

// SetFloat32 sets an f32 member.
func (u *UniformBuffer) SetFloat32(name string, v float32) error {
	e, err := u.lookup(name, F32)
	if err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	u.write(e.offset, b[:])
	return nil
}

// SetUint32 sets a u32 member.
func (u *UniformBuffer) SetUint32(name string, v uint32) error {
	e, err := u.lookup(name, U32)
	if err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	u.write(e.offset, b[:])
	return nil
}

// SetInt32 sets an i32 member.
func (u *UniformBuffer) SetInt32(name string, v int32) error {
	e, err := u.lookup(name, I32)
	if err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	u.write(e.offset, b[:])
	return nil
}

// SetBool sets a u32 member to 1 or 0.
func (u *UniformBuffer) SetBool(name string, v bool) error {
	var x uint32
	if v {
		x = 1
	}
	return u.SetUint32(name, x)
}

// SetArray sets a float member from exactly as many values as it has
// components.
func (u *UniformBuffer) SetArray(name string, values []float32) error {
	i, ok := u.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownEntry, u.label, name)
	}
	e := u.entries[i]
	if e.typ == U32 || e.typ == I32 || entryInfo[e.typ].components != len(values) {
		return fmt.Errorf("%w: %s.%s is %v, got %d floats", ErrTypeMismatch, u.label, name, e.typ, len(values))
	}
	b := make([]byte, 4*len(values))
	for k, v := range values {
		binary.LittleEndian.PutUint32(b[4*k:], math.Float32bits(v))
	}
	u.write(e.offset, b)
	return nil
}

// SetVec4 sets a vec4<f32> member from float64 components.
func (u *UniformBuffer) SetVec4(name string, v [4]float64) error {
	return u.SetArray(name, []float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])})
}

// SetMat4 sets a mat4x4<f32> member.
func (u *UniformBuffer) SetMat4(name string, m mgl64.Mat4) error {
	return u.SetArray(name, Mat4ToFloat32(m))
}

// Version returns the version of the last change to the block contents.
func (u *UniformBuffer) Version() scenegraph.Version { return u.stamp.Version() }

// SendVersion returns the version of the last upload, 0 if never sent.
func (u *UniformBuffer) SendVersion() scenegraph.Version { return u.sendVersion }

// Sends returns how many uploads the block has issued.
func (u *UniformBuffer) Sends() int { return u.sends }

// Buffer returns the device buffer, nil before the first send.
func (u *UniformBuffer) Buffer() Buffer { return u.buffer }

// NeedsSend reports whether the contents changed since the last upload.
func (u *UniformBuffer) NeedsSend() bool {
	u.freeze()
	return u.buffer == nil || Stale(u.sendVersion, u.stamp.Version())
}

// SendIfNeeded uploads the block to dev when it changed since the last
// upload, creating the device buffer on first use. It reports whether an
// upload happened.
func (u *UniformBuffer) SendIfNeeded(dev Device) (bool, error) {
	if !u.NeedsSend() {
		return false, nil
	}
	if dev == nil {
		return false, ErrNilDevice
	}
	if u.buffer == nil {
		buf, err := dev.CreateBuffer(&BufferDescriptor{
			Label: u.label,
			Size:  uint64(len(u.data)),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return false, fmt.Errorf("resource: create %s: %w", u.label, err)
		}
		u.buffer = buf
	}
	if err := dev.WriteBuffer(u.buffer, 0, u.data); err != nil {
		return false, fmt.Errorf("resource: write %s: %w", u.label, err)
	}
	u.sendVersion = scenegraph.NextVersion()
	u.sends++
	return true, nil
}

// Release destroys the device buffer. The next SendIfNeeded recreates it.
func (u *UniformBuffer) Release(dev Device) {
	if u.buffer != nil && dev != nil {
		dev.DestroyBuffer(u.buffer)
	}
	u.buffer = nil
	u.sendVersion = 0
}

// WGSL returns the struct declaration and binding for the block, for
// example:
//
//	struct mapperUBOStruct {
//	  BackgroundColor: vec4<f32>,
//	};
//	@binding(0) @group(0) var<uniform> mapperUBO: mapperUBOStruct;
func (u *UniformBuffer) WGSL(group, binding int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "struct %sStruct {\n", u.label)
	for _, e := range u.entries {
		fmt.Fprintf(&sb, "  %s: %s,\n", e.name, e.typ)
	}
	sb.WriteString("};\n")
	fmt.Fprintf(&sb, "@binding(%d) @group(%d) var<uniform> %s: %sStruct;\n", binding, group, u.label, u.label)
	return sb.String()
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
