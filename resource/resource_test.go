// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/scenegraph"
)

type fakeBuffer struct {
	label string
	data  []byte
}

func (b *fakeBuffer) Label() string { return b.label }
func (b *fakeBuffer) Size() uint64  { return uint64(len(b.data)) }

type fakeDevice struct {
	creates   int
	writes    int
	destroys  int
	lastUsage gputypes.BufferUsage
	failWrite error
}

func (d *fakeDevice) CreateBuffer(desc *BufferDescriptor) (Buffer, error) {
	d.creates++
	d.lastUsage = desc.Usage
	return &fakeBuffer{label: desc.Label, data: make([]byte, desc.Size)}, nil
}

func (d *fakeDevice) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	if d.failWrite != nil {
		return d.failWrite
	}
	d.writes++
	copy(buf.(*fakeBuffer).data[offset:], data)
	return nil
}

func (d *fakeDevice) DestroyBuffer(Buffer) { d.destroys++ }

func newTestUBO(t *testing.T) *UniformBuffer {
	t.Helper()
	u := NewUniformBuffer("testUBO")
	for _, e := range []Entry{
		{"Scale", F32},
		{"Size", Vec2F32},
		{"Flag", U32},
		{"Color", Vec4F32},
		{"Model", Mat4x4F32},
	} {
		if err := u.AddEntry(e.Name, e.Type); err != nil {
			t.Fatalf("AddEntry(%s) error = %v", e.Name, err)
		}
	}
	return u
}

func TestUniformLayout(t *testing.T) {
	u := newTestUBO(t)
	tests := []struct {
		name   string
		offset int
	}{
		{"Scale", 0},
		{"Size", 8},
		{"Flag", 16},
		{"Color", 32},
		{"Model", 48},
	}
	for _, tt := range tests {
		got, ok := u.Offset(tt.name)
		if !ok || got != tt.offset {
			t.Errorf("Offset(%s) = %d, %v, want %d", tt.name, got, ok, tt.offset)
		}
	}
	if got := u.Size(); got != 112 {
		t.Errorf("Size() = %d, want 112", got)
	}
}

func TestUniformSendDeduplicates(t *testing.T) {
	u := newTestUBO(t)
	dev := &fakeDevice{}
	if err := u.SetFloat32("Scale", 2); err != nil {
		t.Fatal(err)
	}

	sent, err := u.SendIfNeeded(dev)
	if err != nil || !sent {
		t.Fatalf("first SendIfNeeded() = %v, %v, want true, nil", sent, err)
	}
	sent, err = u.SendIfNeeded(dev)
	if err != nil || sent {
		t.Fatalf("second SendIfNeeded() = %v, %v, want false, nil", sent, err)
	}
	if dev.creates != 1 || dev.writes != 1 {
		t.Errorf("creates = %d, writes = %d, want 1, 1", dev.creates, dev.writes)
	}
	if dev.lastUsage != gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst {
		t.Errorf("usage = %v", dev.lastUsage)
	}
}

func TestUniformSameValueIsNotDirty(t *testing.T) {
	u := newTestUBO(t)
	dev := &fakeDevice{}
	_ = u.SetVec4("Color", [4]float64{1, 0, 0, 1})
	if _, err := u.SendIfNeeded(dev); err != nil {
		t.Fatal(err)
	}
	v := u.Version()

	_ = u.SetVec4("Color", [4]float64{1, 0, 0, 1})
	if u.Version() != v {
		t.Error("setting an identical value modified the block")
	}
	if sent, _ := u.SendIfNeeded(dev); sent {
		t.Error("SendIfNeeded() after identical set = true")
	}

	_ = u.SetVec4("Color", [4]float64{0, 1, 0, 1})
	if sent, _ := u.SendIfNeeded(dev); !sent {
		t.Error("SendIfNeeded() after change = false")
	}
	if dev.writes != 2 {
		t.Errorf("writes = %d, want 2", dev.writes)
	}
	if !u.SendVersion().NewerThan(u.Version()) {
		t.Errorf("SendVersion() = %d, want > Version() %d", u.SendVersion(), u.Version())
	}
}

func TestUniformBytes(t *testing.T) {
	u := newTestUBO(t)
	_ = u.SetFloat32("Scale", 1.5)
	_ = u.SetBool("Flag", true)
	_ = u.SetMat4("Model", mgl64.Translate3D(1, 2, 3))

	b := u.Bytes()
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[0:])); got != 1.5 {
		t.Errorf("Scale = %v, want 1.5", got)
	}
	if got := binary.LittleEndian.Uint32(b[16:]); got != 1 {
		t.Errorf("Flag = %d, want 1", got)
	}
	// Column major: translation lives in elements 12..14.
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[48+4*13:])); got != 2 {
		t.Errorf("Model[13] = %v, want 2", got)
	}
}

func TestUniformErrors(t *testing.T) {
	u := newTestUBO(t)
	if err := u.SetFloat32("Missing", 1); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("SetFloat32(Missing) error = %v, want ErrUnknownEntry", err)
	}
	if err := u.SetUint32("Scale", 1); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("SetUint32(Scale) error = %v, want ErrTypeMismatch", err)
	}
	if err := u.SetArray("Size", []float32{1, 2, 3}); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("SetArray(Size, 3 floats) error = %v, want ErrTypeMismatch", err)
	}
	if err := u.AddEntry("Scale", F32); !errors.Is(err, ErrLayoutFrozen) {
		t.Errorf("AddEntry after set error = %v, want ErrLayoutFrozen", err)
	}
	fresh := NewUniformBuffer("x")
	_ = fresh.AddEntry("A", F32)
	if err := fresh.AddEntry("A", F32); !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("duplicate AddEntry error = %v, want ErrDuplicateEntry", err)
	}
	if _, err := fresh.SendIfNeeded(nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("SendIfNeeded(nil) error = %v, want ErrNilDevice", err)
	}
}

func TestUniformWriteFailureRetries(t *testing.T) {
	u := newTestUBO(t)
	dev := &fakeDevice{failWrite: errors.New("lost")}
	if _, err := u.SendIfNeeded(dev); err == nil {
		t.Fatal("SendIfNeeded() error = nil, want failure")
	}
	dev.failWrite = nil
	if sent, err := u.SendIfNeeded(dev); err != nil || !sent {
		t.Errorf("SendIfNeeded() after failure = %v, %v, want true, nil", sent, err)
	}
	if dev.creates != 1 {
		t.Errorf("creates = %d, want 1", dev.creates)
	}
}

func TestUniformRelease(t *testing.T) {
	u := newTestUBO(t)
	dev := &fakeDevice{}
	_, _ = u.SendIfNeeded(dev)
	u.Release(dev)
	if dev.destroys != 1 || u.Buffer() != nil || u.SendVersion() != 0 {
		t.Errorf("Release() left buffer=%v sendVersion=%d destroys=%d", u.Buffer(), u.SendVersion(), dev.destroys)
	}
	if sent, _ := u.SendIfNeeded(dev); !sent {
		t.Error("SendIfNeeded() after Release = false")
	}
}

func TestUniformWGSL(t *testing.T) {
	u := NewUniformBuffer("mapperUBO").MustAddEntries(Entry{"BackgroundColor", Vec4F32})
	got := u.WGSL(0, 0)
	for _, want := range []string{
		"struct mapperUBOStruct {",
		"BackgroundColor: vec4<f32>,",
		"var<uniform> mapperUBO: mapperUBOStruct;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("WGSL() missing %q:\n%s", want, got)
		}
	}
}

func TestStale(t *testing.T) {
	tests := []struct {
		last    scenegraph.Version
		watched []scenegraph.Version
		want    bool
	}{
		{5, []scenegraph.Version{3, 4}, false},
		{5, []scenegraph.Version{3, 5}, false},
		{5, []scenegraph.Version{3, 6}, true},
		{0, nil, false},
	}
	for _, tt := range tests {
		if got := Stale(tt.last, tt.watched...); got != tt.want {
			t.Errorf("Stale(%d, %v) = %v, want %v", tt.last, tt.watched, got, tt.want)
		}
	}
}

type fakeTransform struct {
	m mgl64.Mat4
}

func (f *fakeTransform) ComputeMatrix()     {}
func (f *fakeTransform) Matrix() mgl64.Mat4 { return f.m }
func (f *fakeTransform) IsIdentity() bool   { return f.m == mgl64.Ident4() }

func TestKeyMatricesSyncIfStale(t *testing.T) {
	var stamp scenegraph.Stamp
	stamp.Modified()
	src := &fakeTransform{m: mgl64.Ident4()}
	var k KeyMatrices

	if !k.SyncIfStale(src, stamp.Version()) {
		t.Fatal("first SyncIfStale() = false")
	}
	if k.Normal != mgl64.Ident3() {
		t.Errorf("identity Normal = %v", k.Normal)
	}
	if k.SyncIfStale(src, stamp.Version()) {
		t.Error("SyncIfStale() without change = true")
	}

	src.m = mgl64.Scale3D(2, 2, 2)
	stamp.Modified()
	if !k.SyncIfStale(src, stamp.Version()) {
		t.Fatal("SyncIfStale() after change = false")
	}
	want := mgl64.Mat3{0.5, 0, 0, 0, 0.5, 0, 0, 0, 0.5}
	if !k.Normal.ApproxEqual(want) {
		t.Errorf("Normal = %v, want %v", k.Normal, want)
	}
}

func TestKeyMatricesStabilized(t *testing.T) {
	src := &fakeTransform{m: mgl64.Translate3D(1000, 0, 0)}
	var k KeyMatrices
	k.SyncStabilized(src, mgl64.Vec3{990, 0, 0}, scenegraph.NextVersion())

	p := k.MCSC.Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	if !p.ApproxEqual(mgl64.Vec4{10, 0, 0, 1}) {
		t.Errorf("MCSC * origin = %v, want (10,0,0,1)", p)
	}
}

func TestNormalMatrixSingular(t *testing.T) {
	if got := NormalMatrix(mgl64.Scale3D(0, 1, 1)); got != mgl64.Ident3() {
		t.Errorf("NormalMatrix(singular) = %v, want identity", got)
	}
}

func TestKeyMatricesColumnMajor(t *testing.T) {
	m := mgl64.Translate3D(1, 2, 3)
	src := &fakeTransform{m: m}
	var k KeyMatrices
	k.SyncIfStale(src, scenegraph.NextVersion())
	if k.MCWC != m {
		t.Fatalf("MCWC = %v, want the source matrix untransposed", k.MCWC)
	}
	// WGSL reads mat4x4 column by column; the translation is column 3.
	got := Mat4ToFloat32(k.MCWC)
	if got[12] != 1 || got[13] != 2 || got[14] != 3 || got[3] != 0 {
		t.Errorf("uploaded matrix = %v", got)
	}
}
