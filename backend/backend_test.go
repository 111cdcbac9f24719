package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/rfscope/backend/native"
	"github.com/gogpu/rfscope/render"
	"github.com/gogpu/rfscope/scope"
)

func TestSoftwareBackendName(t *testing.T) {
	b := NewSoftwareBackend()
	if b.Name() != "software" {
		t.Errorf("Name() = %q, want %q", b.Name(), "software")
	}
}

func TestSoftwareBackendInit(t *testing.T) {
	b := NewSoftwareBackend()
	if b.Device() != nil || b.Renderer() != nil {
		t.Fatal("Device() and Renderer() should be nil before Init")
	}
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	dev := b.SoftwareDevice()
	if dev == nil || b.Device() == nil || b.Renderer() == nil {
		t.Fatal("Init() left device or renderer nil")
	}
	if err := b.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if b.SoftwareDevice() != dev {
		t.Error("second Init() replaced the device")
	}
	if _, ok := b.Renderer().(render.CapableRenderer); !ok {
		t.Error("Renderer() does not report capabilities")
	}
	b.Close()
	if b.Device() != nil || b.Renderer() != nil {
		t.Error("Device() and Renderer() should be nil after Close")
	}
}

func TestSoftwareBackendDrawsDisplay(t *testing.T) {
	b := NewSoftwareBackend()
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer b.Close()

	d, err := scope.New(b.Device(), b.Renderer(), scope.WithSpectrumLength(64))
	if err != nil {
		t.Fatalf("scope.New() error = %v", err)
	}
	defer d.Release()

	target := render.NewPixmapTarget(200, 150)
	req := scope.DefaultRenderRequest(200, 150)
	req.Options = scope.OptLive
	req.Refresh()
	d.Draw(target, req)

	// The live trace sits on the dark blue backdrop.
	c := target.At(int(req.Spectrum.X0)+5, int(req.Spectrum.Y1)-5)
	if c.B == 0 {
		t.Errorf("At(inside spectrum) = %v, want backdrop blue", c)
	}
}

func TestRecorderBackend(t *testing.T) {
	b := NewRecorderBackend()
	if b.Name() != "recorder" {
		t.Errorf("Name() = %q, want %q", b.Name(), "recorder")
	}
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer b.Close()

	d, err := scope.New(b.Device(), b.Renderer(), scope.WithSpectrumLength(64))
	if err != nil {
		t.Fatalf("scope.New() error = %v", err)
	}
	defer d.Release()

	d.Draw(render.NewPixmapTarget(200, 150), scope.DefaultRenderRequest(200, 150))
	if got := b.Recorder().Flushes(); got != 1 {
		t.Errorf("Flushes() = %d, want 1", got)
	}
	if len(b.Recorder().Commands()) == 0 {
		t.Error("Commands() is empty, want recorded frame")
	}
}

func TestNativeBackendWithoutProvider(t *testing.T) {
	b := NewNativeBackend(render.NullDeviceHandle{})
	if b.Name() != "native" {
		t.Errorf("Name() = %q, want %q", b.Name(), "native")
	}
	err := b.Init()
	if !errors.Is(err, ErrBackendNotAvailable) || !errors.Is(err, native.ErrNoHALProvider) {
		t.Errorf("Init() error = %v, want ErrBackendNotAvailable and ErrNoHALProvider", err)
	}
	if b.Device() != nil || b.Renderer() != nil {
		t.Error("Device() and Renderer() should be nil after failed Init")
	}
	if _, ok := b.Handle().(render.NullDeviceHandle); !ok {
		t.Errorf("Handle() = %T, want render.NullDeviceHandle", b.Handle())
	}
	b.Close()
}

func TestRegistryRegisterAndGet(t *testing.T) {
	// CPU backends are auto-registered via init()
	for _, name := range []string{"software", "recorder"} {
		if !IsRegistered(name) {
			t.Errorf("%s backend should be auto-registered", name)
		}
		b := Get(name)
		if b == nil {
			t.Fatalf("Get(%s) returned nil", name)
		}
		if b.Name() != name {
			t.Errorf("Get(%s).Name() = %q, want %q", name, b.Name(), name)
		}
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	b := Get("nonexistent")
	if b != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailable(t *testing.T) {
	available := Available()
	want := map[string]bool{"software": false, "recorder": false}
	for _, name := range available {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Available() should include %q", name)
		}
	}
	for i := 1; i < len(available); i++ {
		if available[i-1] > available[i] {
			t.Errorf("Available() = %v, want sorted", available)
		}
	}
}

func TestRegistryDefault(t *testing.T) {
	b := Default()
	if b == nil {
		t.Fatal("Default() returned nil")
	}
	if b.Name() != "software" {
		t.Errorf("Default() = %q, want %q", b.Name(), "software")
	}
}

func TestRegistryMustDefault(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	b := MustDefault()
	if b == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryInitDefault(t *testing.T) {
	b, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	if b == nil {
		t.Fatal("InitDefault() returned nil backend")
	}
	defer b.Close()

	if b.Device() == nil || b.Renderer() == nil {
		t.Error("Backend from InitDefault() should be usable")
	}
}

func TestRegistryOpen(t *testing.T) {
	b, err := Open("recorder")
	if err != nil {
		t.Fatalf("Open(recorder) error = %v", err)
	}
	defer b.Close()
	if b.Renderer() == nil {
		t.Error("Open(recorder) returned an uninitialized backend")
	}

	if _, err := Open("nonexistent"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	testFactory := func() RenderBackend {
		return &SoftwareBackend{}
	}
	Register("test-backend", testFactory)

	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	Unregister("test-backend")

	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func TestRegistryIsRegistered(t *testing.T) {
	if !IsRegistered("software") {
		t.Error("software should be registered")
	}
	if IsRegistered("nonexistent") {
		t.Error("nonexistent should not be registered")
	}
}

func TestRegistryInitDefaultSkipsFailingBackend(t *testing.T) {
	Register(BackendNative, func() RenderBackend { return NewNativeBackend(render.NullDeviceHandle{}) })
	defer Unregister(BackendNative)

	if b := Default(); b == nil || b.Name() != BackendNative {
		t.Fatalf("Default() = %v, want native first", b)
	}
	b, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	defer b.Close()
	if b.Name() != BackendSoftware {
		t.Errorf("InitDefault() = %q, want %q", b.Name(), BackendSoftware)
	}
}

func TestRegistryInitDefaultNoneAvailable(t *testing.T) {
	Register(BackendNative, func() RenderBackend { return NewNativeBackend(render.NullDeviceHandle{}) })
	defer Unregister(BackendNative)
	Unregister(BackendSoftware)
	defer Register(BackendSoftware, func() RenderBackend { return &SoftwareBackend{} })
	Unregister(BackendRecorder)
	defer Register(BackendRecorder, func() RenderBackend { return &RecorderBackend{} })

	_, err := InitDefault()
	if !errors.Is(err, ErrBackendNotAvailable) || !errors.Is(err, native.ErrNoHALProvider) {
		t.Errorf("InitDefault() error = %v, want ErrBackendNotAvailable and ErrNoHALProvider", err)
	}
}
