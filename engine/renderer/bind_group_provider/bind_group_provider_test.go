package bind_group_provider

import "testing"

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("sprite_3")
	if p.Label() != "sprite_3" {
		t.Fatalf("Label:\nhave %q\nwant %q", p.Label(), "sprite_3")
	}
	if p.Initialized() {
		t.Fatal("Initialized: have true\nwant false")
	}
	if p.Buffer(0) != nil || p.TextureView(0) != nil || p.Sampler(1) != nil {
		t.Fatal("new provider holds GPU resources")
	}
	// Release on an empty provider is a no-op.
	p.Release()
	if p.IndexCount() != 0 {
		t.Fatalf("IndexCount:\nhave %d\nwant 0", p.IndexCount())
	}
}
