package encoder

import "github.com/AnyUserName/picpack/internal/codec"

// Registry maps container formats to encoders.
type Registry struct {
	encoders map[codec.Format]Encoder
}

// NewRegistry creates a registry with the built-in PNG and JPEG encoders.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[codec.Format]Encoder),
	}
	r.Register(&JPEGEncoder{})
	r.Register(&PNGEncoder{})
	return r
}

// Register adds or replaces the encoder for enc.Format().
func (r *Registry) Register(enc Encoder) {
	r.encoders[enc.Format()] = enc
}

// Get returns an encoder for the given format, or nil if unsupported.
func (r *Registry) Get(format codec.Format) Encoder {
	return r.encoders[format]
}

// Formats returns registered format names in a stable order.
func (r *Registry) Formats() []string {
	var result []string
	for _, f := range []codec.Format{codec.JPEG, codec.PNG} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f.String())
		}
	}
	return result
}
