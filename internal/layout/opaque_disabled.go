//go:build nodnnl

package layout

// OpaqueSupported reports whether the DNNL opaque reorder is compiled in.
func OpaqueSupported() bool { return false }

// Opaque reports that no opaque-layout transformer is available in this build.
func (t *Transformer) Opaque() (OpaqueTransformer, bool) {
	return nil, false
}
