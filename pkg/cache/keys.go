package cache

// KeyTypeArtifact is the key type reported to cache hooks for artifacts.
const KeyTypeArtifact = "artifact"

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendering of a document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the export settings that change the artifact bytes.
// The filename timestamp is not part of the key.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Background string  `json:"background,omitempty"`
	Padding    float64 `json:"padding,omitempty"`
	PixelRatio float64 `json:"pixel_ratio,omitempty"`
	Engine     string  `json:"engine,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the document hash together with the options.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
