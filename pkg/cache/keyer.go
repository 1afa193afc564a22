package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered artifact of the tiling
	// whose content hash is tilingHash.
	ArtifactKey(tilingHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	CellSize      float64 `json:"cell_size,omitempty"`
	GridLines     bool    `json:"grid_lines,omitempty"`
	CallTreeDepth int     `json:"call_tree_depth,omitempty"`
	Palette       string  `json:"palette,omitempty"`
	Seed          uint64  `json:"seed,omitempty"`
}

// KeyTypeArtifact is the key type reported to cache hooks for artifacts.
const KeyTypeArtifact = "artifact"

// DefaultKeyer builds unprefixed keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes tilingHash together with opts.
func (DefaultKeyer) ArtifactKey(tilingHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, tilingHash, opts)
}
