package cache

// Keyer derives cache keys from request parameters.
type Keyer interface {
	// GraphKey identifies a built edge table.
	GraphKey(opts GraphKeyOpts) string
	// ArtifactKey identifies a rendered artifact of the table stored under
	// tableHash.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts holds every parameter that changes a built table.
type GraphKeyOpts struct {
	Mode             string `json:"mode"`
	Root             string `json:"root"`
	K                int64  `json:"k"`
	PredecessorCount int    `json:"predecessors"`
	IterationCount   int    `json:"iterations"`
	Pruning          int    `json:"pruning"`
	MaxOrder         int    `json:"max_order"`
}

// ArtifactKeyOpts holds every parameter that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Detailed  bool   `json:"detailed"`
	Ranks     bool   `json:"ranks"`
	Header    bool   `json:"header"`
	Iteration bool   `json:"iteration"`
}

// DefaultKeyer hashes the options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey returns "graph:<sha256>".
func (DefaultKeyer) GraphKey(opts GraphKeyOpts) string {
	return hashKey("graph", opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", tableHash, opts)
}
