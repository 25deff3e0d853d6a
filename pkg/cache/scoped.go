package cache

// ScopedKeyer prefixes every key of an inner Keyer. The preview server
// uses it to keep its entries apart from those written by the CLI when
// both share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) DocumentKey(sourceHash, format string) string {
	return k.prefix + k.inner.DocumentKey(sourceHash, format)
}

func (k *ScopedKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(documentHash, opts)
}
