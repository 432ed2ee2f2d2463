package articlecmd

// FeatureGates exposes runtime feature toggles required by article command handlers.
// Callers should supply closures that read from article.Config.Features so handlers
// stay decoupled from configuration while honouring feature flags.
type FeatureGates struct {
	StorageEnabled func() bool
	ExportEnabled  func() bool
}

func (g FeatureGates) storageEnabled() bool {
	if g.StorageEnabled == nil {
		return true
	}
	return g.StorageEnabled()
}

func (g FeatureGates) exportEnabled() bool {
	if g.ExportEnabled == nil {
		return true
	}
	return g.ExportEnabled()
}
