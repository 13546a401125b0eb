// Package aifx defines the shared manifest schema for AIFX containers.
package aifx

const (
	// ManifestFileName is the sole root-level configuration object of a container.
	ManifestFileName = "manifest.json"

	// VerificationTierSDA is the only supported verification tier.
	VerificationTierSDA = "SDA"

	// IntegrityAlgorithm is the fixed digest algorithm for all hashed files.
	IntegrityAlgorithm = "sha256"

	// ManifestHashModeCanonicalExcludesSelf names the self-hash rule: the
	// manifest digest is computed over canonical bytes with its own
	// hashed_files entry removed.
	ManifestHashModeCanonicalExcludesSelf = "canonical_excludes_self"
)

type Manifest struct {
	Aifx             Header            `json:"aifx"`
	Work             Work              `json:"work"`
	Creator          Creator           `json:"creator"`
	Mode             string            `json:"mode"`
	AIGenerated      any               `json:"ai_generated,omitempty"`
	VerificationTier string            `json:"verification_tier,omitempty"`
	Declaration      string            `json:"declaration,omitempty"`
	Video            map[string]any    `json:"video,omitempty"`
	Audio            map[string]any    `json:"audio,omitempty"`
	Image            map[string]any    `json:"image,omitempty"`
	MetadataRefs     map[string]string `json:"metadata_refs,omitempty"`
	Payload          *Payload          `json:"payload,omitempty"`
	Integrity        *Integrity        `json:"integrity,omitempty"`
}

// Payload points at the primary asset inside the container.
type Payload struct {
	Primary string `json:"primary"`
	Mime    string `json:"mime,omitempty"`
}

type Header struct {
	Format  string `json:"format,omitempty"`
	Version string `json:"version"`
}

type Work struct {
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
}

type Creator struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type Integrity struct {
	Algorithm        string                `json:"algorithm"`
	ManifestHashMode string                `json:"manifest_hash_mode"`
	HashedFiles      map[string]FileDigest `json:"hashed_files"`
}

type FileDigest struct {
	SHA256 string `json:"sha256"`
	Bytes  int64  `json:"bytes,omitempty"`
}

// AIGeneratedTrue reports whether ai_generated is the boolean literal true.
// Strings such as "true" never qualify.
func (m Manifest) AIGeneratedTrue() bool {
	value, ok := m.AIGenerated.(bool)
	return ok && value
}
