// Package provenance carries the fixed Self-Declared Authorship texts.
package provenance

// SDATemplateID identifies the standardized declaration template.
const SDATemplateID = "AIFX-SDA-001"

// SDADeclaration is the standardized declaration text the packager embeds.
// Callers cannot override it; the validator only requires it to be present
// and non-empty.
const SDADeclaration = "I affirm that I directed the creation of this work using the AI tools listed in the provenance section. " +
	"I confirm that I exercised creative control over prompts, selection, arrangement, and final output. " +
	"I understand that this declaration represents Self-Declared Authorship (SDA) under the AIFX standard."
