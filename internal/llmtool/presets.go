package llmtool

// PromptPreset holds reusable constraints and rules for structured prompts.
type PromptPreset struct {
	Constraints []string
	Rules       []string
}

// ApplyPresets prepends preset constraints/rules to a structured prompt spec.
func ApplyPresets(spec StructuredPromptSpec, presets ...PromptPreset) StructuredPromptSpec {
	if len(presets) == 0 {
		return spec
	}
	var merged PromptPreset
	for _, p := range presets {
		merged.Constraints = append(merged.Constraints, p.Constraints...)
		merged.Rules = append(merged.Rules, p.Rules...)
	}
	spec.Constraints = append(merged.Constraints, spec.Constraints...)
	spec.Rules = append(merged.Rules, spec.Rules...)
	return spec
}

// PresetStrictJSON enforces strict JSON-only output.
func PresetStrictJSON() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Return strict JSON only.",
			"Match the schema exactly; no extra fields.",
			"No markdown, comments, or trailing commas outside JSON string values.",
		},
	}
}

// PresetGoSource asks for complete, compilable Go files.
func PresetGoSource() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"File content must be a complete Go source file starting with its package clause.",
			"Do not wrap file content in markdown fences.",
			"No placeholders such as TODO or '...' in place of code.",
		},
		Rules: []string{
			"Format code as gofmt would.",
			"Import only packages the file uses.",
			"Never import the package the file itself belongs to.",
		},
	}
}

// PresetNoInvent keeps the model on the provided names and paths.
func PresetNoInvent() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Do not invent file paths, package names, or type names; use only provided inputs.",
		},
	}
}
