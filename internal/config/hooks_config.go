package config

// setHooksDefaults installs default values for alert hook settings.
// hooks_dir is derived from config_dir in computeDirs.
func setHooksDefaults() {
	setDefault("hooks_failure_mode", "warn")
	setDefault("hooks_async", "true")
	setDefault("hooks_timeout", "30")
	setDefault("hooks_max_async", "10")
}

// registerHooksValidators registers validators for alert hook settings.
func registerHooksValidators() {
	RegisterValidator("hooks_failure_mode", EnumValidator(map[string]bool{
		"warn":   true,
		"ignore": true,
		"abort":  true,
	}))
	RegisterValidator("hooks_async", BoolValidator())
	RegisterValidator("hooks_timeout", PositiveIntValidator())
	RegisterValidator("hooks_max_async", PositiveIntValidator())
}
