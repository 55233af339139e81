package config

// HookConfig describes the command run after a sample is written.
type HookConfig struct {
	Command    string            `toml:"command"` // empty disables the hook
	Args       []string          `toml:"args"`
	TimeoutSec float64           `toml:"timeout_sec"`
	Env        map[string]string `toml:"env"`
}
