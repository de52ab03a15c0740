package output

// ConfigPort reads settings from the process environment. Unparseable values
// fall back to the default.
type ConfigPort interface {
	Get(key string) string
	GetWithDefault(key string, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetInt(key string, defaultValue int) int
	GetFloat(key string, defaultValue float64) float64
	// Lookup returns the value of the first key that is set, for settings
	// with legacy aliases.
	Lookup(keys ...string) string
}
