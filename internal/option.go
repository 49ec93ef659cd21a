package internal

// Option configures the Murmur service before Run starts it.
type Option func(*application)

type application struct {
	config *Config
}

// WithConfig supplies the loaded configuration. Run fails without it.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}
