package tui

// Theme captures optional formatting hints the runner can apply when printing
// messages. Keep minimal to avoid coupling walk logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}
