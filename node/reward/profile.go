package reward

import "github.com/ardriveapp/astatine/config"

// ProfileFromConfig builds the emission profile described by the emission
// section of the configuration.
func ProfileFromConfig(cfg config.EmissionConfig) (*Profile, error) {
	return NewProfile(
		cfg.Period,
		cfg.TickInterval,
		cfg.InitialRate,
		cfg.DecayConstant,
	)
}
