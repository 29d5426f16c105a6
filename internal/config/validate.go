package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAdmission(); err != nil {
		return err
	}
	if err := c.validateOpenSubtitles(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateAdmission() error {
	a := c.Admission
	if a.LowRemaining >= a.ModerateRemaining || a.ModerateRemaining >= a.PlentyRemaining {
		return fmt.Errorf("admission buckets must descend: plenty_remaining (%d) > moderate_remaining (%d) > low_remaining (%d)",
			a.PlentyRemaining, a.ModerateRemaining, a.LowRemaining)
	}
	if a.ModeratePopularity >= a.LowPopularity || a.LowPopularity >= a.EmergencyPopularity {
		return fmt.Errorf("admission popularity thresholds must ascend: moderate_popularity (%d) < low_popularity (%d) < emergency_popularity (%d)",
			a.ModeratePopularity, a.LowPopularity, a.EmergencyPopularity)
	}
	return nil
}

func (c *Config) validateOpenSubtitles() error {
	if !c.OpenSubtitles.Enabled {
		return nil
	}
	// An enabled provider without an API key is tolerated: the remote-fetch
	// stage is skipped and the pipeline runs cache+fallback only. The daemon
	// logs the degraded mode at startup.
	return nil
}
