package config

import (
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
)

// Watch reloads the config file whenever it changes and hands every
// successfully loaded configuration to onChange. Invalid edits are logged and
// skipped so the previous configuration stays in effect.
func Watch(configFilePath string, onChange func(*Configuration)) error {
	err := file.Provider(configFilePath).Watch(func(event interface{}, err error) {
		if err != nil {
			log.WithError(err).Warn("Config watch error")
			return
		}

		_, cfg, err := Load(configFilePath)
		if err != nil {
			log.WithError(err).Error("Failed reloading config, keeping previous")
			return
		}

		log.Infof("Reloaded config: %s", configFilePath)
		onChange(cfg)
	})
	if err != nil {
		return errors.Wrapf(err, "watch config file %s", configFilePath)
	}

	return nil
}
