package backend

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

type AppConfig struct {
	LastLaunchedVersion string
	LastPlaylistID      string
}

type LocalLibraryConfig struct {
	MusicDir string
}

type PlaybackConfig struct {
	Volume int
}

type Config struct {
	Application  AppConfig
	LocalLibrary LocalLibraryConfig
	Playback     PlaybackConfig
}

func DefaultConfig(appVersionTag string) *Config {
	return &Config{
		Application: AppConfig{
			LastLaunchedVersion: appVersionTag,
		},
		Playback: PlaybackConfig{
			Volume: 100,
		},
	}
}

func ReadConfigFile(filepath, appVersionTag string) (*Config, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := DefaultConfig(appVersionTag)
	if err := toml.NewDecoder(f).Decode(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) WriteConfigFile(filepath string) error {
	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, b, 0644)
}
