package backend

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"

	"github.com/20after4/configdir"

	"github.com/wayfarer-player/wayfarer/backend/library"
	"github.com/wayfarer-player/wayfarer/backend/localdb"
	"github.com/wayfarer-player/wayfarer/backend/player"
	beepplayer "github.com/wayfarer-player/wayfarer/backend/player/beep"
	"github.com/wayfarer-player/wayfarer/backend/scanner"
)

const (
	configFile   = "config.toml"
	databaseFile = "library.db"
)

type App struct {
	Config          *Config
	DB              *localdb.DB
	PlaylistManager *PlaylistManager
	LibraryManager  *LibraryManager
	PlaybackEngine  *PlaybackEngine
	LocalPlayer     player.Player
	Dispatcher      *Dispatcher
	LibraryWatcher  *scanner.Watcher // nil if no music dir is configured

	appName       string
	appVersionTag string
	configDir     string
	cacheDir      string

	isFirstLaunch bool // set by config file reader
}

func (a *App) VersionTag() string {
	return a.appVersionTag
}

func StartupApp(appName, displayAppName, appVersionTag string) (*App, error) {
	confDir := configdir.LocalConfig(appName)
	cacheDir := configdir.LocalCache(appName)
	configdir.MakePath(confDir)
	configdir.MakePath(cacheDir)

	log.Printf("Starting %s...", displayAppName)
	log.Printf("Using config dir: %s", confDir)
	log.Printf("Using cache dir: %s", cacheDir)

	a := &App{
		appName:       appName,
		appVersionTag: appVersionTag,
		configDir:     confDir,
		cacheDir:      cacheDir,
	}
	a.readConfig()

	db, err := localdb.Open(path.Join(cacheDir, databaseFile))
	if err != nil {
		return nil, fmt.Errorf("storage unavailable: %w", err)
	}
	a.DB = db

	pm, err := NewPlaylistManager(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading playlists: %w", err)
	}
	a.PlaylistManager = pm
	a.LibraryManager = NewLibraryManager(db)

	a.Dispatcher = NewDispatcher()
	a.LocalPlayer = beepplayer.New()
	a.PlaybackEngine = NewPlaybackEngine(a.LocalPlayer, a.Dispatcher)
	a.PlaybackEngine.SetVolume(a.Config.Playback.Volume)

	a.startLibraryWatcher()
	return a, nil
}

func (a *App) IsFirstLaunch() bool {
	return a.isFirstLaunch
}

// SetMusicDir points the app at a new library root and re-arms the
// change watcher.
func (a *App) SetMusicDir(dir string) {
	a.Config.LocalLibrary.MusicDir = dir
	if a.LibraryWatcher != nil {
		a.LibraryWatcher.Close()
		a.LibraryWatcher = nil
	}
	a.startLibraryWatcher()
}

// OpenPlaylist makes the playlist's songs the active queue and records
// it as the last-opened playlist, to be restored on the next launch.
// Does not start playback. Returns false for an unknown id.
func (a *App) OpenPlaylist(id string) bool {
	p := a.PlaylistManager.GetPlaylistByID(id)
	if p == nil {
		return false
	}
	a.Config.Application.LastPlaylistID = id
	songs := make([]library.Song, len(p.Songs))
	copy(songs, p.Songs)
	a.Dispatcher.Submit(func() {
		a.PlaybackEngine.SetQueue(songs)
	})
	return true
}

func (a *App) startLibraryWatcher() {
	dir := a.Config.LocalLibrary.MusicDir
	if dir == "" {
		return
	}
	w, err := scanner.NewWatcher(dir)
	if err != nil {
		log.Printf("unable to watch music dir %s: %v", dir, err)
		return
	}
	a.LibraryWatcher = w
}

func (a *App) readConfig() {
	cfgPath := a.configFilePath()
	var cfgExists bool
	if _, err := os.Stat(cfgPath); err == nil {
		cfgExists = true
	}
	a.isFirstLaunch = !cfgExists
	cfg, err := ReadConfigFile(cfgPath, a.appVersionTag)
	if err != nil {
		if cfgExists {
			log.Printf("Error reading app config file: %v", err)
			backupCfgName := fmt.Sprintf("%s.bak", configFile)
			log.Printf("Config file may be malformed: copying to %s", backupCfgName)
			_ = copyFile(cfgPath, path.Join(a.configDir, backupCfgName))
		}
		cfg = DefaultConfig(a.appVersionTag)
	}
	a.Config = cfg
}

func (a *App) Shutdown() {
	if a.LibraryWatcher != nil {
		a.LibraryWatcher.Close()
	}
	// engine state is confined to the dispatcher goroutine; stop
	// playback there, before the dispatcher drains and exits
	a.Dispatcher.Submit(func() {
		a.PlaybackEngine.Stop()
	})
	a.Dispatcher.Stop()
	a.Config.Playback.Volume = a.LocalPlayer.Volume()
	a.SaveConfigFile()
	a.DB.Close()
}

func (a *App) SaveConfigFile() {
	if err := a.Config.WriteConfigFile(a.configFilePath()); err != nil {
		log.Printf("Error writing app config file: %v", err)
	}
}

func (a *App) configFilePath() string {
	return path.Join(a.configDir, configFile)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
