package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wayfarer-player/wayfarer/backend"
)

const (
	appName        = "wayfarer"
	displayAppName = "Wayfarer"
	appVersionTag  = "v0.1.0"
)

func main() {
	flag.Parse()
	if *backend.FlagVersion {
		fmt.Println(appName, appVersionTag)
		return
	}
	if *backend.FlagHelp {
		flag.Usage()
		return
	}

	myApp, err := backend.StartupApp(appName, displayAppName, appVersionTag)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	if *backend.FlagMusicDir != "" {
		myApp.SetMusicDir(*backend.FlagMusicDir)
	}

	if dir := myApp.Config.LocalLibrary.MusicDir; dir != "" {
		loadLibrary(myApp, dir)
	} else {
		log.Println("No music directory configured; run with -music-dir to set one")
	}

	// restore the playlist that was open when the app last exited
	if id := myApp.Config.Application.LastPlaylistID; id != "" {
		if !myApp.OpenPlaylist(id) {
			log.Printf("last opened playlist %s no longer exists", id)
		}
	}

	if w := myApp.LibraryWatcher; w != nil {
		go func() {
			for range w.Changed() {
				log.Println("Music directory changed; rescanning")
				loadLibrary(myApp, myApp.Config.LocalLibrary.MusicDir)
			}
		}()
	}

	// Run until interrupted. A UI front end drives the engine and
	// playlist manager from here via the app's Dispatcher.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down...")
	myApp.Shutdown()
}

// loadLibrary scans dir off the owner context and applies the listing
// as the active queue on it.
func loadLibrary(myApp *backend.App, dir string) {
	listing, err := myApp.LibraryManager.LoadFolder(dir)
	if err != nil {
		log.Printf("library scan failed: %v", err)
		return
	}
	myApp.Dispatcher.Submit(func() {
		myApp.PlaybackEngine.SetQueue(listing.Songs)
	})
}
