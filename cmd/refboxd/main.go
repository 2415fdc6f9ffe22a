// Command refboxd runs the referee console's core services: the tournament
// manager driven by an Updater, the panel TCP publisher, the remote button
// UDP listener, the read-only HTTP/WebSocket API, and the debug/metrics
// server: centralized config load, background workers started explicitly,
// signal-based graceful shutdown.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/codec"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/config"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/httpapi"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/obs"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/panel"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/remote"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/tournament"
)

func main() {
	appCfg := config.Load()

	log.Println("refboxd starting")
	log.Printf("panel=%s remote=%s http=%s debug=%s",
		appCfg.Service.PanelAddr, appCfg.Service.RemoteAddr, appCfg.Service.HTTPAddr, appCfg.Service.DebugAddr)

	eventLog := tournament.NewEventLog()
	if err := eventLog.Start(appCfg.Service.EventLogPath); err != nil {
		log.Printf("event log disabled: %v", err)
	} else {
		log.Printf("event log: %s", appCfg.Service.EventLogPath)
	}

	manager := tournament.NewManager(appCfg.Game, 1, eventLog)

	if err := obs.StartDebugServer(obs.Config{Enabled: true, ListenAddr: appCfg.Service.DebugAddr}); err != nil {
		log.Printf("debug server disabled: %v", err)
	}

	publisher := panel.NewPublisher(appCfg.Service.PanelAddr, codec.ENCODED_LEN)
	if err := publisher.Start(); err != nil {
		log.Fatalf("panel publisher failed to start: %v", err)
	}

	listener := remote.NewListener(appCfg.Service.RemoteAddr, appCfg.Service.KnownRemoteIDs, func(id uint32) {
		obs.RecordRemoteTimeout()
		if err := manager.StartRefTimeout(time.Now()); err != nil {
			log.Printf("remote %d: ref timeout rejected: %v", id, err)
		}
	})
	go func() {
		if err := listener.Run(); err != nil {
			log.Printf("remote listener stopped: %v", err)
		}
	}()

	httpServer := httpapi.NewServer(manager, eventLog, time.Now)
	go func() {
		if err := httpServer.Start(appCfg.Service.HTTPAddr); err != nil {
			log.Printf("http server stopped: %v", err)
		}
	}()

	updater := tournament.NewUpdater(manager, time.Now)
	go func() {
		for range updater.Changed {
			publishSnapshot(manager, publisher)
			httpServer.NotifyChanged()

			clients, sent, _ := publisher.Stats()
			obs.RecordPanelFrameSent(clients)
			_ = sent
		}
	}()
	go updater.Run()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("refboxd shutting down")
	updater.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Stop(ctx)
	listener.Stop()
	publisher.Stop()
	eventLog.Stop()
	log.Println("refboxd stopped")
}

func publishSnapshot(manager *tournament.Manager, publisher *panel.Publisher) {
	snap := manager.GenerateSnapshot(time.Now())
	data := snapshot.TransmittedData{
		WhiteOnRight: false,
		Flash:        snap.RecentGoal != nil,
		BeepTest:     false,
		Brightness:   snapshot.BrightnessMedium,
		Snapshot:     snap.ToNoHeap(),
	}
	frame, err := codec.Encode(data)
	if err != nil {
		log.Printf("codec encode failed: %v", err)
		return
	}
	publisher.Publish(frame)
}
