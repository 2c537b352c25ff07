// internal/app/app.go

package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"virtualroom/api"
	"virtualroom/internal/config"
	"virtualroom/internal/db"
	"virtualroom/internal/events"
	"virtualroom/internal/handlers"
	"virtualroom/internal/logger"
	"virtualroom/internal/notify"
	"virtualroom/internal/service"
)

type App struct {
	cfg         *config.Config
	eventBus    *events.EventBus
	store       db.RoomStore
	roomService *service.RoomService
	notifier    *notify.MQTTNotifier
	disconnect  func()
	server      *http.Server
}

func NewApp(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

func (a *App) Initialize() error {
	level, err := logger.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	gin.SetMode(a.cfg.HTTP.GinMode)

	a.store, err = db.Open(a.cfg.Store)
	if err != nil {
		return fmt.Errorf("open %s store: %w", a.cfg.Store.Driver, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.store.EnsureTable(ctx); err != nil {
		return fmt.Errorf("prepare %s store: %w", a.cfg.Store.Driver, err)
	}
	logger.Info("Using %s store, table %s, partition %s", a.cfg.Store.Driver, a.cfg.Store.Table, a.cfg.Store.Partition)

	a.eventBus = events.NewEventBus()
	a.roomService = service.NewRoomService(a.store, a.eventBus, a.cfg.Store.Partition)

	if a.cfg.MQTT.Broker != "" {
		client, err := notify.Connect(a.cfg.MQTT)
		if err != nil {
			return err
		}
		a.disconnect = func() { client.Disconnect(250) }
		a.notifier = notify.NewMQTTNotifier(client, a.cfg.MQTT.TopicPrefix, a.cfg.MQTT.QoS)
		a.notifier.Attach(a.eventBus)
		logger.Info("Publishing room state to %s", a.cfg.MQTT.Broker)
	}

	return nil
}

func (a *App) Start() error {
	roomHandler := handlers.NewRoomHandler(a.roomService)
	router := api.SetupRouter(roomHandler)

	// 先监听，端口占用等错误直接返回给调用方
	ln, err := net.Listen("tcp", a.cfg.HTTP.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.HTTP.Addr(), err)
	}

	a.server = &http.Server{
		Addr:    ln.Addr().String(),
		Handler: router,
	}

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error: %v", err)
		}
	}()

	a.eventBus.Publish(events.Event{Type: events.EventSystemStartup, Timestamp: time.Now()})
	logger.Info("Server started on %s", a.server.Addr)
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
	}

	if a.eventBus != nil {
		a.eventBus.Publish(events.Event{Type: events.EventSystemShutdown, Timestamp: time.Now()})
		a.eventBus.Wait()
	}
	if a.notifier != nil {
		a.notifier.Detach()
	}
	if a.disconnect != nil {
		a.disconnect()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Info("Application stopped gracefully")
	return nil
}
