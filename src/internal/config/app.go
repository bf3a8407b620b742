package config

import (
	"dispatch-service/src/internal/delivery/http"
	"dispatch-service/src/internal/delivery/http/middleware"
	"dispatch-service/src/internal/delivery/http/route"
	"dispatch-service/src/internal/delivery/stream"
	"dispatch-service/src/internal/gateway/channel"
	"dispatch-service/src/internal/gateway/messaging"
	"dispatch-service/src/internal/gateway/push"
	"dispatch-service/src/internal/manager"
	"dispatch-service/src/internal/repository"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "dispatch-service/src/pkg/kafka/confluent"
	"dispatch-service/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkgConfluent.Producer
	Consumer    kafkaPkgConfluent.Consumer
	Redis       redis.UniversalClient
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) *manager.Manager {
	// setup repositories
	orderRepository := repository.NewOrderRepository(config.DB)
	driverRepository := repository.NewDriverRepository(config.DB)
	partyRepository := repository.NewPartyRepository(config.DB)
	notificationRepository := repository.NewNotificationRepository(config.DB)

	// setup gateways
	orderProducer := messaging.NewOrderProducer(config.Producer, config.Log)
	notifier := push.NewKafkaNotifier(config.Producer, config.Log)
	channels := channel.NewRegistry(channel.NewRedisBus(config.Redis), config.Log)

	// setup use cases
	dispatchUseCase := usecase.NewDispatchUseCase(
		config.Log,
		config.Validate,
		orderRepository,
		driverRepository,
		partyRepository,
		notificationRepository,
		channels,
		notifier,
		orderProducer,
	)

	var reminders usecase.ReminderScheduler
	if config.AsynqClient != nil {
		reminders = usecase.NewAsynqReminderScheduler(config.AsynqClient, config.Log)
	}

	notificationUseCase := usecase.NewNotificationUseCase(
		config.Log,
		config.Validate,
		orderRepository,
		driverRepository,
		partyRepository,
		notificationRepository,
		notifier,
		dispatchUseCase,
		reminders,
	)

	if config.Async != nil {
		config.Async.HandleFunc(usecase.TypeRatingReminder, notificationUseCase.HandleRatingReminder)
	}

	bridge := stream.NewOrderEventBridge(config.Log, notificationUseCase, channels, notifier, config.Consumer)
	notificationManager := manager.New(config.Log, notificationUseCase, bridge)
	notificationManager.Start()

	// setup controllers
	dispatchController := http.NewDispatchController(dispatchUseCase, config.Log)
	notificationController := http.NewNotificationController(notificationUseCase, notificationRepository, config.Log)

	authMiddleware := middleware.VerifyBearer(config.Config)
	routeConfig := route.RouteConfig{
		App:                    config.App,
		DispatchController:     dispatchController,
		NotificationController: notificationController,
		AuthMiddleware:         authMiddleware,
	}
	routeConfig.Setup()

	return notificationManager
}
