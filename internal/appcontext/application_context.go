package appcontext

import (
	"context"
	"fmt"
	"log"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mikrobrand/mikro1/internal/config"
	"github.com/mikrobrand/mikro1/internal/infra/eventdb"
	"github.com/mikrobrand/mikro1/internal/infra/gateway/toss"
	"github.com/mikrobrand/mikro1/internal/infra/producer"
	"github.com/mikrobrand/mikro1/internal/infra/repository/db"
	"github.com/mikrobrand/mikro1/internal/infra/repository/redis_decorator"
	"github.com/mikrobrand/mikro1/internal/infra/repository/redis_repo"
	"github.com/mikrobrand/mikro1/internal/pkg/kafka"
	"github.com/mikrobrand/mikro1/internal/service"
)

// ApplicationContext 元件裝配
// redis/kafka/eventstore/toss皆為optional，config留空就不啟用
type ApplicationContext struct {
	Cf          *config.Config
	DbConn      *gorm.DB
	Store       db.UnifiedDB
	RedisClient *redis.Client
	StockCache  redis_repo.IVariantStockRepository
	EsdbClient  *esdb.Client

	OrderEventProducer producer.IOrderEventProducer
	OrderEventService  service.IOrderEventService
	TossGateway        toss.IGateway

	UserService     service.IUserService
	AddressService  service.IAddressService
	CartService     service.ICartService
	ProductService  service.IProductService
	CheckoutService service.ICheckoutService
	PaymentService  service.IPaymentService
	OrderService    service.IOrderService
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}
	err := app.Init()
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init() error {
	if err := app.setUpDbConn(); err != nil {
		return err
	}
	if err := app.setUpStore(); err != nil {
		return err
	}
	app.setUpRedis()
	if err := app.setUpKafka(); err != nil {
		return err
	}
	if err := app.setUpEventStore(); err != nil {
		return err
	}
	app.setUpTossGateway()
	app.setUpServices()
	return nil
}

func (app *ApplicationContext) setUpDbConn() error {
	log.Printf("Start setup database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbConn = conn
	log.Printf("Finish setup database connection")
	return nil
}

func (app *ApplicationContext) setUpStore() error {
	log.Printf("Start setup store")
	app.Store = db.NewUnifiedDB(app.DbConn)
	if err := app.Store.InitMigrate(); err != nil {
		return err
	}
	log.Printf("Finish setup store")
	return nil
}

func (app *ApplicationContext) setUpRedis() {
	if app.Cf.RedisAddr == "" {
		log.Printf("REDIS_ADDR not set, stock cache disabled")
		return
	}
	log.Printf("Start setup redis")
	app.RedisClient = redis.NewClient(&redis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPassword,
	})
	app.StockCache = redis_repo.NewVariantStockRepo(app.RedisClient)
	log.Printf("Finish setup redis")
}

func (app *ApplicationContext) setUpKafka() error {
	brokers := app.Cf.KafkaBrokerList()
	if len(brokers) == 0 {
		log.Printf("KAFKA_BROKERS not set, order events to kafka disabled")
		return nil
	}
	log.Printf("Start setup kafka producer")

	topic := app.Cf.KafkaTopic
	if topic == "" {
		topic = "order.events"
	}
	p, err := kafka.New(&kafka.Config{
		Brokers: brokers,
		Topic:   topic,
	})
	if err != nil {
		return err
	}
	app.OrderEventProducer = producer.NewOrderEventProducer(p)
	log.Printf("Finish setup kafka producer")
	return nil
}

func (app *ApplicationContext) setUpEventStore() error {
	if app.Cf.EventDBUrl == "" {
		log.Printf("EVENTDB_URL not set, order event journal disabled")
		return nil
	}
	log.Printf("Start setup eventstore")
	settings, err := esdb.ParseConnectionString(app.Cf.EventDBUrl)
	if err != nil {
		return err
	}
	client, err := esdb.NewClient(settings)
	if err != nil {
		return err
	}
	app.EsdbClient = client
	log.Printf("Finish setup eventstore")
	return nil
}

func (app *ApplicationContext) setUpTossGateway() {
	log.Printf("Start setup toss gateway")
	app.TossGateway = toss.NewClient(app.Cf.TossSecretKey, app.Cf.TossAPIBase)
	log.Printf("Finish setup toss gateway")
}

func (app *ApplicationContext) setUpServices() {
	log.Printf("Start setup services")

	var journal *eventdb.OrderEventDao
	if app.EsdbClient != nil {
		journal = eventdb.NewOrderEventDao(app.EsdbClient)
	}
	app.OrderEventService = service.NewOrderEventService(app.OrderEventProducer, journal)

	var variantReader db.IVariantRepository
	if app.StockCache != nil {
		variantReader = redis_decorator.NewCacheAsideVariantRepo(app.Store, app.StockCache)
	}

	app.UserService = service.NewUserService(app.Store)
	app.AddressService = service.NewAddressService(app.Store)
	app.CartService = service.NewCartService(app.Store)
	app.ProductService = service.NewProductService(app.Store, variantReader)
	app.CheckoutService = service.NewCheckoutService(app.Store, app.OrderEventService)
	app.PaymentService = service.NewPaymentService(app.Store, app.TossGateway, app.StockCache, app.OrderEventService)
	app.OrderService = service.NewOrderService(app.Store)

	log.Printf("Finish setup services")
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Printf("Start application shutdown")

	done := make(chan error)
	go func() {
		defer close(done)

		if app.OrderEventProducer != nil {
			log.Printf("Closing kafka producer...")
			if err := app.OrderEventProducer.Close(); err != nil {
				// 有錯誤不結束流程
				log.Printf("kafka producer close error: %v", err)
			}
		}

		if app.EsdbClient != nil {
			log.Printf("Closing eventstore client...")
			if err := app.EsdbClient.Close(); err != nil {
				log.Printf("eventstore close error: %v", err)
			}
		}

		if app.RedisClient != nil {
			log.Printf("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}

		if app.DbConn != nil {
			log.Printf("Closing database connection...")
			if sqlDB, err := app.DbConn.DB(); err == nil {
				sqlDB.Close()
			}
		}

		log.Printf("Application shutdown complete")
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %v", ctx.Err())
	}
}
