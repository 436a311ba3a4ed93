package main

import (
	"cardspend/config"
	"cardspend/controllers"
	"cardspend/database"
	"cardspend/middleware"
	"cardspend/services"
	"cardspend/utils"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
)

// healthHandler отвечает на проверку работоспособности
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// initRecurringScheduler запускает обработку повторяющихся расходов
func initRecurringScheduler(db *database.Database, emailService *services.EmailService) {
	scheduler := services.NewRecurringService(db.DB, emailService)
	scheduler.Start()
	log.Println("Планировщик повторяющихся расходов запущен")
}

// startMonitoringServer запускает отдельный сервер мониторинга
func startMonitoringServer(port int) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetMetrics().GetMetricsSnapshot())
	})

	go func() {
		addr := fmt.Sprintf(":%d", port)
		log.Printf("Сервер мониторинга запущен на порту %s", addr)
		if err := r.Run(addr); err != nil {
			log.Printf("Ошибка сервера мониторинга: %v", err)
		}
	}()
}

// registerRoutes настраивает маршруты HTTP API
func registerRoutes(
	router *mux.Router,
	authController *controllers.AuthController,
	cardController *controllers.CardController,
	expenseController *controllers.ExpenseController,
	analyticsController *controllers.AnalyticsController,
) {
	// Проверка работоспособности
	router.HandleFunc("/health", healthHandler).Methods("GET")

	// Публичные маршруты для аутентификации
	router.HandleFunc("/api/auth/signUp", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	// Защищенные маршруты
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(authController.GetJWTKey())))
	protected.Use(middleware.LoggingMiddleware)

	// Маршруты для работы с картами
	protected.HandleFunc("/cards", cardController.CreateCard).Methods("POST")
	protected.HandleFunc("/cards", cardController.GetCards).Methods("GET")
	protected.HandleFunc("/cards/{id}", cardController.GetCard).Methods("GET")
	protected.HandleFunc("/cards/{id}", cardController.UpdateCard).Methods("PUT")
	protected.HandleFunc("/cards/{id}", cardController.DeleteCard).Methods("DELETE")
	protected.HandleFunc("/cards/{id}/payment", cardController.MakePayment).Methods("POST")
	protected.HandleFunc("/cards/{id}/stats", cardController.GetStats).Methods("GET")
	protected.HandleFunc("/cards/{id}/transactions", cardController.GetTransactions).Methods("GET")

	// Маршруты для работы с расходами
	protected.HandleFunc("/expenses", expenseController.CreateExpense).Methods("POST")
	protected.HandleFunc("/expenses", expenseController.GetExpenses).Methods("GET")
	protected.HandleFunc("/expenses/recent/{limit}", expenseController.GetRecent).Methods("GET")
	protected.HandleFunc("/expenses/category/{category}", expenseController.GetByCategory).Methods("GET")
	protected.HandleFunc("/expenses/{id}", expenseController.GetExpense).Methods("GET")
	protected.HandleFunc("/expenses/{id}", expenseController.UpdateExpense).Methods("PUT")
	protected.HandleFunc("/expenses/{id}", expenseController.DeleteExpense).Methods("DELETE")

	// Маршруты аналитики
	protected.HandleFunc("/analytics/dashboard", analyticsController.GetDashboard).Methods("GET")
	protected.HandleFunc("/analytics/monthly/{year}/{month}", analyticsController.GetMonthlyReport).Methods("GET")
	protected.HandleFunc("/analytics/insights", analyticsController.GetInsights).Methods("GET")
	protected.HandleFunc("/analytics/categories/comparison", analyticsController.GetCategoryComparison).Methods("GET")
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем логгеры
	utils.InitLoggers(cfg.LogDir)

	// Инициализируем подключение к базе данных
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}

	// Инициализируем сервисы
	emailService := services.NewEmailService(cfg)
	rateService := services.NewRateService(cfg)

	// Запускаем планировщик повторяющихся расходов
	initRecurringScheduler(db, emailService)

	// Запускаем сервер мониторинга
	startMonitoringServer(cfg.Server.MetricsPort)

	// Создаем роутер
	router := mux.NewRouter()

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(db, cfg)
	cardController := controllers.NewCardController(db, cfg, emailService, rateService)
	expenseService := services.NewExpenseService(db.DB, cardController.CardService())
	expenseController := controllers.NewExpenseController(expenseService)
	analyticsService := services.NewAnalyticsService(db.DB, expenseService)
	analyticsController := controllers.NewAnalyticsController(analyticsService)

	registerRoutes(router, authController, cardController, expenseController, analyticsController)

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
