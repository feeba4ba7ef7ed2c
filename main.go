package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/penglongli/gin-metrics/ginmetrics"
	"github.com/procyon-projects/chrono"

	"github.com/atricore/uma-authz/config"
	serverHttp "github.com/atricore/uma-authz/http"
	"github.com/atricore/uma-authz/logging"
	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/storage"
	"github.com/atricore/uma-authz/uma"
)

/**
* Global logger
 */
var logger = logging.Log()

/**
* Port to run the authorization server at. Default is 8080.
 */
var serverPort int = 8080

/**
* Repository used to store clients, resource sets, tickets and tokens
 */
var repository storage.Model

/**
* Interval for sweeping expired permission tickets. Default is 60s.
 */
var ticketSweepInterval = 60 * time.Second

func init() {
	serverPortEnvVar := os.Getenv("SERVER_PORT")
	if serverPortEnvVar != "" {
		port, err := strconv.Atoi(serverPortEnvVar)
		if err != nil {
			logger.Fatalf("No valid server port was provided: %s.", serverPortEnvVar)
		}
		serverPort = port
	}

	sweepIntervalEnvVar := os.Getenv("TICKET_SWEEP_INTERVAL")
	if sweepIntervalEnvVar != "" {
		seconds, err := strconv.Atoi(sweepIntervalEnvVar)
		if err != nil {
			logger.Fatalf("No valid ticket sweep interval was provided: %s.", sweepIntervalEnvVar)
		}
		ticketSweepInterval = time.Duration(seconds) * time.Second
	}
}

func init() {
	mysqlHost := os.Getenv("MYSQL_HOST")
	if mysqlHost != "" {
		repository = storage.NewSqlRepository(storage.GetMySqlRepository())
		logger.Info("Using the mysql repository.")
		return
	}

	logger.Warn("Repositories are kept in-memory. No persistence will be applied, do NEVER use this for anything but development or testing!")
	inMemoryRepo := storage.NewInMemoryRepo()
	seedDevelopmentData(inMemoryRepo)
	repository = inMemoryRepo
}

/**
* Startup method to run the gin-server.
 */
func main() {
	serverConfig := config.EnvConfig{}
	umaServer := uma.NewUMAServer(repository, serverConfig)
	controller := serverHttp.NewUmaController(umaServer)

	router := gin.New()
	router.Use(logging.GinHandlerFunc(), gin.Recovery())

	metricsMonitor := ginmetrics.GetMonitor()
	metricsMonitor.SetMetricPath("/metrics")
	metricsMonitor.Use(router)

	// resource set registration
	router.POST("/uma/rset/register", controller.RegisterResourceSet)
	router.GET("/uma/rset/read/:id", controller.ReadResourceSet)
	router.PUT("/uma/rset/update/:id", controller.UpdateResourceSet)
	router.DELETE("/uma/rset/delete/:id", controller.DeleteResourceSet)

	// policies and permissions
	router.POST("/uma/policy/:rsid", controller.CreatePolicy)
	router.POST("/uma/perm/register", controller.RegisterPermission)

	// authorization
	router.POST("/uma/rset/authorize", controller.Authorize)
	router.POST("/uma/claims/collect", controller.CollectClaims)

	router.GET("/health", serverHttp.HealthReq)

	scheduleTicketSweeper()

	logger.Infof("Starting router at %v", serverPort)
	router.Run(fmt.Sprintf("0.0.0.0:%v", serverPort))
}

/**
* Schedules the periodic removal of expired permission tickets.
 */
func scheduleTicketSweeper() {
	taskScheduler := chrono.NewDefaultTaskScheduler()
	_, err := taskScheduler.ScheduleWithFixedDelay(func(ctx context.Context) {
		deleted, umaErr := repository.DeleteExpiredPermissionTickets(time.Now())
		if umaErr != (model.UmaError{}) {
			logger.Warnf("Was not able to sweep expired tickets. Err: %v", umaErr)
			return
		}
		if deleted > 0 {
			logger.Debugf("Swept %d expired permission tickets.", deleted)
		}
	}, ticketSweepInterval)
	if err != nil {
		logger.Fatalf("Was not able to schedule the ticket sweeper. Err: %v", err)
	}
}

/**
* Seeds a development client and some user details, mirroring the typical
* local setup. Only applied when running on the in-memory repository.
 */
func seedDevelopmentData(repo *storage.InMemoryRepo) {
	clientId := os.Getenv("DEV_CLIENT_ID")
	if clientId == "" {
		return
	}

	repo.AddClient(model.Client{
		ClientId:          clientId,
		ClientSecret:      os.Getenv("DEV_CLIENT_SECRET"),
		RedirectUri:       os.Getenv("DEV_CLIENT_REDIRECT_URI"),
		ClaimsRedirectUri: os.Getenv("DEV_CLIENT_CLAIMS_REDIRECT_URI"),
	})
	logger.Infof("Seeded development client %s.", clientId)

	// DEV_USER_DETAILS format: userId:issuer:name:value, comma separated
	for _, entry := range strings.Split(os.Getenv("DEV_USER_DETAILS"), ",") {
		parts := strings.Split(entry, ":")
		if len(parts) != 4 {
			continue
		}
		repo.AddUserDetails(parts[0], []model.SuppliedClaim{{
			Issuer: []string{parts[1]},
			Name:   parts[2],
			Value:  parts[3],
		}})
		logger.Infof("Seeded user details for %s.", parts[0])
	}
}
