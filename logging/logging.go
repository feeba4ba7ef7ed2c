package logging

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

/**
* Global logger
 */
var logger = logrus.New()

var skipPaths []string = []string{}
var logRequests bool = true

func Log() *logrus.Logger {
	return logger
}

// GinHandlerFunc logs every handled request with method, path, latency and
// result, unless request logging is disabled or the path is skipped.
func GinHandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !logRequests {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		if raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		if contains(skipPaths, path) {
			return
		}

		latency := time.Since(start)
		method := c.Request.Method
		statusCode := c.Writer.Status()
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		if errorMessage != "" {
			Log().Warnf("Request [%s]%s took %d ms - Result: %d - %s", method, path, latency.Milliseconds(), statusCode, errorMessage)
		} else {
			Log().Infof("Request [%s]%s took %d ms - Result: %d", method, path, latency.Milliseconds(), statusCode)
		}
	}
}

/**
* Helper method to print objects with json-serialization information in a more human readable way
 */
func PrettyPrintObject(objectInterface interface{}) string {
	jsonBytes, err := json.Marshal(objectInterface)
	if err != nil {
		logger.Debugf("Was not able to pretty print the object: %v", objectInterface)
		return ""
	}
	return string(jsonBytes)
}

func init() {
	enableJsonLogging, err := strconv.ParseBool(os.Getenv("JSON_LOGGING_ENABLED"))

	if err != nil {
		enableJsonLogging = false
	}

	switch os.Getenv("LOG_LEVEL") {
	case "DEBUG":
		logger.SetLevel(logrus.DebugLevel)
	case "INFO":
		logger.SetLevel(logrus.InfoLevel)
	case "WARN":
		logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		logger.SetLevel(logrus.ErrorLevel)
	}

	if enableJsonLogging {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	skipPathsEnv := os.Getenv("LOG_SKIP_PATHS")
	logRequests, err = strconv.ParseBool(os.Getenv("LOG_REQUESTS"))
	if err != nil {
		logRequests = true
	}

	if skipPathsEnv != "" {
		skipPaths = strings.Split(skipPathsEnv, ",")
		logger.Infof("Will skip request logging for paths %s.", skipPaths)
	}
}

func contains(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}
