package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger

	loggerOnce sync.Once
)

// InitLoggers инициализирует файловые логгеры в указанной директории.
// Повторные вызовы игнорируются; до инициализации логи пишутся в stderr.
func InitLoggers(logDir string) error {
	var initErr error
	loggerOnce.Do(func() {
		// Создаем директорию для логов, если она не существует
		if err := os.MkdirAll(logDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %v", err)
			return
		}

		open := func(name string) (io.Writer, error) {
			return os.OpenFile(filepath.Join(logDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		}

		infoFile, err := open("info.log")
		if err != nil {
			initErr = fmt.Errorf("failed to open info log file: %v", err)
			return
		}
		errorFile, err := open("error.log")
		if err != nil {
			initErr = fmt.Errorf("failed to open error log file: %v", err)
			return
		}
		debugFile, err := open("debug.log")
		if err != nil {
			initErr = fmt.Errorf("failed to open debug log file: %v", err)
			return
		}

		// Инициализируем логгеры
		InfoLogger = log.New(infoFile, "INFO: ", log.Ldate|log.Ltime)
		ErrorLogger = log.New(errorFile, "ERROR: ", log.Ldate|log.Ltime)
		DebugLogger = log.New(debugFile, "DEBUG: ", log.Ldate|log.Ltime)
	})
	return initErr
}

func fallback() *log.Logger {
	return log.New(os.Stderr, "", log.Ldate|log.Ltime)
}

func logTo(l *log.Logger, format string, v ...interface{}) {
	if l == nil {
		l = fallback()
	}
	_, file, line, _ := runtime.Caller(2)
	l.Printf("%s:%d - %s", filepath.Base(file), line, fmt.Sprintf(format, v...))
}

// LogInfo логирует информационное сообщение
func LogInfo(format string, v ...interface{}) {
	logTo(InfoLogger, format, v...)
}

// LogError логирует сообщение об ошибке
func LogError(format string, v ...interface{}) {
	logTo(ErrorLogger, format, v...)
}

// LogDebug логирует отладочное сообщение
func LogDebug(format string, v ...interface{}) {
	logTo(DebugLogger, format, v...)
}

// LogOperation логирует операцию с длительностью выполнения.
// Используется потоками синхронизации баланса для фиксации исхода.
func LogOperation(operation string, startTime time.Time, err error) {
	duration := time.Since(startTime)
	if err != nil {
		LogError("Operation %s failed after %v: %v", operation, duration, err)
	} else {
		LogInfo("Operation %s completed in %v", operation, duration)
	}
}
