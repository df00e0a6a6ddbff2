package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger returns the application logger. Output goes to stdout and to a
// size-rotated file so long-running deployments don't fill the disk.
func InitLogger(logFile string) *log.Logger {
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	writer := io.MultiWriter(os.Stdout, rotator)
	logger := log.New(writer, "[Kiswahili Kwanza] ", log.LstdFlags|log.LUTC)

	// Route the default logger through the same writer.
	log.SetOutput(writer)

	return logger
}
