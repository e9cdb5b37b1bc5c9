package ui

import (
	"os"
	"testing"

	"github.com/zhubert/confide/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(os.DevNull)
	code := m.Run()
	logger.Reset()
	os.Exit(code)
}
