package game

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 创建用于测试的 gdata Manager
func createTestGdataManager(t *testing.T, testName string) *gdata.Manager {
	appName := fmt.Sprintf("arcade_test_%s_%d", testName, time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil
	}

	// 注册清理函数，测试结束后删除测试目录
	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			testDir := filepath.Join(homeDir, ".local", "share", appName)
			os.RemoveAll(testDir)
		}
	})

	return manager
}

// TestSequenceProgressStore_NilGdata 降级模式：只在内存中记录
func TestSequenceProgressStore_NilGdata(t *testing.T) {
	s := NewSequenceProgressStore(nil)

	if s.HasCompleted("intro") {
		t.Error("Expected empty store")
	}

	if err := s.MarkCompleted("intro"); err != nil {
		t.Fatalf("MarkCompleted() in degraded mode should not fail: %v", err)
	}

	if !s.HasCompleted("intro") {
		t.Error("Expected intro to be recorded in memory")
	}
}

// TestSequenceProgressStore_Persist 记录跨实例保留
func TestSequenceProgressStore_Persist(t *testing.T) {
	manager := createTestGdataManager(t, "persist")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	s := NewSequenceProgressStore(manager)
	if err := s.MarkCompleted("stage-2"); err != nil {
		t.Fatalf("MarkCompleted() failed: %v", err)
	}
	if err := s.MarkCompleted("intro"); err != nil {
		t.Fatalf("MarkCompleted() failed: %v", err)
	}

	reloaded := NewSequenceProgressStore(manager)
	ids := reloaded.CompletedIDs()
	if len(ids) != 2 || ids[0] != "intro" || ids[1] != "stage-2" {
		t.Errorf("Expected [intro stage-2], got %v", ids)
	}
}
