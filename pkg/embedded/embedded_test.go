package embedded

import (
	"io/fs"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/sequences/intro.yaml":  {Data: []byte("id: intro")},
		"data/sequences/stage1.yaml": {Data: []byte("id: stage-1")},
		"data/spawn_templates.yaml":  {Data: []byte("templates: []")},
	}
}

// TestNotInitialized 未初始化时返回错误
func TestNotInitialized(t *testing.T) {
	Init(nil)

	if _, err := FS(); err == nil {
		t.Error("Expected error when calling FS() before Init()")
	} else if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

// TestFS 初始化后返回同一个文件系统
func TestFS(t *testing.T) {
	Init(testFS())
	defer Init(nil)

	fsys, err := FS()
	if err != nil {
		t.Fatalf("FS() failed: %v", err)
	}

	files, err := fs.Glob(fsys, "data/sequences/*.yaml")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(files) != 2 || files[0] != "data/sequences/intro.yaml" || files[1] != "data/sequences/stage1.yaml" {
		t.Errorf("Unexpected sequence files: %v", files)
	}

	data, err := fs.ReadFile(fsys, "data/spawn_templates.yaml")
	if err != nil || string(data) != "templates: []" {
		t.Errorf("Unexpected spawn templates content: %q (%v)", data, err)
	}
}
