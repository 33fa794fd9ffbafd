package config

import (
	"fmt"
	"io/fs"
	"log"
	"sort"
)

// 数据目录中的固定路径
const (
	SequenceGlob       = "data/sequences/*.yaml"
	SpawnTemplatesFile = "data/spawn_templates.yaml"
)

// Catalog 数据目录中加载的全部序列与生成模板
type Catalog struct {
	Sequences map[string]*SequenceConfig
	Templates map[string]*SpawnTemplate
}

// LoadCatalog 从文件系统加载序列与生成模板
//
// fsys 可以是嵌入的 embed.FS，也可以是 os.DirFS(项目根目录)。
// 生成模板文件缺失时使用空模板表（所有生成都会被跳过）。
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{
		Sequences: make(map[string]*SequenceConfig),
		Templates: make(map[string]*SpawnTemplate),
	}

	files, err := fs.Glob(fsys, SequenceGlob)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequences: %w", err)
	}
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read sequence %s: %w", file, err)
		}
		cfg, err := ParseSequenceConfig(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if _, dup := catalog.Sequences[cfg.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate sequence ID %q", file, cfg.ID)
		}
		catalog.Sequences[cfg.ID] = cfg
	}

	data, err := fs.ReadFile(fsys, SpawnTemplatesFile)
	if err != nil {
		log.Printf("[Config] Warning: spawn templates not loaded: %v", err)
		return catalog, nil
	}
	templates, err := ParseSpawnTemplates(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", SpawnTemplatesFile, err)
	}
	catalog.Templates = templates

	log.Printf("[Config] Loaded %d sequences, %d spawn templates", len(catalog.Sequences), len(catalog.Templates))
	return catalog, nil
}

// SequenceIDs 返回所有序列ID（升序）
func (c *Catalog) SequenceIDs() []string {
	ids := make([]string, 0, len(c.Sequences))
	for id := range c.Sequences {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sequence 按ID查找序列
func (c *Catalog) Sequence(id string) (*SequenceConfig, error) {
	cfg, ok := c.Sequences[id]
	if !ok {
		return nil, fmt.Errorf("sequence %q not found (available: %v)", id, c.SequenceIDs())
	}
	return cfg, nil
}
