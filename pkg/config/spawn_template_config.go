package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SpawnTemplateConfig 生成模板列表
type SpawnTemplateConfig struct {
	Templates []SpawnTemplate `yaml:"templates"`
}

// SpawnTemplate 单个生成类型的模板
type SpawnTemplate struct {
	Type      string  `yaml:"type"`      // 生成类型，如 "enemy"、"projectile"
	Ephemeral bool    `yaml:"ephemeral"` // 到达目标后整个实体被移除
	MinDepth  float64 `yaml:"minDepth"`  // 允许的最小深度
	MaxDepth  float64 `yaml:"maxDepth"`  // 允许的最大深度
	Speed     float64 `yaml:"speed"`     // 朝目标移动的速度，0 表示静止
}

// AcceptsDepth 检查深度是否在模板允许范围内
func (t *SpawnTemplate) AcceptsDepth(depth float64) bool {
	return depth >= t.MinDepth && depth <= t.MaxDepth
}

// ParseSpawnTemplates 从YAML数据解析生成模板，返回 类型 -> 模板 映射
func ParseSpawnTemplates(data []byte) (map[string]*SpawnTemplate, error) {
	var cfg SpawnTemplateConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse spawn templates YAML: %w", err)
	}

	result := make(map[string]*SpawnTemplate, len(cfg.Templates))
	for i := range cfg.Templates {
		tpl := &cfg.Templates[i]
		if tpl.Type == "" {
			return nil, fmt.Errorf("template %d: type is required", i)
		}
		if _, dup := result[tpl.Type]; dup {
			return nil, fmt.Errorf("template %d: duplicate type %q", i, tpl.Type)
		}
		if tpl.Speed < 0 {
			return nil, fmt.Errorf("template %q: speed cannot be negative", tpl.Type)
		}
		// 未配置深度范围时只接受深度 0
		if tpl.MaxDepth < tpl.MinDepth {
			return nil, fmt.Errorf("template %q: maxDepth must be >= minDepth", tpl.Type)
		}
		result[tpl.Type] = tpl
	}

	return result, nil
}
