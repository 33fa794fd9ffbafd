package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gonewx/arcade/pkg/types"
	"gopkg.in/yaml.v3"
)

// 序列类型
const (
	SequenceKindCutscene = "cutscene" // 过场动画（按幕推进）
	SequenceKindStage    = "stage"    // 关卡（按步骤推进）
)

// 副作用类型（对补间核心不透明，只作为事件发出）
const (
	EffectLetterboxOpen  = "letterbox_open"
	EffectLetterboxClose = "letterbox_close"
	EffectMusicStart     = "music_start"
	EffectMusicStop      = "music_stop"
)

// SequenceConfig 序列配置（一段过场动画或一个关卡的步骤表）
// 序列开始后只读，播放器只修改自己的进度索引和每步运行时状态。
type SequenceConfig struct {
	ID        string       `yaml:"id"`        // 序列ID，如 "intro"
	Name      string       `yaml:"name"`      // 序列名称（可选）
	Kind      string       `yaml:"kind"`      // "cutscene" 或 "stage"，默认 "cutscene"
	Skippable bool         `yaml:"skippable"` // 是否允许跳过，默认 false（看过一次后总是允许）
	Steps     []StepConfig `yaml:"steps"`     // 步骤列表，按顺序执行
}

// StepConfig 单个步骤（幕）配置
//
// 完成条件（任一满足即完成）：
//   - elapse > 0：从步骤开始经过 elapse 秒
//   - awaitInput：玩家按下继续键
//   - movement 且 elapse == 0：移动在两个轴上都到达目标
//
// 什么条件都没声明的步骤在下一帧立即完成。
type StepConfig struct {
	Name       string          `yaml:"name"`       // 步骤名称（可选，仅用于日志）
	Elapse     float64         `yaml:"elapse"`     // 持续时间（秒），默认 0
	Movement   *MovementConfig `yaml:"movement"`   // 可选：移动目标
	Spawns     []SpawnConfig   `yaml:"spawns"`     // 可选：定时生成列表
	AwaitInput bool            `yaml:"awaitInput"` // 可选：等待继续输入，默认 false
	Effects    []EffectConfig  `yaml:"effects"`    // 可选：副作用（黑边、音乐等）
}

// MovementConfig 移动配置
// X、Y 缺省表示该轴保持不动（该轴在第一帧即视为到达）
type MovementConfig struct {
	X            *float64 `yaml:"x"`
	Y            *float64 `yaml:"y"`
	Speed        float64  `yaml:"speed"`        // 基础速度（单位/秒），沿直线分配到两轴
	Acceleration float64  `yaml:"acceleration"` // 可选：恒定加速度，默认 0
}

// SpawnConfig 单个定时生成配置
// Elapsed 相对上一个生成（第一个相对步骤开始）的延迟秒数
type SpawnConfig struct {
	Elapsed     float64  `yaml:"elapsed"`
	Type        string   `yaml:"type"`
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	Depth       float64  `yaml:"depth"`
	TargetX     *float64 `yaml:"targetX"`
	TargetY     *float64 `yaml:"targetY"`
	TargetDepth *float64 `yaml:"targetDepth"`
}

// EffectConfig 副作用描述
type EffectConfig struct {
	Kind  string `yaml:"kind"`
	Value string `yaml:"value"` // 可选参数，如音乐ID
}

// HasTarget 生成描述是否声明了任一轴的目标
func (s *SpawnConfig) HasTarget() bool {
	return s.TargetX != nil || s.TargetY != nil || s.TargetDepth != nil
}

// ElapseDuration 步骤持续时间
func (s *StepConfig) ElapseDuration() time.Duration {
	return types.SecondsToDuration(s.Elapse)
}

// Delay 相对上一个生成的延迟
func (s *SpawnConfig) Delay() time.Duration {
	return types.SecondsToDuration(s.Elapsed)
}

// LoadSequenceConfig 从YAML文件加载序列配置
// 参数：
//
//	filepath - 序列配置文件的路径
//
// 返回：
//
//	*SequenceConfig - 解析后的序列配置
//	error - 文件读取、解析或验证失败
func LoadSequenceConfig(filepath string) (*SequenceConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence config file %s: %w", filepath, err)
	}

	cfg, err := ParseSequenceConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseSequenceConfig 从YAML数据解析序列配置（用于嵌入资源）
func ParseSequenceConfig(data []byte) (*SequenceConfig, error) {
	var cfg SequenceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sequence config YAML: %w", err)
	}

	// 应用默认值，缺失的可选字段在这里补齐，运行时不再检查
	applySequenceDefaults(&cfg)

	if err := validateSequenceConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid sequence config: %w", err)
	}

	return &cfg, nil
}

// applySequenceDefaults 为缺失的可选字段设置默认值
func applySequenceDefaults(cfg *SequenceConfig) {
	if cfg.Kind == "" {
		cfg.Kind = SequenceKindCutscene
	}

	if cfg.Name == "" {
		cfg.Name = cfg.ID
	}

	for i := range cfg.Steps {
		step := &cfg.Steps[i]
		if step.Name == "" {
			step.Name = fmt.Sprintf("step-%d", i)
		}
		// Spawns、Effects 默认为 nil，Movement 默认为 nil，AwaitInput 默认为 false
	}
}

// validateSequenceConfig 验证序列配置的完整性和合法性
func validateSequenceConfig(cfg *SequenceConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("sequence ID is required")
	}

	if cfg.Kind != SequenceKindCutscene && cfg.Kind != SequenceKindStage {
		return fmt.Errorf("kind must be one of: cutscene, stage, got %q", cfg.Kind)
	}

	if len(cfg.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	validEffects := map[string]bool{
		EffectLetterboxOpen:  true,
		EffectLetterboxClose: true,
		EffectMusicStart:     true,
		EffectMusicStop:      true,
	}

	for i, step := range cfg.Steps {
		if step.Elapse < 0 {
			return fmt.Errorf("step %d: elapse cannot be negative", i)
		}

		if step.Movement != nil && step.Movement.Speed < 0 {
			return fmt.Errorf("step %d: movement speed cannot be negative", i)
		}

		for j, spawn := range step.Spawns {
			if spawn.Elapsed < 0 {
				return fmt.Errorf("step %d, spawn %d: elapsed cannot be negative", i, j)
			}
			if spawn.Type == "" {
				return fmt.Errorf("step %d, spawn %d: type is required", i, j)
			}
		}

		for j, effect := range step.Effects {
			if !validEffects[effect.Kind] {
				return fmt.Errorf("step %d, effect %d: unknown effect kind %q", i, j, effect.Kind)
			}
		}
	}

	return nil
}
